package des_test

import (
	"testing"

	"github.com/rotisserie/eris"
	"gotest.tools/v3/assert"

	"github.com/tidewater-sim/eventide/des"
)

func TestTimeoutFiresAtDelay(t *testing.T) {
	env := des.NewEnvironment()

	ev, err := env.Timeout(2.5)
	assert.NilError(t, err)

	var firedAt float64
	ev.OnFire(func() error {
		firedAt = env.Now()
		return nil
	})

	assert.NilError(t, env.Run(10))
	assert.Assert(t, ev.Fired())
	assert.Equal(t, firedAt, 2.5)
}

func TestNegativeDelayIsAnError(t *testing.T) {
	env := des.NewEnvironment()

	_, err := env.Timeout(-1)
	assert.Assert(t, err != nil)

	_, err = env.Defer(-1, func() error { return nil })
	assert.Assert(t, err != nil)
}

func TestEventsRunInTimeThenScheduleOrder(t *testing.T) {
	env := des.NewEnvironment()

	var order []string
	record := func(name string) func() error {
		return func() error {
			order = append(order, name)
			return nil
		}
	}

	late, err := env.Timeout(5)
	assert.NilError(t, err)
	late.OnFire(record("late"))

	first, err := env.Timeout(1)
	assert.NilError(t, err)
	first.OnFire(record("first"))

	// Same virtual time as "first" but scheduled afterwards.
	second, err := env.Timeout(1)
	assert.NilError(t, err)
	second.OnFire(record("second"))

	assert.NilError(t, env.Run(10))
	assert.DeepEqual(t, order, []string{"first", "second", "late"})
}

func TestDeferRunsResumeThenFires(t *testing.T) {
	env := des.NewEnvironment()

	var resumed bool
	ev, err := env.Defer(3, func() error {
		resumed = true
		return nil
	})
	assert.NilError(t, err)

	var resumedWhenFired bool
	ev.OnFire(func() error {
		resumedWhenFired = resumed
		return nil
	})

	assert.NilError(t, env.Run(10))
	assert.Assert(t, resumed)
	assert.Assert(t, resumedWhenFired)
	assert.Equal(t, env.Now(), 3.0)
}

func TestDeferErrorAbortsRun(t *testing.T) {
	env := des.NewEnvironment()

	_, err := env.Defer(1, func() error {
		return errBoom
	})
	assert.NilError(t, err)

	later, err := env.Timeout(2)
	assert.NilError(t, err)
	var ranLater bool
	later.OnFire(func() error {
		ranLater = true
		return nil
	})

	err = env.Run(10)
	assert.ErrorIs(t, err, errBoom)
	assert.Assert(t, !ranLater)
}

func TestAnyOfFiresWithEarliest(t *testing.T) {
	env := des.NewEnvironment()

	slow, err := env.Timeout(9)
	assert.NilError(t, err)
	fast, err := env.Timeout(2)
	assert.NilError(t, err)

	any := env.AnyOf(slow, fast)
	var firedAt float64
	any.OnFire(func() error {
		firedAt = env.Now()
		return nil
	})

	assert.NilError(t, env.Run(100))
	assert.Equal(t, firedAt, 2.0)
}

func TestAnyOfWaitsForSameTimeContinuations(t *testing.T) {
	env := des.NewEnvironment()

	// Two continuations resolve at the same virtual time. The disjunction
	// observer must run only after both have resumed.
	var resumes int
	a, err := env.Defer(4, func() error { resumes++; return nil })
	assert.NilError(t, err)
	b, err := env.Defer(4, func() error { resumes++; return nil })
	assert.NilError(t, err)

	any := env.AnyOf(a, b)
	var seen int
	any.OnFire(func() error {
		seen = resumes
		return nil
	})

	assert.NilError(t, env.Run(100))
	assert.Equal(t, seen, 2)
}

func TestAnyOfFiresOnce(t *testing.T) {
	env := des.NewEnvironment()

	a, err := env.Timeout(1)
	assert.NilError(t, err)
	b, err := env.Timeout(1)
	assert.NilError(t, err)

	any := env.AnyOf(a, b)
	var fires int
	any.OnFire(func() error {
		fires++
		return nil
	})

	assert.NilError(t, env.Run(10))
	assert.Equal(t, fires, 1)
}

func TestOnFireAfterFiredStillRuns(t *testing.T) {
	env := des.NewEnvironment()

	ev, err := env.Timeout(1)
	assert.NilError(t, err)
	assert.NilError(t, env.Run(10))
	assert.Assert(t, ev.Fired())

	var ran bool
	ev.OnFire(func() error {
		ran = true
		return nil
	})
	assert.NilError(t, env.Run(10))
	assert.Assert(t, ran)
}

func TestRunStopsAtBudget(t *testing.T) {
	env := des.NewEnvironment()

	inside, err := env.Timeout(3)
	assert.NilError(t, err)
	outside, err := env.Timeout(30)
	assert.NilError(t, err)

	assert.NilError(t, env.Run(10))
	assert.Assert(t, inside.Fired())
	assert.Assert(t, !outside.Fired())
	assert.Equal(t, env.Now(), 10.0)
	assert.Assert(t, env.Pending())
}

var errBoom = eris.New("boom")
