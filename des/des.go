// Package des provides the discrete-event primitives that drive the world
// loop: a virtual clock, timeout events, a disjunction combinator, and
// two-phase continuations. Time is purely logical; the environment never
// consults the wall clock and advances only when an event is processed.
package des

import (
	"container/heap"

	"github.com/rotisserie/eris"
)

// Environment owns the virtual clock and the queue of scheduled work.
// It is not safe for concurrent use; everything runs on the single goroutine
// that calls Run.
type Environment struct {
	now   float64
	seq   uint64
	queue callQueue
}

// NewEnvironment creates an Environment with the clock at zero.
func NewEnvironment() *Environment {
	return &Environment{
		now:   0,
		seq:   0,
		queue: callQueue{},
	}
}

// Now returns the current virtual time.
func (e *Environment) Now() float64 {
	return e.now
}

// Pending reports whether any scheduled work remains.
func (e *Environment) Pending() bool {
	return e.queue.Len() > 0
}

// Timeout returns an event that fires after the given virtual delay.
func (e *Environment) Timeout(delay float64) (*Event, error) {
	if delay < 0 {
		return nil, eris.Errorf("negative timeout delay %f", delay)
	}
	ev := e.newEvent()
	e.schedule(e.now+delay, ev.fire)
	return ev, nil
}

// Defer schedules a continuation: resume runs exactly once, at now+delay, and
// the returned event fires after resume completes. This is the two-phase unit
// systems use for per-entity deferred work; the start phase is whatever the
// caller did synchronously before calling Defer. An error returned by resume
// aborts the whole run. Resume logic must tolerate entities that were
// destroyed while it was pending.
func (e *Environment) Defer(delay float64, resume func() error) (*Event, error) {
	if delay < 0 {
		return nil, eris.Errorf("negative defer delay %f", delay)
	}
	ev := e.newEvent()
	e.schedule(e.now+delay, func() error {
		if err := resume(); err != nil {
			return err
		}
		return ev.fire()
	})
	return ev, nil
}

// AnyOf returns an event that fires once the earliest of the given events
// fires. The disjunction does not fire inline with its trigger: it re-queues
// itself at the same virtual time, behind work already scheduled there, so
// every continuation that fires at time t finishes before anything waiting on
// the disjunction runs. With no events given, the result fires at the current
// time.
func (e *Environment) AnyOf(events ...*Event) *Event {
	ev := e.newEvent()
	if len(events) == 0 {
		e.schedule(e.now, ev.fire)
		return ev
	}
	for _, child := range events {
		child.OnFire(func() error {
			if ev.fired {
				return nil
			}
			e.schedule(e.now, ev.fire)
			return nil
		})
	}
	return ev
}

// Process schedules fn to run at the current virtual time and returns an
// event that fires after fn completes. A loop uses it to bootstrap itself onto
// the clock before Run starts draining the queue.
func (e *Environment) Process(fn func() error) *Event {
	ev := e.newEvent()
	e.schedule(e.now, func() error {
		if err := fn(); err != nil {
			return err
		}
		return ev.fire()
	})
	return ev
}

// Run processes scheduled work in (time, schedule-order) until the queue is
// empty or the next item is at or past the given time budget. When the budget
// cuts the run short the clock is parked at the budget. The first error from
// any scheduled call aborts the run immediately.
func (e *Environment) Run(until float64) error {
	for e.queue.Len() > 0 {
		next := e.queue[0]
		if next.at >= until {
			e.now = until
			return nil
		}
		heap.Pop(&e.queue)
		e.now = next.at
		if err := next.run(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Environment) newEvent() *Event {
	return &Event{env: e}
}

func (e *Environment) schedule(at float64, run func() error) {
	heap.Push(&e.queue, &scheduledCall{at: at, seq: e.seq, run: run})
	e.seq++
}

// Event is an opaque wake condition: a one-shot occurrence on the virtual
// clock that callbacks can be attached to.
type Event struct {
	env       *Environment
	fired     bool
	callbacks []func() error
}

// Fired reports whether the event has already occurred.
func (ev *Event) Fired() bool {
	return ev.fired
}

// OnFire registers fn to run when the event fires. Registering on an event
// that has already fired schedules fn at the current virtual time.
func (ev *Event) OnFire(fn func() error) {
	if ev.fired {
		ev.env.schedule(ev.env.now, fn)
		return
	}
	ev.callbacks = append(ev.callbacks, fn)
}

func (ev *Event) fire() error {
	if ev.fired {
		return nil
	}
	ev.fired = true
	callbacks := ev.callbacks
	ev.callbacks = nil
	for _, cb := range callbacks {
		if err := cb(); err != nil {
			return err
		}
	}
	return nil
}

// scheduledCall is a unit of work queued at a virtual time. The sequence
// number makes ordering total: ties on time resolve in scheduling order,
// which keeps runs deterministic.
type scheduledCall struct {
	at  float64
	seq uint64
	run func() error
}

type callQueue []*scheduledCall

func (q callQueue) Len() int { return len(q) }

func (q callQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q callQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *callQueue) Push(x any) {
	*q = append(*q, x.(*scheduledCall))
}

func (q *callQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
