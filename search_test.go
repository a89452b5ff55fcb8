package eventide_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tidewater-sim/eventide"
	"github.com/tidewater-sim/eventide/filter"
)

// seedSearchWorld creates three entities: one with health, one with health
// and armor, one with armor only.
func seedSearchWorld(t *testing.T) (*eventide.World, eventide.WorldContext, []eventide.EntityID) {
	t.Helper()
	world := newTestWorld(t)
	assert.NilError(t, eventide.RegisterComponent[health](world))
	assert.NilError(t, eventide.RegisterComponent[armor](world))
	wCtx := eventide.NewWorldContext(world)

	ids := make([]eventide.EntityID, 0, 3)
	for _, components := range [][]eventide.Component{
		{health{HP: 10}},
		{health{HP: 20}, armor{Rating: 1}},
		{armor{Rating: 2}},
	} {
		id, err := eventide.Create(wCtx, components...)
		assert.NilError(t, err)
		ids = append(ids, id)
	}
	return world, wCtx, ids
}

func TestSearchContains(t *testing.T) {
	_, wCtx, ids := seedSearchWorld(t)

	got, err := eventide.NewSearch(filter.Contains(health{})).Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[0], ids[1]})

	got, err = eventide.NewSearch(filter.Contains(health{}, armor{})).Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[1]})
}

func TestSearchExact(t *testing.T) {
	_, wCtx, ids := seedSearchWorld(t)

	got, err := eventide.NewSearch(filter.Exact(health{})).Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[0]})
}

func TestSearchComposedFilters(t *testing.T) {
	_, wCtx, ids := seedSearchWorld(t)

	got, err := eventide.NewSearch(filter.Or(filter.Exact(health{}), filter.Exact(armor{}))).Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[0], ids[2]})

	got, err = eventide.NewSearch(filter.Not(filter.Contains(armor{}))).Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[0]})
}

func TestSearchAll(t *testing.T) {
	_, wCtx, ids := seedSearchWorld(t)

	count, err := eventide.NewSearch(filter.All()).Count(wCtx)
	assert.NilError(t, err)
	assert.Equal(t, count, len(ids))
}

func TestSearchFirstAndCount(t *testing.T) {
	_, wCtx, ids := seedSearchWorld(t)

	search := eventide.NewSearch(filter.Contains(armor{}))
	first, err := search.First(wCtx)
	assert.NilError(t, err)
	assert.Equal(t, first, ids[1])

	count, err := search.Count(wCtx)
	assert.NilError(t, err)
	assert.Equal(t, count, 2)

	_, err = eventide.NewSearch(filter.Contains(health{}, armor{}, poison{})).First(wCtx)
	assert.Assert(t, err != nil)
}

func TestSearchUnknownComponentTypeIsEmpty(t *testing.T) {
	_, wCtx, _ := seedSearchWorld(t)

	count, err := eventide.NewSearch(filter.Contains(poison{})).Count(wCtx)
	assert.NilError(t, err)
	assert.Equal(t, count, 0)
}

func TestSearchByCQL(t *testing.T) {
	world, wCtx, ids := seedSearchWorld(t)

	search, err := world.SearchByCQL("CONTAINS(health) & !CONTAINS(armor)")
	assert.NilError(t, err)
	got, err := search.Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[0]})

	search, err = world.SearchByCQL("EXACT(health) | EXACT(armor)")
	assert.NilError(t, err)
	got, err = search.Collect(wCtx)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []eventide.EntityID{ids[0], ids[2]})
}

func TestSearchByCQLRejectsUnknownComponents(t *testing.T) {
	world, _, _ := seedSearchWorld(t)

	_, err := world.SearchByCQL("CONTAINS(poison)")
	assert.ErrorIs(t, err, eventide.ErrComponentNotRegistered)
}

type poison struct {
	Strength int `json:"strength"`
}

func (poison) Name() string { return "poison" }
