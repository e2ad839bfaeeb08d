package reward

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/dispatch/internal/core/region"
)

// scriptedSource replays fixed rolls so individual branches can be pinned down.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) IntN(n int) int {
	i := s.ints[0]
	s.ints = s.ints[1:]
	if i >= n {
		panic("scripted int out of range")
	}
	return i
}

func forestTable(t *testing.T) []region.RewardEntry {
	t.Helper()
	r, ok := region.Default().FindRegion("forest_1")
	require.True(t, ok)
	return r.Rewards
}

func TestResolve_GuaranteedEntryAlwaysFires(t *testing.T) {
	table := []region.RewardEntry{{MaterialID: "herb_common", Min: 2, Max: 5, Chance: 1}}
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		got := Resolve(table, 1.01, rng)
		require.Contains(t, got, "herb_common")
		assert.GreaterOrEqual(t, got["herb_common"], 2)
		assert.LessOrEqual(t, got["herb_common"], 5)
	}
}

func TestResolve_Conservation(t *testing.T) {
	table := forestTable(t)
	bounds := make(map[string]region.RewardEntry, len(table))
	for _, e := range table {
		bounds[e.MaterialID] = e
	}
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 1000; i++ {
		got := Resolve(table, 1.05, rng)
		for id, qty := range got {
			e, ok := bounds[id]
			require.True(t, ok, "unexpected material %s", id)
			assert.NotZero(t, qty)
			assert.GreaterOrEqual(t, qty, e.Min, id)
			assert.LessOrEqual(t, qty, e.Max, id)
		}
	}
}

func TestResolve_MissesAndHits(t *testing.T) {
	table := []region.RewardEntry{
		{MaterialID: "a", Min: 1, Max: 3, Chance: 0.5},
		{MaterialID: "b", Min: 4, Max: 4, Chance: 0.5},
	}
	rng := &scriptedSource{
		floats: []float64{0.49, 0.51},
		ints:   []int{2},
	}

	got := Resolve(table, 1, rng)
	assert.Equal(t, Map{"a": 3}, got)
	assert.Empty(t, rng.floats)
	assert.Empty(t, rng.ints)
}

func TestResolve_RollEqualToChanceHits(t *testing.T) {
	table := []region.RewardEntry{
		{MaterialID: "a", Min: 2, Max: 2, Chance: 0.5},
		{MaterialID: "b", Min: 1, Max: 1, Chance: 0.25},
	}
	// 0.25 * 2 is exactly 0.5 in binary floating point.
	rng := &scriptedSource{floats: []float64{0.5, 0.5}}

	got := Resolve(table, 1, rng)
	assert.Equal(t, Map{"a": 2}, got)

	rng = &scriptedSource{floats: []float64{0.5, 0.5}}
	got = Resolve(table, 2, rng)
	assert.Equal(t, Map{"a": 2, "b": 1}, got)
}

func TestResolve_BonusPushesChanceOverOne(t *testing.T) {
	table := []region.RewardEntry{{MaterialID: "rare", Min: 1, Max: 1, Chance: 0.6}}
	rng := &scriptedSource{floats: []float64{0.999999}}

	got := Resolve(table, 2, rng)
	assert.Equal(t, Map{"rare": 1}, got)
}

func TestResolve_ZeroAmountOmitted(t *testing.T) {
	table := []region.RewardEntry{{MaterialID: "dust", Min: 0, Max: 2, Chance: 1}}
	rng := &scriptedSource{floats: []float64{0}, ints: []int{0}}

	got := Resolve(table, 1, rng)
	assert.NotContains(t, got, "dust")
	assert.Empty(t, got)
}

func TestResolve_RepeatedMaterialIsSummed(t *testing.T) {
	table := []region.RewardEntry{
		{MaterialID: "stone", Min: 1, Max: 1, Chance: 1},
		{MaterialID: "stone", Min: 2, Max: 2, Chance: 1},
	}
	rng := &scriptedSource{floats: []float64{0, 0}}

	assert.Equal(t, Map{"stone": 3}, Resolve(table, 1, rng))
}

func TestResolve_EmptyTable(t *testing.T) {
	got := Resolve(nil, 1, &scriptedSource{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBonusFactor(t *testing.T) {
	assert.InDelta(t, 1.0, BonusFactor(nil), 1e-9)
	assert.InDelta(t, 1.01, BonusFactor([]int{1}), 1e-9)
	assert.InDelta(t, 1.06, BonusFactor([]int{1, 5}), 1e-9)
}

func TestGreatSuccess(t *testing.T) {
	assert.InDelta(t, 0.05, GreatSuccessChance(false), 1e-9)
	assert.InDelta(t, 0.15, GreatSuccessChance(true), 1e-9)

	assert.True(t, RollGreatSuccess(0.05, &scriptedSource{floats: []float64{0.04}}))
	assert.False(t, RollGreatSuccess(0.05, &scriptedSource{floats: []float64{0.05}}))

	in := Map{"herb_common": 3, "herb_roots": 1}
	out := ApplyGreatSuccess(in, GreatSuccessMultiplier)
	assert.Equal(t, Map{"herb_common": 4, "herb_roots": 1}, out)
	assert.Equal(t, 3, in["herb_common"], "input must not be mutated")

	assert.Equal(t, Map{"x": 1}, ApplyGreatSuccess(Map{"x": 1}, 0.1))
}

func TestMap_TotalAndClone(t *testing.T) {
	m := Map{"a": 2, "b": 3}
	assert.Equal(t, 5, m.Total())

	c := m.Clone()
	c["a"] = 100
	assert.Equal(t, 2, m["a"])

	var nilMap Map
	assert.Nil(t, nilMap.Clone())
}
