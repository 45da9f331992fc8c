package voicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestClosestTrivialPools(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultSelectorConfig()

	assert.Nil(Closest(60, nil, nil, 5, cfg))
	assert.Nil(Closest(60, []int{}, intp(55), 5, cfg))
	assert.Equal(64, *Closest(60, []int{64}, intp(55), 5, cfg))
}

func TestClosestWithoutPrevious(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultSelectorConfig()

	got := Closest(61, []int{48, 55, 60, 64, 67}, nil, 5, cfg)
	assert.Equal(60, *got)

	// Equidistant candidates resolve to the lower pitch.
	got = Closest(60, []int{58, 62}, nil, 5, cfg)
	assert.Equal(58, *got)
}

func TestClosestSmoothnessHoldsRepeatedNote(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultSelectorConfig()
	pool := []int{60, 67}

	held := Closest(67, pool, intp(60), 10, cfg)
	assert.Equal(60, *held, "high smoothness keeps the common tone")

	eager := Closest(67, pool, intp(60), 0, cfg)
	assert.Equal(67, *eager, "low smoothness chases the target")
}

func TestClosestStepOverridesLeap(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultSelectorConfig()
	pool := []int{61, 67}

	smooth := Closest(67, pool, intp(60), 7, cfg)
	assert.Equal(61, *smooth, "a nearby step replaces the winning leap")

	angular := Closest(67, pool, intp(60), 0, cfg)
	assert.Equal(67, *angular, "without smoothness the leap stands")
}

func TestClosestPrefersSmallerLeap(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultSelectorConfig()

	// Both candidates leap; the shorter one costs less at equal distance.
	got := Closest(60, []int{52, 68}, intp(44), 6, cfg)
	assert.Equal(52, *got)
}
