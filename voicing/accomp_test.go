package voicing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ColbyCabrera/harmonia/model"
)

func TestAssignMelodyAccompBasics(t *testing.T) {
	assert := assert.New(t)
	res, pool, _ := mustResolve(t, "C", "I")

	v, diags := AssignMelodyAccomp(res, pool, nil, 3, 5, DefaultSelectorConfig())

	assert.Empty(diags)
	assert.Equal(67, *v.Melody)
	assert.Equal(48, *v.Accomp[0])
	assert.Equal(52, *v.Accomp[1])
	assert.Equal(55, *v.Accomp[2])

	parts := v.Voices()
	assert.Equal([]string{"accompaniment 1", "accompaniment 2", "accompaniment 3", "melody"},
		[]string{parts[0].Name, parts[1].Name, parts[2].Name, parts[3].Name})
	for i := 0; i+1 < len(parts); i++ {
		assert.Less(*parts[i].Pitch, *parts[i+1].Pitch)
	}
}

func TestAssignMelodyAccompHonorsInversion(t *testing.T) {
	assert := assert.New(t)
	res, pool, _ := mustResolve(t, "C", "ii6")

	v, diags := AssignMelodyAccomp(res, pool, nil, 3, 5, DefaultSelectorConfig())

	assert.Empty(diags)
	assert.Equal(5, *v.Accomp[0]%12, "first inversion puts the third at the bottom of the stack")
}

func TestAssignMelodyAccompSpacingCeiling(t *testing.T) {
	assert := assert.New(t)
	res, _, _ := mustResolve(t, "C", "I")
	cfg := DefaultSelectorConfig()

	// Melody at 76: the 54 sits 22 below it and is kept.
	v, diags := AssignMelodyAccomp(res, []int{36, 40, 48, 52, 54, 76}, nil, 3, 5, cfg)
	assert.Empty(diags)
	assert.Equal(76, *v.Melody)
	assert.Equal(54, *v.Accomp[2])

	// Melody at 84: the same 54 is 30 below it and is rejected.
	v, diags = AssignMelodyAccomp(res, []int{36, 40, 48, 52, 54, 84}, nil, 3, 5, cfg)
	assert.Equal(84, *v.Melody)
	assert.Nil(v.Accomp[2])
	assert.Len(diags, 1)
	assert.Equal(model.DiagVoicingIncomplete, diags[0].Kind)
	assert.Equal([]string{"accompaniment 3"}, diags[0].Voices)
}

func TestAssignMelodyAccompThreadsPrevious(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultSelectorConfig()

	res, pool, _ := mustResolve(t, "C", "I")
	first, _ := AssignMelodyAccomp(res, pool, nil, 3, 5, cfg)

	res, pool, _ = mustResolve(t, "C", "V")
	second, diags := AssignMelodyAccomp(res, pool, &first, 3, 5, cfg)

	assert.Empty(diags)
	assert.Equal(*first.Melody, *second.Melody, "melody keeps the common tone")
	assert.Equal(43, *second.Accomp[0])
	assert.Equal(47, *second.Accomp[1])
	assert.Equal(50, *second.Accomp[2])
}
