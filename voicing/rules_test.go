package voicing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ColbyCabrera/harmonia/model"
)

func chorale(bass, tenor, alto, soprano int) []Voice {
	return Voicing{
		Bass:    intp(bass),
		Tenor:   intp(tenor),
		Alto:    intp(alto),
		Soprano: intp(soprano),
	}.Voices()
}

func TestCheckVoiceLeadingRequiresPreviousVoicing(t *testing.T) {
	assert := assert.New(t)
	crossed := chorale(40, 62, 60, 70)

	assert.Empty(CheckVoiceLeading(crossed, Voicing{}.Voices(), model.SATB, 10))
	assert.Empty(CheckVoiceLeading(crossed, chorale(41, 50, 59, 69), model.SATB, 1))
}

func TestCheckVoiceLeadingStrictnessGates(t *testing.T) {
	assert := assert.New(t)
	prev := chorale(41, 50, 59, 69)
	// Tenor above alto, and 22 semitones from the bass.
	curr := chorale(40, 62, 60, 70)

	atTwo := CheckVoiceLeading(curr, prev, model.SATB, 2)
	assert.Len(atTwo, 1)
	assert.Equal(model.DiagVoiceCrossing, atTwo[0].Kind)
	assert.Equal([]string{"tenor", "alto"}, atTwo[0].Voices)

	atThree := CheckVoiceLeading(curr, prev, model.SATB, 3)
	assert.Len(atThree, 2)
	assert.Equal(model.DiagSpacingExceeded, atThree[1].Kind)
	assert.Equal([]string{"bass", "tenor"}, atThree[1].Voices)
}

func TestCheckVoiceLeadingFlagsParallels(t *testing.T) {
	assert := assert.New(t)
	prev := chorale(48, 55, 64, 72)
	curr := chorale(50, 57, 65, 74)

	assert.Empty(CheckVoiceLeading(curr, prev, model.SATB, 3), "parallels gate in at four")

	diags := CheckVoiceLeading(curr, prev, model.SATB, 4)
	assert.Len(diags, 2)
	assert.Equal(model.DiagParallelFifths, diags[0].Kind)
	assert.Equal([]string{"bass", "tenor"}, diags[0].Voices)
	assert.Equal(model.DiagParallelOctaves, diags[1].Kind)
	assert.Equal([]string{"bass", "soprano"}, diags[1].Voices)
}

func TestCheckVoiceLeadingIgnoresObliqueMotion(t *testing.T) {
	assert := assert.New(t)
	prev := chorale(48, 55, 64, 67)
	// Bass and alto hold; the pairs they anchor cannot be parallel.
	curr := chorale(48, 59, 64, 69)

	assert.Empty(CheckVoiceLeading(curr, prev, model.SATB, 10))
}

func TestCheckVoiceLeadingAccompCeiling(t *testing.T) {
	assert := assert.New(t)
	prev := AccompVoicing{
		Melody: intp(69),
		Accomp: []*int{intp(35), intp(39), intp(43)},
	}.Voices()
	curr := AccompVoicing{
		Melody: intp(70),
		Accomp: []*int{intp(36), intp(40), intp(44)},
	}.Voices()

	diags := CheckVoiceLeading(curr, prev, model.MelodyAccompaniment, 3)
	assert.Len(diags, 1)
	assert.Equal(model.DiagSpacingExceeded, diags[0].Kind)
	assert.Equal([]string{"accompaniment 3", "melody"}, diags[0].Voices)
}
