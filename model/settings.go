package model

import (
	"fmt"

	"github.com/ColbyCabrera/harmonia/theory"
)

// Style selects the generated texture.
type Style string

const (
	SATB                Style = "SATB"
	MelodyAccompaniment Style = "MelodyAccompaniment"
)

// Settings are the generator knobs. Scalar knobs run 0-10.
type Settings struct {
	MelodicSmoothness    int   `json:"melodic_smoothness" yaml:"melodic_smoothness"`
	DissonanceStrictness int   `json:"dissonance_strictness" yaml:"dissonance_strictness"`
	RhythmComplexity     int   `json:"rhythm_complexity" yaml:"rhythm_complexity"`
	Style                Style `json:"style" yaml:"style"`
	AccompanimentVoices  int   `json:"accompaniment_voices,omitempty" yaml:"accompaniment_voices,omitempty"`
}

// DefaultSettings sit in the middle of every range.
func DefaultSettings() Settings {
	return Settings{
		MelodicSmoothness:    5,
		DissonanceStrictness: 5,
		RhythmComplexity:     5,
		Style:                SATB,
		AccompanimentVoices:  3,
	}
}

// Normalized fills the fields a caller may leave zero.
func (s Settings) Normalized() Settings {
	if s.Style == "" {
		s.Style = SATB
	}
	if s.AccompanimentVoices == 0 {
		s.AccompanimentVoices = 3
	}
	return s
}

// Validate rejects settings outside their documented ranges.
func (s Settings) Validate() error {
	scalars := []struct {
		name  string
		value int
	}{
		{"melodic_smoothness", s.MelodicSmoothness},
		{"dissonance_strictness", s.DissonanceStrictness},
		{"rhythm_complexity", s.RhythmComplexity},
	}
	for _, scalar := range scalars {
		if scalar.value < 0 || scalar.value > 10 {
			return &theory.InvalidInputError{
				Input:  fmt.Sprintf("%s=%d", scalar.name, scalar.value),
				Reason: "must be between 0 and 10",
			}
		}
	}
	if s.Style != SATB && s.Style != MelodyAccompaniment {
		return &theory.InvalidInputError{Input: string(s.Style), Reason: "unknown generation style"}
	}
	if s.AccompanimentVoices < 1 || s.AccompanimentVoices > 6 {
		return &theory.InvalidInputError{
			Input:  fmt.Sprintf("accompaniment_voices=%d", s.AccompanimentVoices),
			Reason: "must be between 1 and 6",
		}
	}
	return nil
}

// SettingsForDifficulty maps a single 0-10 difficulty scalar onto the knobs:
// easy pieces move smoothly, obey the rulebook and stick to long note
// values; hard ones subdivide more and tolerate rougher lines.
func SettingsForDifficulty(difficulty int) (Settings, error) {
	if difficulty < 0 || difficulty > 10 {
		return Settings{}, &theory.InvalidInputError{
			Input:  fmt.Sprintf("difficulty=%d", difficulty),
			Reason: "must be between 0 and 10",
		}
	}
	return Settings{
		MelodicSmoothness:    10 - difficulty,
		DissonanceStrictness: 10 - difficulty,
		RhythmComplexity:     difficulty,
		Style:                SATB,
		AccompanimentVoices:  3,
	}, nil
}
