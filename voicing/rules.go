package voicing

import (
	"fmt"

	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/util"
)

// CheckVoiceLeading audits one sonority against its predecessor. With no
// previous voicing or strictness below 2 it does nothing. Strictness gates
// the checks in: crossings from 2, spacing from 3, parallel perfect
// intervals from 4. Results are advisory; nothing here rewrites a voicing.
// Voices are expected in ascending order as produced by Voices().
func CheckVoiceLeading(curr, prev []Voice, style model.Style, strictness int) []model.Diagnostic {
	strictness = util.Clamp(strictness, 0, 10)
	if strictness < 2 || !hasPitches(prev) {
		return nil
	}
	var diags []model.Diagnostic

	for i := 0; i+1 < len(curr); i++ {
		lower, upper := curr[i], curr[i+1]
		if lower.Pitch == nil || upper.Pitch == nil {
			continue
		}
		if *upper.Pitch < *lower.Pitch {
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagVoiceCrossing,
				Severity: model.SeverityWarning,
				Voices:   []string{lower.Name, upper.Name},
				Detail:   fmt.Sprintf("%s (%d) sounds above %s (%d)", lower.Name, *lower.Pitch, upper.Name, *upper.Pitch),
			})
		}
	}

	if strictness >= 3 {
		limits := spacingLimits(style, len(curr))
		for i := 0; i+1 < len(curr) && i < len(limits); i++ {
			lower, upper := curr[i], curr[i+1]
			if lower.Pitch == nil || upper.Pitch == nil || limits[i] == 0 {
				continue
			}
			if gap := *upper.Pitch - *lower.Pitch; gap > limits[i] {
				diags = append(diags, model.Diagnostic{
					Kind:     model.DiagSpacingExceeded,
					Severity: model.SeverityWarning,
					Voices:   []string{lower.Name, upper.Name},
					Detail:   fmt.Sprintf("%d semitones between %s and %s exceeds %d", gap, lower.Name, upper.Name, limits[i]),
				})
			}
		}
	}

	if strictness >= 4 {
		diags = append(diags, checkParallels(curr, prev)...)
	}
	return diags
}

// spacingLimits gives the allowed gap per adjacent pair, ascending; zero
// means unchecked. Chorale spacing is fixed; accompaniment stacks only
// bound the gap up to the melody.
func spacingLimits(style model.Style, n int) []int {
	if style == model.SATB && n == 4 {
		return []int{MaxTenorBass, MaxAltoTenor, MaxSopranoAlto}
	}
	limits := make([]int, n-1)
	if n >= 2 {
		limits[n-2] = AccompCeiling
	}
	return limits
}

// checkParallels flags pairs that move while holding the same absolute
// interval of a perfect fifth or octave. Oblique motion is fine; a voice
// that stays put clears the pair.
func checkParallels(curr, prev []Voice) []model.Diagnostic {
	var diags []model.Diagnostic
	for i := 0; i < len(curr); i++ {
		for j := i + 1; j < len(curr); j++ {
			if j >= len(prev) {
				continue
			}
			c1, c2 := curr[i].Pitch, curr[j].Pitch
			p1, p2 := prev[i].Pitch, prev[j].Pitch
			if c1 == nil || c2 == nil || p1 == nil || p2 == nil {
				continue
			}
			if *c1 == *p1 || *c2 == *p2 {
				continue
			}
			was := util.Abs(*p2 - *p1)
			is := util.Abs(*c2 - *c1)
			if was != is {
				continue
			}
			var kind model.DiagnosticKind
			switch {
			case was%12 == 0:
				kind = model.DiagParallelOctaves
			case was%12 == 7:
				kind = model.DiagParallelFifths
			default:
				continue
			}
			diags = append(diags, model.Diagnostic{
				Kind:     kind,
				Severity: model.SeverityWarning,
				Voices:   []string{curr[i].Name, curr[j].Name},
				Detail:   fmt.Sprintf("consecutive %d-semitone interval between %s and %s", was, curr[i].Name, curr[j].Name),
			})
		}
	}
	return diags
}

func hasPitches(voices []Voice) bool {
	for _, v := range voices {
		if v.Pitch != nil {
			return true
		}
	}
	return false
}
