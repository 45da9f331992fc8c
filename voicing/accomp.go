package voicing

import (
	"fmt"

	"github.com/ColbyCabrera/harmonia/chord"
	"github.com/ColbyCabrera/harmonia/model"
)

// AccompVoicing is a melody pitch over a stack of accompaniment pitches,
// lowest first. Nil entries are rests.
type AccompVoicing struct {
	Melody *int
	Accomp []*int
}

// Voices lists the parts in ascending order, accompaniment then melody.
func (v AccompVoicing) Voices() []Voice {
	res := make([]Voice, 0, len(v.Accomp)+1)
	for i, p := range v.Accomp {
		res = append(res, Voice{Name: fmt.Sprintf("accompaniment %d", i+1), Pitch: p})
	}
	res = append(res, Voice{Name: "melody", Pitch: v.Melody})
	return res
}

// AssignMelodyAccomp places a melody line and a chord stack of the given
// size below it. The lowest stack voice favors the chord root, or the
// required bass pitch class when the chord is inverted; the rest ascend
// strictly, covering whatever chord tones remain. The top of the stack
// stays within AccompCeiling of the melody so no hole opens under the tune.
func AssignMelodyAccomp(res *chord.Resolved, pool []int, prev *AccompVoicing, voices, smoothness int, cfg SelectorConfig) (AccompVoicing, []model.Diagnostic) {
	v := AccompVoicing{Accomp: make([]*int, voices)}
	var diags []model.Diagnostic

	var prevMelody *int
	if prev != nil {
		prevMelody = prev.Melody
	}
	melodyTarget := MelodyRange.Center()
	if prevMelody != nil {
		melodyTarget = *prevMelody + sopranoLift
	}
	melodyPool := filterRange(pool, MelodyRange)
	v.Melody = Closest(melodyTarget, melodyPool, prevMelody, smoothness, cfg)

	window := filterRange(pool, AccompRange)
	window = strictlyBelow(window, v.Melody)

	// Lowest voice in the lower quarter of the range.
	wantBass := res.RootPc()
	if res.RequiredBassPc != nil {
		wantBass = *res.RequiredBassPc
	}
	bassCands := filterPc(window, wantBass)
	if len(bassCands) == 0 {
		bassCands = window
		if len(window) > 0 {
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagBassFallback,
				Severity: model.SeverityWarning,
				Voices:   []string{"accompaniment 1"},
				Detail:   fmt.Sprintf("bass pitch class %d unavailable in range for %s, using nearest chord tone", wantBass, res.Symbol.Token),
			})
		}
	}
	bassTarget := AccompRange.Min + (AccompRange.Max-AccompRange.Min)/4
	if p := prevAccomp(prev, 0); p != nil {
		bassTarget = *p
	}
	v.Accomp[0] = Closest(bassTarget, bassCands, prevAccomp(prev, 0), smoothness, cfg)

	pcs := accompPcOrder(res)
	covered := make(map[int]bool)
	if v.Melody != nil {
		covered[pcOf(*v.Melody)] = true
	}
	if v.Accomp[0] != nil {
		covered[pcOf(*v.Accomp[0])] = true
	}

	floor := v.Accomp[0]
	for i := 1; i < voices; i++ {
		cands := strictlyAbove(window, floor)
		if i == voices-1 {
			cands = withinBelow(cands, v.Melody, AccompCeiling)
		}
		if pc := nextUncovered(pcs, covered); pc != nil {
			if byPc := filterPc(cands, *pc); len(byPc) > 0 {
				cands = byPc
			}
		}
		target := AccompRange.Center()
		if p := prevAccomp(prev, i); p != nil {
			target = *p
		} else if floor != nil {
			target = *floor
		}
		v.Accomp[i] = Closest(target, cands, prevAccomp(prev, i), smoothness, cfg)
		if v.Accomp[i] != nil {
			covered[pcOf(*v.Accomp[i])] = true
			floor = v.Accomp[i]
		}
	}

	for _, part := range v.Voices() {
		if part.Pitch == nil {
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagVoicingIncomplete,
				Severity: model.SeverityWarning,
				Voices:   []string{part.Name},
				Detail:   fmt.Sprintf("no %s pitch satisfies range and spacing for %s", part.Name, res.Symbol.Token),
			})
		}
	}
	return v, diags
}

func prevAccomp(prev *AccompVoicing, i int) *int {
	if prev == nil || i >= len(prev.Accomp) {
		return nil
	}
	return prev.Accomp[i]
}

// accompPcOrder ranks chord factors for coverage: the third first, the
// seventh when present, then root and fifth.
func accompPcOrder(res *chord.Resolved) []int {
	pcs := res.PitchClasses()
	if len(pcs) > 3 {
		return []int{pcs[1], pcs[3], pcs[0], pcs[2]}
	}
	return []int{pcs[1], pcs[0], pcs[2]}
}

func nextUncovered(pcs []int, covered map[int]bool) *int {
	for _, pc := range pcs {
		if !covered[pc] {
			v := pc
			return &v
		}
	}
	return nil
}
