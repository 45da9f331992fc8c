package voicing

import (
	"fmt"

	"github.com/ColbyCabrera/harmonia/chord"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/theory"
)

// Voicing holds one pitch per chorale voice. A nil pitch means the voice
// could not be placed and is rendered as a rest.
type Voicing struct {
	Soprano *int
	Alto    *int
	Tenor   *int
	Bass    *int
}

// Voice pairs a part name with its pitch.
type Voice struct {
	Name  string
	Pitch *int
}

// Voices lists the parts in ascending order: bass, tenor, alto, soprano.
func (v Voicing) Voices() []Voice {
	return []Voice{
		{Name: "bass", Pitch: v.Bass},
		{Name: "tenor", Pitch: v.Tenor},
		{Name: "alto", Pitch: v.Alto},
		{Name: "soprano", Pitch: v.Soprano},
	}
}

// sopranoLift nudges the soprano target a step above its previous pitch so
// the top line tends upward instead of circling one note.
const sopranoLift = 2

// AssignSATB places bass, soprano, then the inner voices for one chord.
// Outer voices go first so the frame is fixed before coverage decisions;
// inner voices then complete the chord, doubling by priority when nothing
// is left to cover. Prev biases every pick toward small movement.
//
// Failures are soft: an unplaceable voice stays nil and is reported as a
// diagnostic, never an error. Diagnostics carry no measure position; the
// caller stamps it.
func AssignSATB(res *chord.Resolved, pool []int, prev *Voicing, key theory.Key, smoothness int, cfg SelectorConfig) (Voicing, []model.Diagnostic) {
	var v Voicing
	var diags []model.Diagnostic

	prevBass, prevTenor, prevAlto, prevSop := splitPrev(prev)

	// Bass sounds the required pitch class when the chord is inverted, the
	// root otherwise. Anything in range beats silence, so a miss falls back
	// to the whole bass-range pool with a warning.
	wantBass := res.RootPc()
	if res.RequiredBassPc != nil {
		wantBass = *res.RequiredBassPc
	}
	bassPool := filterRange(pool, BassRange)
	bassCands := filterPc(bassPool, wantBass)
	if len(bassCands) == 0 {
		bassCands = bassPool
		if len(bassPool) > 0 {
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagBassFallback,
				Severity: model.SeverityWarning,
				Voices:   []string{"bass"},
				Detail:   fmt.Sprintf("bass pitch class %d unavailable in range for %s, using nearest chord tone", wantBass, res.Symbol.Token),
			})
		}
	}
	bassTarget := res.Pitches[0] - 12
	if prevBass != nil {
		bassTarget = *prevBass
	}
	v.Bass = Closest(bassTarget, bassCands, prevBass, smoothness, cfg)

	// Soprano above the bass, drifting gently upward from its last pitch.
	sopTarget := SopranoRange.Center()
	if prevSop != nil {
		sopTarget = *prevSop + sopranoLift
	}
	sopPool := filterRange(pool, SopranoRange)
	sopPool = atOrAbove(sopPool, v.Bass)
	v.Soprano = Closest(sopTarget, sopPool, prevSop, smoothness, cfg)

	altoPc, tenorPc := innerAssignments(res, key, v.Bass, v.Soprano)

	// Alto between the outer voices, within an octave of the soprano.
	altoPool := filterRange(pool, AltoRange)
	altoPool = atOrBelow(altoPool, v.Soprano)
	altoPool = atOrAbove(altoPool, v.Bass)
	altoPool = withinBelow(altoPool, v.Soprano, MaxSopranoAlto)
	altoCands := altoPool
	if altoPc != nil {
		if byPc := filterPc(altoPool, *altoPc); len(byPc) > 0 {
			altoCands = byPc
		}
	}
	altoTarget := AltoRange.Center()
	if v.Soprano != nil {
		altoTarget = *v.Soprano - 5
	}
	v.Alto = Closest(altoTarget, altoCands, prevAlto, smoothness, cfg)

	// Tenor under the alto. The pool allows a unison with the alto, so a
	// pick that lands on it retries strictly below, then clamps, then gives
	// up for this event.
	tenorPool := filterRange(pool, TenorRange)
	tenorPool = atOrBelow(tenorPool, v.Alto)
	tenorPool = atOrAbove(tenorPool, v.Bass)
	tenorPool = withinBelow(tenorPool, v.Alto, MaxAltoTenor)
	tenorPool = withinAbove(tenorPool, v.Bass, MaxTenorBass)
	tenorCands := tenorPool
	if tenorPc != nil {
		if byPc := filterPc(tenorPool, *tenorPc); len(byPc) > 0 {
			tenorCands = byPc
		}
	}
	tenorTarget := TenorRange.Center()
	if v.Alto != nil {
		tenorTarget = *v.Alto - 7
	}
	v.Tenor = Closest(tenorTarget, tenorCands, prevTenor, smoothness, cfg)

	if v.Tenor != nil && v.Alto != nil && *v.Tenor >= *v.Alto {
		retry := Closest(tenorTarget, strictlyBelow(tenorCands, v.Alto), prevTenor, smoothness, cfg)
		if retry == nil {
			retry = Closest(tenorTarget, strictlyBelow(tenorPool, v.Alto), prevTenor, smoothness, cfg)
		}
		if retry != nil {
			v.Tenor = retry
		} else if c := *v.Alto - 1; TenorRange.Contains(c) && (v.Bass == nil || (c >= *v.Bass && c-*v.Bass <= MaxTenorBass)) {
			v.Tenor = &c
		} else {
			v.Tenor = nil
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

func splitPrev(prev *Voicing) (bass, tenor, alto, sop *int) {
	if prev == nil {
		return nil, nil, nil, nil
	}
	return prev.Bass, prev.Tenor, prev.Alto, prev.Soprano
}

// innerAssignments decides which pitch classes the alto and tenor should
// carry: uncovered chord tones first, quality-defining factors ahead of the
// rest, then doublings that avoid the leading tone and the seventh.
func innerAssignments(res *chord.Resolved, key theory.Key, placed ...*int) (altoPc, tenorPc *int) {
	pcs := res.PitchClasses()
	covered := make(map[int]bool)
	for _, p := range placed {
		if p != nil {
			covered[pcOf(*p)] = true
		}
	}

	var order []int
	if len(pcs) > 3 {
		order = append(order, pcs[1], pcs[3], pcs[0], pcs[2])
	} else {
		order = append(order, pcs[1], pcs[0], pcs[2])
	}
	var missing []int
	for _, pc := range order {
		if !covered[pc] {
			missing = append(missing, pc)
		}
	}

	double := doublingPc(res, key)
	switch len(missing) {
	case 0:
		return &double, &double
	case 1:
		return &missing[0], &double
	default:
		return &missing[0], &missing[1]
	}
}

// doublingPc prefers the root, then the fifth, then the third, skipping the
// leading tone. The seventh is never doubled.
func doublingPc(res *chord.Resolved, key theory.Key) int {
	lt := key.LeadingTonePc()
	for _, pc := range []int{res.RootPc(), res.FifthPc(), res.ThirdPc()} {
		if pc != lt {
			return pc
		}
	}
	return res.RootPc()
}

func pcOf(p int) int {
	return ((p % 12) + 12) % 12
}
