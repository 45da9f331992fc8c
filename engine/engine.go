package engine

import (
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ColbyCabrera/harmonia/chord"
	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/rhythm"
	"github.com/ColbyCabrera/harmonia/theory"
	"github.com/ColbyCabrera/harmonia/voicing"
)

// Request is one fully-specified generation job. Callers building one from
// wire input should go through NewRequest, which applies the defaults.
type Request struct {
	Key         string
	Meter       string
	Measures    int
	Progression []string
	Settings    model.Settings
	Seed        int64
	Title       string
}

// NewRequest maps a wire-shaped GenerateRequest onto a Request: explicit
// settings win over the difficulty table, and a missing seed is taken from
// the clock.
func NewRequest(gr model.GenerateRequest) (Request, error) {
	settings := model.DefaultSettings()
	switch {
	case gr.Settings != nil:
		settings = gr.Settings.Normalized()
	case gr.Difficulty != nil:
		s, err := model.SettingsForDifficulty(*gr.Difficulty)
		if err != nil {
			return Request{}, err
		}
		settings = s
	}
	seed := time.Now().UnixNano()
	if gr.Seed != nil {
		seed = *gr.Seed
	}
	return Request{
		Key:         gr.Key,
		Meter:       gr.Meter,
		Measures:    gr.Measures,
		Progression: gr.Progression,
		Settings:    settings,
		Seed:        seed,
		Title:       gr.Title,
	}, nil
}

// Harmonize generates a complete piece for the request. Bad key, meter,
// settings or measure counts abort with an error; a chord that fails to
// resolve only costs its own measure, which is filled with rests before
// generation moves on. Everything soft lands in the diagnostics list.
//
// Measure count defaults to the progression length, and an empty
// progression is drafted from the key, so either may be omitted but not
// both. A fixed seed reproduces the piece exactly.
func Harmonize(req Request) (*model.Piece, []model.Diagnostic, error) {
	key, err := theory.ParseKey(req.Key)
	if err != nil {
		return nil, nil, err
	}
	meter, err := rhythm.ParseMeter(req.Meter)
	if err != nil {
		return nil, nil, err
	}
	settings := req.Settings.Normalized()
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	measures := req.Measures
	if measures == 0 {
		measures = len(req.Progression)
	}
	if measures < 1 || measures > constants.MaxMeasures {
		return nil, nil, &theory.InvalidInputError{
			Input:  fmt.Sprintf("measures=%d", measures),
			Reason: fmt.Sprintf("must be between 1 and %d", constants.MaxMeasures),
		}
	}

	rng := rand.New(rand.NewSource(req.Seed))
	gen := rhythm.NewGenerator(rng)

	prog := req.Progression
	if len(prog) == 0 {
		prog = DraftProgression(key, measures, rng)
	}

	title := req.Title
	if title == "" {
		title = "Harmonization in " + key.String()
	}
	piece := &model.Piece{
		ID:        uuid.NewString(),
		Title:     title,
		Key:       key.Name,
		Meter:     meter.String(),
		Style:     settings.Style,
		Seed:      req.Seed,
		CreatedAt: time.Now().UTC(),
	}

	var diags []model.Diagnostic
	var prevSATB *voicing.Voicing
	var prevAccomp *voicing.AccompVoicing
	cfg := voicing.DefaultSelectorConfig()

	for m := 0; m < measures; m++ {
		token := prog[m%len(prog)]
		measure := model.Measure{Index: m, Chord: token}

		res, err := chord.Resolve(token, key)
		if err != nil {
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagUnresolvedChord,
				Severity: model.SeverityWarning,
				Measure:  m,
				Beat:     1,
				Detail:   err.Error(),
			})
			measure.Events = restMeasure(meter, settings.Style)
			piece.Measures = append(piece.Measures, measure)
			// Continuity is meaningless across a silent measure.
			prevSATB, prevAccomp = nil, nil
			continue
		}
		pool := chord.BuildPool(res.Pitches)

		pattern, patternOK := gen.Pattern(meter, settings.RhythmComplexity)
		pos := 0
		for _, frac := range pattern {
			ticks := rhythm.Ticks(frac)
			name, dotted, _ := rhythm.DurationName(frac)
			beat := beatAt(pos, meter)

			switch settings.Style {
			case model.MelodyAccompaniment:
				v, vdiags := voicing.AssignMelodyAccomp(res, pool, prevAccomp, settings.AccompanimentVoices, settings.MelodicSmoothness, cfg)
				rdiags := voicing.CheckVoiceLeading(v.Voices(), accompVoices(prevAccomp), model.MelodyAccompaniment, settings.DissonanceStrictness)
				diags = append(diags, stamp(append(vdiags, rdiags...), m, beat)...)
				measure.Events = append(measure.Events, accompEvents(v, frac, meter, ticks, name, dotted)...)
				prevAccomp = &v
			default:
				v, vdiags := voicing.AssignSATB(res, pool, prevSATB, key, settings.MelodicSmoothness, cfg)
				rdiags := voicing.CheckVoiceLeading(v.Voices(), satbVoices(prevSATB), model.SATB, settings.DissonanceStrictness)
				diags = append(diags, stamp(append(vdiags, rdiags...), m, beat)...)
				measure.Events = append(measure.Events, satbEvents(v, ticks, name, dotted)...)
				prevSATB = &v
			}
			pos += ticks
		}

		if !patternOK || pos < meter.Ticks() {
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagRhythmIncomplete,
				Severity: model.SeverityWarning,
				Measure:  m,
				Beat:     beatAt(pos, meter),
				Detail:   fmt.Sprintf("rhythm fills %d of %d ticks, padding with rests", pos, meter.Ticks()),
			})
			measure.Events = append(measure.Events, padRests(meter.Ticks()-pos, settings.Style)...)
		}
		piece.Measures = append(piece.Measures, measure)
	}
	return piece, diags, nil
}

func satbVoices(prev *voicing.Voicing) []voicing.Voice {
	if prev == nil {
		return nil
	}
	return prev.Voices()
}

func accompVoices(prev *voicing.AccompVoicing) []voicing.Voice {
	if prev == nil {
		return nil
	}
	return prev.Voices()
}

func satbEvents(v voicing.Voicing, ticks int, name string, dotted bool) []model.MusicalEvent {
	return []model.MusicalEvent{
		{Staff: constants.TrebleStaff, Voice: model.VoiceSoprano, DurationTicks: ticks, Pitch: v.Soprano, Type: name, Dotted: dotted},
		{Staff: constants.TrebleStaff, Voice: model.VoiceAlto, DurationTicks: ticks, Pitch: v.Alto, Type: name, Dotted: dotted},
		{Staff: constants.BassStaff, Voice: model.VoiceTenor, DurationTicks: ticks, Pitch: v.Tenor, Type: name, Dotted: dotted},
		{Staff: constants.BassStaff, Voice: model.VoiceBass, DurationTicks: ticks, Pitch: v.Bass, Type: name, Dotted: dotted},
	}
}

// accompEvents writes the melody note and the chord stack under it. Stacks
// on slots shorter than a beat arpeggiate bottom-up instead of thickening a
// fast passage; the stack ticks are split evenly with the remainder on the
// last note, so the accompaniment line still sums to the slot.
func accompEvents(v voicing.AccompVoicing, frac *big.Rat, meter rhythm.Meter, ticks int, name string, dotted bool) []model.MusicalEvent {
	events := []model.MusicalEvent{
		{Staff: constants.TrebleStaff, Voice: model.VoiceMelody, DurationTicks: ticks, Pitch: v.Melody, Type: name, Dotted: dotted},
	}

	var pitches []*int
	for _, p := range v.Accomp {
		if p != nil {
			pitches = append(pitches, p)
		}
	}
	if len(pitches) == 0 {
		events = append(events, model.MusicalEvent{
			Staff: constants.BassStaff, Voice: model.VoiceAccomp, DurationTicks: ticks, Type: name, Dotted: dotted,
		})
		return events
	}

	if len(pitches) > 1 && frac.Cmp(meter.BeatWholeNotes()) < 0 {
		sub := ticks / len(pitches)
		for i, p := range pitches {
			d := sub
			if i == len(pitches)-1 {
				d = ticks - sub*(len(pitches)-1)
			}
			subName, subDotted, _ := rhythm.DurationName(big.NewRat(int64(d), int64(constants.WholeNoteTicks)))
			events = append(events, model.MusicalEvent{
				Staff: constants.BassStaff, Voice: model.VoiceAccomp, DurationTicks: d, Pitch: p, Type: subName, Dotted: subDotted,
			})
		}
		return events
	}

	for i, p := range pitches {
		events = append(events, model.MusicalEvent{
			Staff: constants.BassStaff, Voice: model.VoiceAccomp, DurationTicks: ticks, Pitch: p, Type: name, Dotted: dotted, ChordCont: i > 0,
		})
	}
	return events
}

// restMeasure fills a skipped measure with one whole-measure rest per staff.
func restMeasure(meter rhythm.Meter, style model.Style) []model.MusicalEvent {
	name, dotted, _ := rhythm.DurationName(meter.WholeNotes())
	bassVoice := model.VoiceBass
	if style == model.MelodyAccompaniment {
		bassVoice = model.VoiceAccomp
	}
	return []model.MusicalEvent{
		{Staff: constants.TrebleStaff, Voice: model.VoiceSoprano, DurationTicks: meter.Ticks(), Type: name, Dotted: dotted},
		{Staff: constants.BassStaff, Voice: bassVoice, DurationTicks: meter.Ticks(), Type: name, Dotted: dotted},
	}
}

// padRests tops up every active voice line after an incomplete rhythm, so
// the per-line tick sums still close the measure.
func padRests(rem int, style model.Style) []model.MusicalEvent {
	name, dotted, _ := rhythm.DurationName(big.NewRat(int64(rem), int64(constants.WholeNoteTicks)))
	if style == model.MelodyAccompaniment {
		return []model.MusicalEvent{
			{Staff: constants.TrebleStaff, Voice: model.VoiceMelody, DurationTicks: rem, Type: name, Dotted: dotted},
			{Staff: constants.BassStaff, Voice: model.VoiceAccomp, DurationTicks: rem, Type: name, Dotted: dotted},
		}
	}
	return []model.MusicalEvent{
		{Staff: constants.TrebleStaff, Voice: model.VoiceSoprano, DurationTicks: rem, Type: name, Dotted: dotted},
		{Staff: constants.TrebleStaff, Voice: model.VoiceAlto, DurationTicks: rem, Type: name, Dotted: dotted},
		{Staff: constants.BassStaff, Voice: model.VoiceTenor, DurationTicks: rem, Type: name, Dotted: dotted},
		{Staff: constants.BassStaff, Voice: model.VoiceBass, DurationTicks: rem, Type: name, Dotted: dotted},
	}
}

func stamp(ds []model.Diagnostic, measure int, beat float64) []model.Diagnostic {
	for i := range ds {
		ds[i].Measure = measure
		ds[i].Beat = beat
	}
	return ds
}

func beatAt(pos int, meter rhythm.Meter) float64 {
	return 1 + float64(pos)/float64(meter.BeatTicks())
}
