package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/rhythm"
	"github.com/ColbyCabrera/harmonia/theory"
	"github.com/ColbyCabrera/harmonia/voicing"
)

func baseRequest() Request {
	return Request{
		Key:         "C",
		Meter:       "4/4",
		Progression: []string{"I", "IV", "V7", "I"},
		Settings:    model.DefaultSettings(),
		Seed:        42,
	}
}

func checkMeasureTicks(t *testing.T, p *model.Piece, want int) {
	t.Helper()
	for _, m := range p.Measures {
		sums := make(map[[2]int]int)
		for _, e := range m.Events {
			if e.ChordCont {
				continue
			}
			sums[[2]int{e.Staff, e.Voice}] += e.DurationTicks
		}
		assert.NotEmpty(t, sums, "measure %d has no events", m.Index)
		for k, sum := range sums {
			assert.Equal(t, want, sum, "measure %d staff %d voice %d", m.Index, k[0], k[1])
		}
	}
}

func TestHarmonizeDeterministicPerSeed(t *testing.T) {
	assert := assert.New(t)
	req := baseRequest()
	req.Measures = 12

	first, diags1, err1 := Harmonize(req)
	second, diags2, err2 := Harmonize(req)

	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(first.Measures, second.Measures)
	assert.Equal(diags1, diags2)
	assert.NotEqual(first.ID, second.ID, "ids are fresh per run")
}

func TestHarmonizeRecoversFromUnresolvableChord(t *testing.T) {
	assert := assert.New(t)
	req := baseRequest()
	req.Progression = []string{"I", "XYZ", "V", "I"}

	piece, diags, err := Harmonize(req)
	assert.NoError(err)
	assert.Len(piece.Measures, 4)

	bad := piece.Measures[1]
	assert.Equal("XYZ", bad.Chord)
	assert.Len(bad.Events, 2)
	staves := []int{bad.Events[0].Staff, bad.Events[1].Staff}
	assert.Equal([]int{constants.TrebleStaff, constants.BassStaff}, staves)
	for _, e := range bad.Events {
		assert.True(e.IsRest())
		assert.Equal(constants.WholeNoteTicks, e.DurationTicks)
	}

	var kinds []model.DiagnosticKind
	for _, d := range diags {
		if d.Measure == 1 {
			kinds = append(kinds, d.Kind)
		}
	}
	assert.Contains(kinds, model.DiagUnresolvedChord)

	// The surrounding measures still carry real pitches.
	assert.False(piece.Measures[0].Events[0].IsRest())
	assert.False(piece.Measures[2].Events[0].IsRest())
}

func TestHarmonizeMeasureTickSums(t *testing.T) {
	for _, style := range []model.Style{model.SATB, model.MelodyAccompaniment} {
		for _, meterStr := range []string{"4/4", "3/4", "6/8", "7/16"} {
			for _, complexity := range []int{1, 5, 9} {
				for seed := int64(0); seed < 5; seed++ {
					req := baseRequest()
					req.Meter = meterStr
					req.Seed = seed
					req.Measures = 6
					req.Settings.Style = style
					req.Settings.RhythmComplexity = complexity

					piece, _, err := Harmonize(req)
					if err != nil {
						t.Fatalf("style %s meter %s: %v", style, meterStr, err)
					}
					meter, _ := rhythm.ParseMeter(meterStr)
					checkMeasureTicks(t, piece, meter.Ticks())
				}
			}
		}
	}
}

func TestHarmonizeSATBEventShape(t *testing.T) {
	assert := assert.New(t)
	req := baseRequest()
	req.Measures = 8
	req.Seed = 7

	piece, _, err := Harmonize(req)
	assert.NoError(err)

	for _, m := range piece.Measures {
		assert.Zero(len(m.Events)%4, "measure %d events come in soprano/alto/tenor/bass chunks", m.Index)
		for i := 0; i < len(m.Events); i += 4 {
			chunk := m.Events[i : i+4]
			assert.Equal(model.VoiceSoprano, chunk[0].Voice)
			assert.Equal(model.VoiceAlto, chunk[1].Voice)
			assert.Equal(model.VoiceTenor, chunk[2].Voice)
			assert.Equal(model.VoiceBass, chunk[3].Voice)
			assert.Equal(constants.TrebleStaff, chunk[0].Staff)
			assert.Equal(constants.TrebleStaff, chunk[1].Staff)
			assert.Equal(constants.BassStaff, chunk[2].Staff)
			assert.Equal(constants.BassStaff, chunk[3].Staff)
			for _, e := range chunk {
				assert.False(e.ChordCont)
				assert.Equal(chunk[0].DurationTicks, e.DurationTicks)
			}
		}
	}
}

func TestHarmonizeMelodyAccompaniment(t *testing.T) {
	assert := assert.New(t)
	req := baseRequest()
	req.Measures = 8
	req.Settings.Style = model.MelodyAccompaniment
	req.Settings.RhythmComplexity = 8

	piece, _, err := Harmonize(req)
	assert.NoError(err)
	assert.Equal(model.MelodyAccompaniment, piece.Style)

	for _, m := range piece.Measures {
		assert.Equal(constants.TrebleStaff, m.Events[0].Staff, "melody leads each measure")
		assert.Equal(model.VoiceMelody, m.Events[0].Voice)
		for _, e := range m.Events {
			if e.Staff == constants.TrebleStaff {
				assert.False(e.ChordCont, "chords only stack in the accompaniment")
			}
		}
	}
}

func TestHarmonizeCyclesProgression(t *testing.T) {
	assert := assert.New(t)
	req := baseRequest()
	req.Progression = []string{"I", "V"}
	req.Measures = 5

	piece, _, err := Harmonize(req)
	assert.NoError(err)
	assert.Equal([]string{"I", "V", "I", "V", "I"}, piece.Progression())
}

func TestHarmonizeDraftsWhenProgressionEmpty(t *testing.T) {
	assert := assert.New(t)
	req := baseRequest()
	req.Progression = nil
	req.Measures = 8

	first, _, err := Harmonize(req)
	assert.NoError(err)
	assert.Len(first.Measures, 8)
	assert.Equal("I", first.Progression()[0])
	assert.Equal("I", first.Progression()[7])
	assert.Contains([]string{"V", "V7"}, first.Progression()[6])

	second, _, err := Harmonize(req)
	assert.NoError(err)
	assert.Equal(first.Progression(), second.Progression())
}

func TestHarmonizeRejectsInvalidInput(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]func(*Request){
		"bad key":           func(r *Request) { r.Key = "H" },
		"bad meter":         func(r *Request) { r.Meter = "4/5" },
		"too many measures": func(r *Request) { r.Measures = constants.MaxMeasures + 1 },
		"empty request":     func(r *Request) { r.Progression = nil; r.Measures = 0 },
		"bad smoothness":    func(r *Request) { r.Settings.MelodicSmoothness = 11 },
		"bad style":         func(r *Request) { r.Settings.Style = "Baroque" },
	}
	for name, mutate := range cases {
		req := baseRequest()
		mutate(&req)
		piece, _, err := Harmonize(req)
		assert.Nil(piece, name)
		var invalid *theory.InvalidInputError
		assert.ErrorAs(err, &invalid, name)
	}
}

func TestNewRequestDefaults(t *testing.T) {
	assert := assert.New(t)

	req, err := NewRequest(model.GenerateRequest{Key: "C", Meter: "4/4", Measures: 4})
	assert.NoError(err)
	assert.Equal(model.DefaultSettings(), req.Settings)
	assert.NotZero(req.Seed, "missing seed comes from the clock")

	difficulty := 8
	seed := int64(99)
	req, err = NewRequest(model.GenerateRequest{
		Key: "C", Meter: "4/4", Measures: 4,
		Difficulty: &difficulty, Seed: &seed,
	})
	assert.NoError(err)
	assert.Equal(int64(99), req.Seed)
	assert.Equal(2, req.Settings.MelodicSmoothness)
	assert.Equal(8, req.Settings.RhythmComplexity)

	bad := 11
	_, err = NewRequest(model.GenerateRequest{Key: "C", Meter: "4/4", Difficulty: &bad})
	var invalid *theory.InvalidInputError
	assert.ErrorAs(err, &invalid)
}

func TestAccompEventsArpeggiatesShortSlots(t *testing.T) {
	assert := assert.New(t)
	meter, _ := rhythm.ParseMeter("4/4")
	v := stackOf(72, 48, 52, 55)

	// An eighth-note slot is shorter than the beat: the stack spreads out.
	events := accompEvents(v, big.NewRat(1, 8), meter, 240, "eighth", false)
	assert.Len(events, 4)
	total := 0
	for _, e := range events[1:] {
		assert.False(e.ChordCont)
		assert.Equal(constants.BassStaff, e.Staff)
		total += e.DurationTicks
	}
	assert.Equal(240, total, "arpeggio still fills the slot")

	// A half-note slot keeps the block chord.
	events = accompEvents(v, big.NewRat(1, 2), meter, 960, "half", false)
	assert.Len(events, 4)
	assert.False(events[1].ChordCont)
	assert.True(events[2].ChordCont)
	assert.True(events[3].ChordCont)
	for _, e := range events[1:] {
		assert.Equal(960, e.DurationTicks)
	}
}

func stackOf(melody int, accomp ...int) voicing.AccompVoicing {
	s := voicing.AccompVoicing{Melody: &melody}
	for i := range accomp {
		s.Accomp = append(s.Accomp, &accomp[i])
	}
	return s
}
