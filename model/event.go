package model

import "time"

// Voice-line ids within the piano part. Soprano and alto share the treble
// staff, tenor and bass the bass staff. Melody-plus-accompaniment textures
// reuse the first id of each staff.
const (
	VoiceSoprano = 1
	VoiceAlto    = 2
	VoiceTenor   = 3
	VoiceBass    = 4

	VoiceMelody = 1
	VoiceAccomp = 3
)

// MusicalEvent is one note or rest, placed on a staff and voice line.
// A nil Pitch is a rest. ChordCont marks a pitch sounding together with the
// previous event instead of after it.
type MusicalEvent struct {
	Staff         int    `json:"staff"`
	Voice         int    `json:"voice"`
	DurationTicks int    `json:"duration_ticks"`
	Pitch         *int   `json:"pitch,omitempty"`
	Type          string `json:"type,omitempty"`
	Dotted        bool   `json:"dotted,omitempty"`
	ChordCont     bool   `json:"chord,omitempty"`
}

// IsRest reports whether the event is a rest.
func (e MusicalEvent) IsRest() bool {
	return e.Pitch == nil
}

// Measure is one measure of events plus the chord symbol it was generated
// from. Within a measure the non-chord events of each staff/voice line sum
// exactly to the measure duration.
type Measure struct {
	Index  int            `json:"index"`
	Chord  string         `json:"chord"`
	Events []MusicalEvent `json:"events"`
}

// Piece is a fully generated exercise.
type Piece struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Key       string    `json:"key"`
	Meter     string    `json:"meter"`
	Style     Style     `json:"style"`
	Seed      int64     `json:"seed"`
	Measures  []Measure `json:"measures"`
	CreatedAt time.Time `json:"created_at"`
}

// Progression lists the chord symbol of every measure in order.
func (p *Piece) Progression() []string {
	res := make([]string, 0, len(p.Measures))
	for _, m := range p.Measures {
		res = append(res, m.Chord)
	}
	return res
}
