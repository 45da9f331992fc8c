package theory

import (
	"strconv"
	"strings"
)

// Mode is the tonality of a key.
type Mode int

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

// Quality is a triad quality.
type Quality int

const (
	MajorTriad Quality = iota
	MinorTriad
	DiminishedTriad
	AugmentedTriad
)

var triadIntervals = map[Quality][]int{
	MajorTriad:      {0, 4, 7},
	MinorTriad:      {0, 3, 7},
	DiminishedTriad: {0, 3, 6},
	AugmentedTriad:  {0, 4, 8},
}

// Intervals returns the semitone offsets of the triad from its root.
func (q Quality) Intervals() []int {
	res := make([]int, 3)
	copy(res, triadIntervals[q])
	return res
}

func (q Quality) String() string {
	switch q {
	case MinorTriad:
		return "minor"
	case DiminishedTriad:
		return "diminished"
	case AugmentedTriad:
		return "augmented"
	default:
		return "major"
	}
}

// Seventh is the kind of seventh stacked on a triad, if any.
type Seventh int

const (
	NoSeventh Seventh = iota
	Major7
	Dominant7
	Minor7
	HalfDiminished7
	Diminished7
)

var seventhIntervals = map[Seventh]int{
	Major7:          11,
	Dominant7:       10,
	Minor7:          10,
	HalfDiminished7: 10,
	Diminished7:     9,
}

// Interval returns the semitone offset of the seventh from the root. The
// second value is false for NoSeventh.
func (s Seventh) Interval() (int, bool) {
	iv, ok := seventhIntervals[s]
	return iv, ok
}

func (s Seventh) String() string {
	switch s {
	case Major7:
		return "maj7"
	case Dominant7:
		return "7"
	case Minor7:
		return "m7"
	case HalfDiminished7:
		return "m7b5"
	case Diminished7:
		return "dim7"
	default:
		return ""
	}
}

// NaturalSeventh is the seventh a triad quality extends to when nothing more
// specific applies: a quality override on a roman numeral discards the scale
// degree's default table entry.
func NaturalSeventh(q Quality) Seventh {
	switch q {
	case MinorTriad:
		return Minor7
	case DiminishedTriad:
		return Diminished7
	case AugmentedTriad:
		return Major7
	default:
		return Dominant7
	}
}

// Chord is an abstract chord: a root pitch class plus quality and optional
// seventh. It carries no octave information.
type Chord struct {
	Root    int
	Quality Quality
	Seventh Seventh
}

// Intervals returns the semitone offsets of every chord tone from the root,
// ascending. Triads give three entries, seventh chords four.
func (c Chord) Intervals() []int {
	res := c.Quality.Intervals()
	if iv, ok := c.Seventh.Interval(); ok {
		res = append(res, iv)
	}
	return res
}

// PitchClasses returns the chord tones as pitch classes, root first.
func (c Chord) PitchClasses() []int {
	var res []int
	for _, iv := range c.Intervals() {
		res = append(res, (c.Root+iv)%12)
	}
	return res
}

// Key is a tonic pitch class plus a mode. Name preserves the spelling it was
// parsed from ("Eb", "F#m") so accidental preference survives round trips.
type Key struct {
	Tonic int
	Mode  Mode
	Name  string
}

var letterPcs = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParseKey parses key strings like "C", "F#", "Bb" and "Gm". A trailing
// lowercase m marks a minor key.
func ParseKey(s string) (Key, error) {
	name := strings.TrimSpace(s)
	rest := name
	mode := Major
	if strings.HasSuffix(rest, "m") {
		mode = Minor
		rest = strings.TrimSuffix(rest, "m")
	}
	if len(rest) == 0 {
		return Key{}, &InvalidInputError{Input: s, Reason: "empty key"}
	}
	pc, ok := letterPcs[rest[0]]
	if !ok {
		return Key{}, &InvalidInputError{Input: s, Reason: "unknown key letter"}
	}
	switch rest[1:] {
	case "":
	case "#":
		pc = (pc + 1) % 12
	case "b":
		pc = (pc + 11) % 12
	default:
		return Key{}, &InvalidInputError{Input: s, Reason: "unknown accidental"}
	}
	return Key{Tonic: pc, Mode: mode, Name: name}, nil
}

func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	suffix := ""
	if k.Mode == Minor {
		suffix = "m"
	}
	return sharpNames[((k.Tonic%12)+12)%12] + suffix
}

var (
	majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = [7]int{0, 2, 3, 5, 7, 8, 10}

	majorQualities = [7]Quality{
		MajorTriad, MinorTriad, MinorTriad, MajorTriad,
		MajorTriad, MinorTriad, DiminishedTriad,
	}
	// Harmonic minor on degrees V and vii: major dominant, and a diminished
	// triad on the raised seventh step.
	minorQualities = [7]Quality{
		MinorTriad, DiminishedTriad, MajorTriad, MinorTriad,
		MajorTriad, MajorTriad, DiminishedTriad,
	}

	majorSevenths = [7]Seventh{
		Major7, Minor7, Minor7, Major7, Dominant7, Minor7, HalfDiminished7,
	}
	minorSevenths = [7]Seventh{
		Minor7, HalfDiminished7, Major7, Minor7, Dominant7, Major7, Diminished7,
	}
)

// Degrees returns the seven diatonic triads of the key, one per scale degree.
// Minor keys use the harmonic-minor chords on degrees V and vii.
func (k Key) Degrees() [7]Chord {
	var res [7]Chord
	for i := 0; i < 7; i++ {
		step := majorSteps[i]
		quality := majorQualities[i]
		if k.Mode == Minor {
			step = minorSteps[i]
			quality = minorQualities[i]
			if i == 6 {
				step = 11 // raised leading tone
			}
		}
		res[i] = Chord{Root: (k.Tonic + step) % 12, Quality: quality}
	}
	return res
}

// DegreeSeventh returns the default seventh kind for a scale degree (0-6)
// when a roman numeral asks for a seventh without specifying which.
func (k Key) DegreeSeventh(degree int) Seventh {
	if degree < 0 || degree > 6 {
		return NoSeventh
	}
	if k.Mode == Minor {
		return minorSevenths[degree]
	}
	return majorSevenths[degree]
}

// ScalePcs returns the pitch classes of the key's scale. For minor keys the
// raised leading tone is included alongside the natural seventh step, so the
// result covers every harmonic-minor degree chord.
func (k Key) ScalePcs() []int {
	var res []int
	for _, step := range majorSteps {
		if k.Mode == Minor {
			break
		}
		res = append(res, (k.Tonic+step)%12)
	}
	if k.Mode == Minor {
		for _, step := range minorSteps {
			res = append(res, (k.Tonic+step)%12)
		}
		res = append(res, (k.Tonic+11)%12)
	}
	return res
}

// LeadingTonePc is the pitch class a semitone below the tonic. Doubling it is
// avoided when filling inner voices.
func (k Key) LeadingTonePc() int {
	return (k.Tonic + 11) % 12
}

// Fifths returns the key signature as a count of fifths, negative for flat
// keys, for notation output.
func (k Key) Fifths() int {
	pc := k.Tonic
	if k.Mode == Minor {
		pc = (pc + 3) % 12 // relative major
	}
	r := (pc * 7) % 12
	switch {
	case strings.Contains(k.Name, "b"):
		if r > 0 {
			return r - 12
		}
		return r
	case strings.Contains(k.Name, "#"):
		return r
	default:
		if r > 6 {
			return r - 12
		}
		return r
	}
}

var (
	sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// NoteName returns the sharp-spelled name of a MIDI pitch, e.g. 60 -> "C4".
// Out-of-range pitches return "".
func NoteName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return ""
	}
	return sharpNames[pitch%12] + strconv.Itoa(pitch/12-1)
}

// NoteNameInKey spells a MIDI pitch with flats when the key signature is on
// the flat side, sharps otherwise.
func NoteNameInKey(pitch int, k Key) string {
	if pitch < 0 || pitch > 127 {
		return ""
	}
	if k.Fifths() < 0 {
		return flatNames[pitch%12] + strconv.Itoa(pitch/12-1)
	}
	return sharpNames[pitch%12] + strconv.Itoa(pitch/12-1)
}

// PcName spells a bare pitch class in the key's accidental preference.
func PcName(pc int, k Key) string {
	pc = Pc(pc)
	if k.Fifths() < 0 {
		return flatNames[pc]
	}
	return sharpNames[pc]
}

// NoteParts is a note name broken into notation fields: a letter step, an
// accidental offset in semitones and an octave number.
type NoteParts struct {
	Step   string
	Alter  int
	Octave int
}

// SplitNote parses names like "C4", "F#3" and "Bb-1".
func SplitNote(name string) (NoteParts, error) {
	if len(name) < 2 {
		return NoteParts{}, &InvalidInputError{Input: name, Reason: "note name too short"}
	}
	if _, ok := letterPcs[name[0]]; !ok {
		return NoteParts{}, &InvalidInputError{Input: name, Reason: "unknown note letter"}
	}
	parts := NoteParts{Step: string(name[0])}
	rest := name[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		parts.Alter = 1
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		parts.Alter = -1
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return NoteParts{}, &InvalidInputError{Input: name, Reason: "bad octave"}
	}
	parts.Octave = octave
	return parts, nil
}

// ParseNote converts a note name back to its MIDI pitch, the inverse of
// NoteName. C4 is 60.
func ParseNote(name string) (int, error) {
	parts, err := SplitNote(name)
	if err != nil {
		return 0, err
	}
	pitch := (parts.Octave+1)*12 + letterPcs[parts.Step[0]] + parts.Alter
	if pitch < 0 || pitch > 127 {
		return 0, &InvalidInputError{Input: name, Reason: "pitch out of range"}
	}
	return pitch, nil
}

// Transpose shifts a pitch by an interval in semitones.
func Transpose(pitch, interval int) int {
	return pitch + interval
}

// Pc reduces a pitch to its pitch class.
func Pc(pitch int) int {
	return ((pitch % 12) + 12) % 12
}
