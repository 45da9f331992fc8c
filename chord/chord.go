package chord

import (
	"sort"
	"strings"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/theory"
)

// Symbol is a parsed roman-numeral token, split once into its parts so the
// resolver never has to re-scan the string.
type Symbol struct {
	Token        string
	Degree       int // 0-based scale degree
	Uppercase    bool
	Quality      theory.Quality // meaningful only when QualitySet
	QualitySet   bool
	Seventh      theory.Seventh // explicit kind, meaningful only when SeventhSet
	SeventhSet   bool
	WantsSeventh bool
	BassFactor   int // chord factor required in the bass: 1, 3, 5 or 7
}

var romanDegrees = map[string]int{
	"I": 0, "II": 1, "III": 2, "IV": 3, "V": 4, "VI": 5, "VII": 6,
}

// Parse splits a roman-numeral token like "V7", "ii6", "vii°65" or "IV/3"
// into a Symbol. Figured-bass suffixes map to the chord factor that must
// sound in the bass (6 -> third, 64 -> fifth, 65 -> third, 43 -> fifth,
// 42 or 2 -> seventh); slash notation names the factor directly. The figures
// 7, 65, 43, 42 and 2 also ask for a seventh chord.
func Parse(token string) (Symbol, error) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return Symbol{}, &theory.InvalidInputError{Input: token, Reason: "empty chord token"}
	}
	sym := Symbol{Token: raw, BassFactor: 1}

	stem := raw
	slashed := false
	if i := strings.Index(stem, "/"); i >= 0 {
		bass := stem[i+1:]
		stem = stem[:i]
		slashed = true
		switch bass {
		case "1":
			sym.BassFactor = 1
		case "3":
			sym.BassFactor = 3
		case "5":
			sym.BassFactor = 5
		case "7":
			sym.BassFactor = 7
			sym.WantsSeventh = true
		default:
			return Symbol{}, &theory.InvalidInputError{Input: raw, Reason: "unrecognized bass factor after slash"}
		}
	}

	n := 0
	for n < len(stem) && strings.ContainsRune("IiVv", rune(stem[n])) {
		n++
	}
	if n == 0 {
		return Symbol{}, &theory.InvalidInputError{Input: raw, Reason: "missing roman numeral"}
	}
	roman := stem[:n]
	suffix := stem[n:]
	switch roman {
	case strings.ToUpper(roman):
		sym.Uppercase = true
	case strings.ToLower(roman):
		sym.Uppercase = false
	default:
		return Symbol{}, &theory.InvalidInputError{Input: raw, Reason: "mixed-case roman numeral"}
	}
	degree, ok := romanDegrees[strings.ToUpper(roman)]
	if !ok {
		return Symbol{}, &theory.InvalidInputError{Input: raw, Reason: "unknown roman numeral"}
	}
	sym.Degree = degree

	switch {
	case strings.HasPrefix(suffix, "ø"):
		// Half-diminished always means a seventh chord.
		sym.Quality = theory.DiminishedTriad
		sym.QualitySet = true
		sym.Seventh = theory.HalfDiminished7
		sym.SeventhSet = true
		sym.WantsSeventh = true
		suffix = strings.TrimPrefix(suffix, "ø")
		suffix = strings.TrimPrefix(suffix, "7")
	case strings.HasPrefix(suffix, "°"), strings.HasPrefix(suffix, "o"), strings.HasPrefix(suffix, "dim"):
		sym.Quality = theory.DiminishedTriad
		sym.QualitySet = true
		suffix = strings.TrimPrefix(suffix, "°")
		suffix = strings.TrimPrefix(suffix, "o")
		suffix = strings.TrimPrefix(suffix, "dim")
		if strings.HasPrefix(suffix, "7") {
			sym.Seventh = theory.Diminished7
			sym.SeventhSet = true
			sym.WantsSeventh = true
			suffix = suffix[1:]
		}
	case strings.HasPrefix(suffix, "+"), strings.HasPrefix(suffix, "aug"):
		sym.Quality = theory.AugmentedTriad
		sym.QualitySet = true
		suffix = strings.TrimPrefix(suffix, "+")
		suffix = strings.TrimPrefix(suffix, "aug")
	case strings.HasPrefix(suffix, "maj"), strings.HasPrefix(suffix, "M"):
		sym.Quality = theory.MajorTriad
		sym.QualitySet = true
		suffix = strings.TrimPrefix(suffix, "maj")
		suffix = strings.TrimPrefix(suffix, "M")
		if strings.HasPrefix(suffix, "7") {
			sym.Seventh = theory.Major7
			sym.SeventhSet = true
			sym.WantsSeventh = true
			suffix = suffix[1:]
		}
	case strings.HasPrefix(suffix, "min"), strings.HasPrefix(suffix, "m"):
		sym.Quality = theory.MinorTriad
		sym.QualitySet = true
		suffix = strings.TrimPrefix(suffix, "min")
		suffix = strings.TrimPrefix(suffix, "m")
		if strings.HasPrefix(suffix, "7") {
			sym.Seventh = theory.Minor7
			sym.SeventhSet = true
			sym.WantsSeventh = true
			suffix = suffix[1:]
		}
	}

	bassFromFigure := 0
	switch suffix {
	case "":
	case "6":
		bassFromFigure = 3
	case "64":
		bassFromFigure = 5
	case "7":
		sym.WantsSeventh = true
	case "65":
		sym.WantsSeventh = true
		bassFromFigure = 3
	case "43":
		sym.WantsSeventh = true
		bassFromFigure = 5
	case "42", "2":
		sym.WantsSeventh = true
		bassFromFigure = 7
	default:
		return Symbol{}, &theory.InvalidInputError{Input: raw, Reason: "unrecognized figure " + suffix}
	}
	if bassFromFigure != 0 && !slashed {
		sym.BassFactor = bassFromFigure
	}
	return sym, nil
}

// Resolved is a Symbol made concrete in a key: absolute pitches in a
// root-position octave, their spelled names, and the pitch class that must
// sound in the bass when the chord is inverted.
type Resolved struct {
	Symbol         Symbol
	Chord          theory.Chord
	Pitches        []int
	Names          []string
	RequiredBassPc *int
}

// PitchClasses returns the chord tones as pitch classes, root first.
func (r *Resolved) PitchClasses() []int {
	return r.Chord.PitchClasses()
}

// RootPc returns the chord root's pitch class.
func (r *Resolved) RootPc() int {
	return r.Chord.Root
}

// ThirdPc returns the chord third's pitch class.
func (r *Resolved) ThirdPc() int {
	return theory.Pc(r.Chord.Root + r.Chord.Intervals()[1])
}

// FifthPc returns the chord fifth's pitch class.
func (r *Resolved) FifthPc() int {
	return theory.Pc(r.Chord.Root + r.Chord.Intervals()[2])
}

// Resolve parses a roman-numeral token and makes it concrete in the key.
func Resolve(token string, key theory.Key) (*Resolved, error) {
	sym, err := Parse(token)
	if err != nil {
		return nil, err
	}
	return ResolveSymbol(sym, key)
}

// ResolveSymbol makes an already-parsed Symbol concrete in the key.
func ResolveSymbol(sym Symbol, key theory.Key) (*Resolved, error) {
	base := key.Degrees()[sym.Degree]

	quality := base.Quality
	if sym.QualitySet {
		quality = sym.Quality
	} else {
		quality = caseAdjust(base.Quality, sym.Uppercase)
	}
	overridden := quality != base.Quality

	seventh := theory.NoSeventh
	if sym.WantsSeventh {
		switch {
		case sym.SeventhSet:
			seventh = sym.Seventh
		case overridden:
			seventh = theory.NaturalSeventh(quality)
		default:
			seventh = key.DegreeSeventh(sym.Degree)
		}
	}
	ch := theory.Chord{Root: base.Root, Quality: quality, Seventh: seventh}

	rootPitch := rootOctaveGuess(ch.Root, key)
	intervals := ch.Intervals()
	pitches := make([]int, 0, len(intervals))
	names := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		p := theory.Transpose(rootPitch, iv)
		pitches = append(pitches, p)
		names = append(names, theory.NoteNameInKey(p, key))
	}

	res := &Resolved{Symbol: sym, Chord: ch, Pitches: pitches, Names: names}
	if sym.BassFactor != 1 {
		var iv int
		switch sym.BassFactor {
		case 3:
			iv = intervals[1]
		case 5:
			iv = intervals[2]
		case 7:
			if len(intervals) < 4 {
				return nil, &theory.MusicTheoryError{
					Token:  sym.Token,
					Key:    key.String(),
					Reason: "no seventh to place in the bass",
				}
			}
			iv = intervals[3]
		default:
			return nil, &theory.MusicTheoryError{
				Token:  sym.Token,
				Key:    key.String(),
				Reason: "unsupported bass factor",
			}
		}
		pc := theory.Pc(ch.Root + iv)
		res.RequiredBassPc = &pc
	}
	return res, nil
}

// caseAdjust applies the quality implied by the numeral's case when it
// contradicts the diatonic one: "II" in C is a major chord, "i" a minor one.
// Lowercase matches both minor and diminished, uppercase both major and
// augmented, so vii° needs no adjustment.
func caseAdjust(q theory.Quality, upper bool) theory.Quality {
	if upper && (q == theory.MinorTriad || q == theory.DiminishedTriad) {
		return theory.MajorTriad
	}
	if !upper && (q == theory.MajorTriad || q == theory.AugmentedTriad) {
		return theory.MinorTriad
	}
	return q
}

// rootOctaveGuess places a chord root in a comfortable keyboard octave:
// octave 3, dropped to 2 for the letters F through B, then shifted by an
// octave if somehow outside 36-72.
func rootOctaveGuess(rootPc int, key theory.Key) int {
	letter := theory.PcName(rootPc, key)[0]
	octave := 3
	switch letter {
	case 'F', 'G', 'A', 'B':
		octave = 2
	}
	pitch := (octave+1)*12 + theory.Pc(rootPc)
	if pitch < 36 {
		pitch += 12
	} else if pitch > 72 {
		pitch -= 12
	}
	return pitch
}

// BuildPool expands root-position chord pitches into every octave copy
// within instrument bounds, deduplicated and sorted ascending.
func BuildPool(pitches []int) []int {
	seen := make(map[int]bool)
	var pool []int
	for _, p := range pitches {
		for oct := -2; oct <= 4; oct++ {
			candidate := p + 12*oct
			if candidate < constants.MinPitch || candidate > constants.MaxPitch {
				continue
			}
			if !seen[candidate] {
				seen[candidate] = true
				pool = append(pool, candidate)
			}
		}
	}
	sort.Ints(pool)
	return pool
}
