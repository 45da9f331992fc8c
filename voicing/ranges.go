package voicing

// Range is an inclusive pitch window for one voice.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(pitch int) bool {
	return pitch >= r.Min && pitch <= r.Max
}

func (r Range) Center() int {
	return (r.Min + r.Max) / 2
}

// Chorale voice ranges, fixed configuration rather than derived.
var (
	SopranoRange = Range{Min: 60, Max: 79} // C4-G5
	AltoRange    = Range{Min: 55, Max: 74} // G3-D5
	TenorRange   = Range{Min: 48, Max: 69} // C3-A4
	BassRange    = Range{Min: 40, Max: 62} // E2-D4

	MelodyRange = Range{Min: 55, Max: 84} // G3-C6
	AccompRange = Range{Min: 36, Max: 72} // C2-C5
)

// Spacing limits between adjacent voices, in semitones.
const (
	MaxSopranoAlto = 12
	MaxAltoTenor   = 12
	MaxTenorBass   = 19

	// AccompCeiling bounds the distance from the melody down to the highest
	// accompaniment pitch.
	AccompCeiling = 24
)

// DefaultAccompVoices is the accompaniment chord size when unspecified.
const DefaultAccompVoices = 3

func filterRange(pool []int, r Range) []int {
	var res []int
	for _, p := range pool {
		if r.Contains(p) {
			res = append(res, p)
		}
	}
	return res
}

func filterPc(pool []int, pc int) []int {
	var res []int
	for _, p := range pool {
		if ((p%12)+12)%12 == pc {
			res = append(res, p)
		}
	}
	return res
}

// atOrBelow keeps pitches not above the bound; a nil bound keeps everything.
func atOrBelow(pool []int, bound *int) []int {
	if bound == nil {
		return pool
	}
	var res []int
	for _, p := range pool {
		if p <= *bound {
			res = append(res, p)
		}
	}
	return res
}

func atOrAbove(pool []int, bound *int) []int {
	if bound == nil {
		return pool
	}
	var res []int
	for _, p := range pool {
		if p >= *bound {
			res = append(res, p)
		}
	}
	return res
}

func strictlyBelow(pool []int, bound *int) []int {
	if bound == nil {
		return pool
	}
	var res []int
	for _, p := range pool {
		if p < *bound {
			res = append(res, p)
		}
	}
	return res
}

func strictlyAbove(pool []int, bound *int) []int {
	if bound == nil {
		return pool
	}
	var res []int
	for _, p := range pool {
		if p > *bound {
			res = append(res, p)
		}
	}
	return res
}

// withinBelow keeps pitches no more than limit below the bound.
func withinBelow(pool []int, bound *int, limit int) []int {
	if bound == nil {
		return pool
	}
	var res []int
	for _, p := range pool {
		if *bound-p <= limit {
			res = append(res, p)
		}
	}
	return res
}

// withinAbove keeps pitches no more than limit above the bound.
func withinAbove(pool []int, bound *int, limit int) []int {
	if bound == nil {
		return pool
	}
	var res []int
	for _, p := range pool {
		if p-*bound <= limit {
			res = append(res, p)
		}
	}
	return res
}
