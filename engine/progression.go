package engine

import (
	"math/rand"

	"github.com/ColbyCabrera/harmonia/theory"
)

// Chords are grouped by harmonic function; the walk moves between
// functions and any token inside the landing class will do.
type harmonicClass int

const (
	tonicClass harmonicClass = iota
	subdominantClass
	dominantClass
)

var majorClassTokens = [3][]string{
	tonicClass:       {"I", "vi", "I6"},
	subdominantClass: {"IV", "ii6", "ii", "IV6"},
	dominantClass:    {"V", "V7", "V65", "vii6"},
}

var minorClassTokens = [3][]string{
	tonicClass:       {"i", "VI", "i6"},
	subdominantClass: {"iv", "ii6", "iv6"},
	dominantClass:    {"V", "V7", "V65", "vii6"},
}

type classMove struct {
	to     harmonicClass
	weight int
}

// Dominants rarely fall back to the subdominant; everything else follows
// the usual tonic -> subdominant -> dominant circulation.
var classMoves = [3][]classMove{
	tonicClass:       {{subdominantClass, 5}, {dominantClass, 3}, {tonicClass, 2}},
	subdominantClass: {{dominantClass, 6}, {tonicClass, 2}, {subdominantClass, 2}},
	dominantClass:    {{tonicClass, 7}, {dominantClass, 3}},
}

// DraftProgression sketches an n-measure progression in the key: a weighted
// walk over harmonic functions that starts on the tonic and closes with an
// authentic cadence. Two measures make a half cadence instead.
func DraftProgression(key theory.Key, n int, rng *rand.Rand) []string {
	if n < 1 {
		return nil
	}
	tokens := majorClassTokens
	tonic := "I"
	if key.Mode == theory.Minor {
		tokens = minorClassTokens
		tonic = "i"
	}

	prog := make([]string, 0, n)
	prog = append(prog, tonic)
	class := tonicClass
	for len(prog) < n {
		class = nextClass(class, rng)
		opts := tokens[class]
		prog = append(prog, opts[rng.Intn(len(opts))])
	}

	if n >= 3 {
		cadence := []string{"V", "V7"}
		prog[n-2] = cadence[rng.Intn(len(cadence))]
		prog[n-1] = tonic
	} else if n == 2 {
		prog[1] = "V"
	}
	return prog
}

func nextClass(from harmonicClass, rng *rand.Rand) harmonicClass {
	moves := classMoves[from]
	total := 0
	for _, mv := range moves {
		total += mv.weight
	}
	r := rng.Intn(total)
	for _, mv := range moves {
		r -= mv.weight
		if r < 0 {
			return mv.to
		}
	}
	return moves[len(moves)-1].to
}
