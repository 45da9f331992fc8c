package rhythm

import (
	"fmt"
	"math/big"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/theory"
)

// Meter is a simple time signature with a power-of-two beat unit.
type Meter struct {
	Beats int
	Unit  int
}

// ParseMeter parses "beats/unit" strings like "4/4" and "6/8". The unit must
// be 1, 2, 4, 8, 16 or 32.
func ParseMeter(s string) (Meter, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return Meter{}, &theory.InvalidInputError{Input: s, Reason: "meter must look like beats/unit"}
	}
	beats, err := strconv.Atoi(parts[0])
	if err != nil || beats < 1 || beats > 32 {
		return Meter{}, &theory.InvalidInputError{Input: s, Reason: "bad beat count"}
	}
	unit, err := strconv.Atoi(parts[1])
	if err != nil {
		return Meter{}, &theory.InvalidInputError{Input: s, Reason: "bad beat unit"}
	}
	switch unit {
	case 1, 2, 4, 8, 16, 32:
	default:
		return Meter{}, &theory.InvalidInputError{Input: s, Reason: "beat unit must be a power of two up to 32"}
	}
	return Meter{Beats: beats, Unit: unit}, nil
}

func (m Meter) String() string {
	return fmt.Sprintf("%d/%d", m.Beats, m.Unit)
}

// WholeNotes returns the measure duration as a fraction of a whole note.
func (m Meter) WholeNotes() *big.Rat {
	return big.NewRat(int64(m.Beats), int64(m.Unit))
}

// BeatWholeNotes returns one beat as a fraction of a whole note.
func (m Meter) BeatWholeNotes() *big.Rat {
	return big.NewRat(1, int64(m.Unit))
}

// Ticks returns the measure duration in ticks.
func (m Meter) Ticks() int {
	return m.Beats * constants.WholeNoteTicks / m.Unit
}

// BeatTicks returns one beat in ticks.
func (m Meter) BeatTicks() int {
	return constants.WholeNoteTicks / m.Unit
}

var noteValues = []*big.Rat{
	big.NewRat(1, 1),
	big.NewRat(1, 2),
	big.NewRat(1, 4),
	big.NewRat(1, 8),
	big.NewRat(1, 16),
	big.NewRat(1, 32),
}

// Weight rows parallel noteValues: whole, half, quarter, eighth, 16th, 32nd.
// Low complexity leans on long values, high complexity on subdivisions.
var complexityWeights = [4][6]int{
	{2, 5, 8, 1, 0, 0},
	{1, 3, 8, 4, 1, 0},
	{0, 1, 5, 8, 4, 1},
	{0, 1, 2, 6, 8, 3},
}

func weightsFor(complexity int) [6]int {
	switch {
	case complexity <= 2:
		return complexityWeights[0]
	case complexity <= 5:
		return complexityWeights[1]
	case complexity <= 8:
		return complexityWeights[2]
	default:
		return complexityWeights[3]
	}
}

// Generator subdivides measures into note values. All randomness flows
// through the supplied source so runs can be reproduced from a seed.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Pattern returns note values, as fractions of a whole note, summing exactly
// to one measure of the meter. Arithmetic is rational, so there is no drift:
// the loop ends when the remainder is exactly zero. The second result is
// false when no note value fits the remainder, which cannot happen while
// 32nds are eligible but is reported rather than trusted.
func (g *Generator) Pattern(m Meter, complexity int) ([]*big.Rat, bool) {
	if complexity < 0 {
		complexity = 0
	}
	if complexity > 10 {
		complexity = 10
	}
	weights := weightsFor(complexity)
	remaining := m.WholeNotes()
	zero := new(big.Rat)

	var res []*big.Rat
	for remaining.Cmp(zero) > 0 {
		var eligible []int
		for i, v := range noteValues {
			if v.Cmp(remaining) <= 0 {
				eligible = append(eligible, i)
			}
		}
		if len(eligible) == 0 {
			return res, false
		}
		idx := g.pick(eligible, weights)
		v := noteValues[idx]
		res = append(res, new(big.Rat).Set(v))
		remaining = new(big.Rat).Sub(remaining, v)
	}
	return res, true
}

// pick draws an eligible index by weight, falling back to a uniform draw
// when every eligible weight is zero.
func (g *Generator) pick(eligible []int, weights [6]int) int {
	total := 0
	for _, i := range eligible {
		total += weights[i]
	}
	if total == 0 {
		return eligible[g.rng.Intn(len(eligible))]
	}
	r := g.rng.Intn(total)
	for _, i := range eligible {
		r -= weights[i]
		if r < 0 {
			return i
		}
	}
	return eligible[len(eligible)-1]
}

var durationNames = []struct {
	value *big.Rat
	name  string
}{
	{big.NewRat(1, 1), "whole"},
	{big.NewRat(1, 2), "half"},
	{big.NewRat(1, 4), "quarter"},
	{big.NewRat(1, 8), "eighth"},
	{big.NewRat(1, 16), "16th"},
	{big.NewRat(1, 32), "32nd"},
}

// DurationName names a note value for engraving. A value 1.5x a base value
// reports the base name with dotted true. Values with no notation name
// return ok false; callers emit them as untyped durations.
func DurationName(v *big.Rat) (name string, dotted bool, ok bool) {
	dot := big.NewRat(3, 2)
	for _, d := range durationNames {
		if v.Cmp(d.value) == 0 {
			return d.name, false, true
		}
		if v.Cmp(new(big.Rat).Mul(d.value, dot)) == 0 {
			return d.name, true, true
		}
	}
	return "", false, false
}

// Ticks converts a fraction of a whole note to ticks.
func Ticks(v *big.Rat) int {
	t := new(big.Rat).Mul(v, big.NewRat(constants.WholeNoteTicks, 1))
	return int(t.Num().Int64() / t.Denom().Int64())
}
