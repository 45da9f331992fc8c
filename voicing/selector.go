package voicing

import (
	"github.com/ColbyCabrera/harmonia/util"
)

// SelectorConfig tunes how candidate pitches are scored against the
// previous pitch of the same voice.
type SelectorConfig struct {
	// StepSpan is the largest interval still counted as a step.
	StepSpan int
	// LeapThreshold is the smallest interval counted as a leap.
	LeapThreshold int
	// OverrideMargin is the base of the semitone window within which a
	// stepwise candidate replaces a leaping winner. The window widens with
	// smoothness.
	OverrideMargin float64
}

func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		StepSpan:       2,
		LeapThreshold:  7,
		OverrideMargin: 1.5,
	}
}

// Closest picks the pool pitch nearest the target, biased toward small
// movement from prev. Smoothness 0-10 scales the movement penalty; even at
// 0, repeated notes and steps keep a mild edge. Returns nil on an empty
// pool.
//
// Ties go to the lower pitch, so results are stable for a sorted pool.
func Closest(target int, pool []int, prev *int, smoothness int, cfg SelectorConfig) *int {
	if len(pool) == 0 {
		return nil
	}
	if len(pool) == 1 {
		p := pool[0]
		return &p
	}
	smoothness = util.Clamp(smoothness, 0, 10)

	if prev == nil {
		best := pool[0]
		for _, c := range pool[1:] {
			if util.Abs(c-target) < util.Abs(best-target) {
				best = c
			}
		}
		return &best
	}

	best := pool[0]
	bestScore := score(pool[0], target, *prev, smoothness, cfg)
	for _, c := range pool[1:] {
		if s := score(c, target, *prev, smoothness, cfg); s < bestScore {
			best, bestScore = c, s
		}
	}

	// A leaping winner yields to a stepwise candidate that lands close
	// enough to the target.
	if util.Abs(best-*prev) >= cfg.LeapThreshold {
		margin := cfg.OverrideMargin + 0.75*float64(smoothness)
		var step *int
		for _, c := range pool {
			if util.Abs(c-*prev) > cfg.StepSpan {
				continue
			}
			if float64(util.Abs(c-target)) > margin {
				continue
			}
			if step == nil || util.Abs(c-target) < util.Abs(*step-target) {
				v := c
				step = &v
			}
		}
		if step != nil {
			return step
		}
	}
	return &best
}

func score(c, target, prev, smoothness int, cfg SelectorConfig) float64 {
	move := util.Abs(c - prev)
	var factor float64
	switch {
	case move == 0:
		factor = 0.5
	case move <= cfg.StepSpan:
		factor = 0.75
	case move < cfg.LeapThreshold:
		factor = 1.0 + float64(move)*float64(smoothness)/40
	default:
		factor = 1.5 + float64(move)*float64(smoothness)/15
	}
	return (float64(util.Abs(c-target)) + 1) * factor
}
