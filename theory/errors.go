package theory

import "fmt"

// InvalidInputError reports malformed caller syntax: a key, meter, roman
// numeral or settings value the engine cannot make sense of. It is fatal for
// the request that supplied it.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// MusicTheoryError reports a chord that resolves to something inconsistent
// in its key. The driver recovers from it measure by measure, substituting
// rests, so one bad chord never aborts a whole piece.
type MusicTheoryError struct {
	Token  string
	Key    string
	Reason string
}

func (e *MusicTheoryError) Error() string {
	return fmt.Sprintf("cannot resolve %q in %s: %s", e.Token, e.Key, e.Reason)
}
