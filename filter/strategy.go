package filter

import "fmt"

// Strategy is the dispatch pattern a filter uses.
type Strategy int

const (
	// SinglePass runs one stage once.
	SinglePass Strategy = iota

	// Separable runs one stage per axis, x then y then z.
	Separable

	// Iterative runs one stage a fixed number of times.
	Iterative
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case SinglePass:
		return "single-pass"
	case Separable:
		return "separable"
	case Iterative:
		return "iterative"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}
