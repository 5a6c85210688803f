package readability

import (
	"fmt"
	"strings"

	"github.com/matzehuels/readability/pkg/errors"
)

// DefaultIdealAngle is the crossing angle, in degrees, at which two crossing
// links are considered easiest to tell apart.
const DefaultIdealAngle = 70.0

// Divisor selects how the per-node angular deviation is averaged.
type Divisor int

const (
	// DivisorDegree averages the gap deviations of a node over its degree.
	DivisorDegree Divisor = iota
	// DivisorDoubledDegreeMinusTwo averages over 2·degree − 2.
	DivisorDoubledDegreeMinusTwo
)

// String returns the name accepted by [ParseDivisor].
func (d Divisor) String() string {
	switch d {
	case DivisorDegree:
		return "degree"
	case DivisorDoubledDegreeMinusTwo:
		return "2d-2"
	default:
		return fmt.Sprintf("Divisor(%d)", int(d))
	}
}

// ParseDivisor parses "degree" or "2d-2" (case-insensitive).
func ParseDivisor(s string) (Divisor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "degree", "d":
		return DivisorDegree, nil
	case "2d-2", "2degree-2":
		return DivisorDoubledDegreeMinusTwo, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidOption, "unknown divisor %q (must be 'degree' or '2d-2')", s)
}

func (d Divisor) of(degree int) float64 {
	if d == DivisorDoubledDegreeMinusTwo {
		return float64(2*degree - 2)
	}
	return float64(degree)
}

type settings struct {
	idealAngle float64
	divisor    Divisor
	workers    int
}

func newSettings(opts []Option) settings {
	s := settings{idealAngle: DefaultIdealAngle, divisor: DivisorDegree, workers: 1}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures an evaluation.
type Option func(*settings)

// WithIdealAngle sets the ideal crossing angle in degrees. Non-positive
// values are ignored.
func WithIdealAngle(deg float64) Option {
	return func(s *settings) {
		if deg > 0 {
			s.idealAngle = deg
		}
	}
}

// WithDivisor selects the averaging divisor for angular deviation.
func WithDivisor(d Divisor) Option {
	return func(s *settings) { s.divisor = d }
}

// WithWorkers sets the number of goroutines used by the crossing analysis.
// Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = max(n, 1)
	}
}
