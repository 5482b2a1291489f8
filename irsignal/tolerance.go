package irsignal

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	// DefaultAbsoluteTolerance is the default absolute tolerance in microseconds.
	DefaultAbsoluteTolerance float64 = 100

	// DefaultRelativeTolerance is the default relative tolerance, as a fraction
	// of the larger of two compared durations.
	DefaultRelativeTolerance float64 = 0.1
)

// Tolerance holds the absolute (microseconds) and relative (fraction) limits
// used when comparing durations. The zero value compares exactly.
type Tolerance struct {
	Absolute float64 `json:"absolute" yaml:"absolute"`
	Relative float64 `json:"relative" yaml:"relative"`
}

// NewTolerance returns a validated Tolerance.
func NewTolerance(absolute, relative float64) (Tolerance, error) {
	t := Tolerance{Absolute: absolute, Relative: relative}
	if err := t.Validate(); err != nil {
		return Tolerance{}, err
	}
	return t, nil
}

// DefaultTolerance returns the tolerance used when nothing is configured.
func DefaultTolerance() Tolerance {
	return Tolerance{Absolute: DefaultAbsoluteTolerance, Relative: DefaultRelativeTolerance}
}

// Validate reports ErrInvalidTolerance for a negative or non-finite absolute
// tolerance and for a relative tolerance outside [0,1].
func (t Tolerance) Validate() error {
	if math.IsNaN(t.Absolute) || math.IsInf(t.Absolute, 0) || t.Absolute < 0 {
		return fmt.Errorf("%w: absolute tolerance %v", ErrInvalidTolerance, t.Absolute)
	}
	if math.IsNaN(t.Relative) || t.Relative < 0 || t.Relative > 1 {
		return fmt.Errorf("%w: relative tolerance %v", ErrInvalidTolerance, t.Relative)
	}
	return nil
}

// Equal reports whether a and b are the same duration under t.
func (t Tolerance) Equal(a, b float64) bool {
	return DurationsEqual(a, b, t.Absolute, t.Relative)
}

func (t Tolerance) String() string {
	return fmt.Sprintf("%gµs/%g%%", t.Absolute, t.Relative*100)
}

// DurationsEqual reports whether |a-b| <= max(absTol, relTol*max(a,b)).
// The relation is symmetric; with both tolerances zero it is plain equality.
func DurationsEqual(a, b, absTol, relTol float64) bool {
	limit := math.Max(absTol, relTol*math.Max(a, b))
	return math.Abs(a-b) <= limit
}

// ToleranceStore holds the process wide tolerance. Reads are lock free;
// Store swaps in a new value atomically. A comparison running concurrently
// with Store may use either value.
type ToleranceStore struct {
	current atomic.Pointer[Tolerance]
}

// NewToleranceStore returns a store holding t, or an error if t is invalid.
func NewToleranceStore(t Tolerance) (*ToleranceStore, error) {
	s := &ToleranceStore{}
	if err := s.Store(t); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the current tolerance. A nil or empty store yields
// DefaultTolerance.
func (s *ToleranceStore) Load() Tolerance {
	if s == nil {
		return DefaultTolerance()
	}
	if t := s.current.Load(); t != nil {
		return *t
	}
	return DefaultTolerance()
}

// Store validates t and makes it the current tolerance. An invalid value
// leaves the store unchanged.
func (s *ToleranceStore) Store(t Tolerance) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.current.Store(&t)
	return nil
}

// Update replaces the current tolerance with change applied to it. Two
// concurrent updates never lose each other: change is re-applied when the
// value moved underneath it. An invalid result leaves the store unchanged.
func (s *ToleranceStore) Update(change func(Tolerance) Tolerance) (Tolerance, error) {
	for {
		old := s.current.Load()
		base := DefaultTolerance()
		if old != nil {
			base = *old
		}
		next := change(base)
		if err := next.Validate(); err != nil {
			return base, err
		}
		if s.current.CompareAndSwap(old, &next) {
			return next, nil
		}
	}
}

// Set is Store for a bare absolute/relative pair.
func (s *ToleranceStore) Set(absolute, relative float64) error {
	return s.Store(Tolerance{Absolute: absolute, Relative: relative})
}
