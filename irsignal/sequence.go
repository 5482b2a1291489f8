package irsignal

import (
	"fmt"
	"math"
)

// DummyGap is appended by capture readers to sequences that would otherwise
// end with a mark.
const DummyGap float64 = 50000

// Sequence is a captured run of durations in microseconds, alternating mark
// and space and starting with a mark. A trailing unmatched mark is allowed.
//
// Frequency is the modulation frequency in Hz (0 for unmodulated or unknown),
// DutyCycle a fraction in (0,1] or 0 when unknown.
type Sequence struct {
	Durations []float64 `json:"durations"`
	Frequency float64   `json:"frequency,omitempty"`
	DutyCycle float64   `json:"dutyCycle,omitempty"`
}

// NewSequence copies durations into a new Sequence. Signs are dropped, the
// position of a duration decides whether it is a mark or a space.
func NewSequence(durations []float64, frequency, dutyCycle float64) Sequence {
	d := make([]float64, len(durations))
	for i, v := range durations {
		d[i] = math.Abs(v)
	}
	return Sequence{Durations: d, Frequency: frequency, DutyCycle: dutyCycle}
}

// Len returns the number of durations.
func (s Sequence) Len() int { return len(s.Durations) }

// NumberPairs returns the number of mark/space pairs, counting a trailing
// unmatched mark as a pair.
func (s Sequence) NumberPairs() int { return (len(s.Durations) + 1) / 2 }

// IsMark reports whether index i holds a mark.
func IsMark(i int) bool { return i%2 == 0 }

// Validate checks that s can be fed to the analysis pipeline.
func (s Sequence) Validate() error {
	if len(s.Durations) == 0 {
		return ErrEmptySequence
	}
	for i, d := range s.Durations {
		switch {
		case math.IsNaN(d) || math.IsInf(d, 0) || d < 0:
			return fmt.Errorf("%w: %v at index %d", ErrNegativeDuration, d, i)
		case d == 0:
			return fmt.Errorf("%w at index %d", ErrZeroDuration, i)
		}
	}
	return nil
}

// ContainsZeros reports whether any duration is zero.
func (s Sequence) ContainsZeros() bool {
	for _, d := range s.Durations {
		if d == 0 {
			return true
		}
	}
	return false
}

// ReplaceZeros returns a copy of s with every zero duration replaced.
func (s Sequence) ReplaceZeros(replacement float64) Sequence {
	out := s.Clone()
	for i, d := range out.Durations {
		if d == 0 {
			out.Durations[i] = replacement
		}
	}
	return out
}

// Clone returns a deep copy.
func (s Sequence) Clone() Sequence {
	return Sequence{
		Durations: cloneDurations(s.Durations),
		Frequency: s.Frequency,
		DutyCycle: s.DutyCycle,
	}
}

// Gap returns the final duration, or 0 for an empty sequence.
func (s Sequence) Gap() float64 {
	if len(s.Durations) == 0 {
		return 0
	}
	return s.Durations[len(s.Durations)-1]
}

// Duration returns the total length in microseconds.
func (s Sequence) Duration() float64 {
	return sum(s.Durations)
}

// Slice returns a copy of durations [begin, end) with the modulation kept.
func (s Sequence) Slice(begin, end int) Sequence {
	return Sequence{
		Durations: cloneDurations(s.Durations[begin:end]),
		Frequency: s.Frequency,
		DutyCycle: s.DutyCycle,
	}
}

// Append returns s followed by tail. The modulation of s is kept.
func (s Sequence) Append(tail ...float64) Sequence {
	d := make([]float64, 0, len(s.Durations)+len(tail))
	d = append(d, s.Durations...)
	d = append(d, tail...)
	return Sequence{Durations: d, Frequency: s.Frequency, DutyCycle: s.DutyCycle}
}

// Equal compares two sequences element-wise under tol. Modulation is not
// compared.
func (s Sequence) Equal(other Sequence, tol Tolerance) bool {
	return durationsEqual(s.Durations, other.Durations, tol)
}

func (s Sequence) String() string {
	return FormatRaw(s.Durations)
}

func durationsEqual(a, b []float64, tol Tolerance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tol.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func cloneDurations(d []float64) []float64 {
	if d == nil {
		return []float64{}
	}
	out := make([]float64, len(d))
	copy(out, d)
	return out
}

func sum(d []float64) float64 {
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}
