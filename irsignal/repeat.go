package irsignal

import (
	"fmt"
	"math"
)

// Strategy selects among several repeat candidates found in one sequence.
type Strategy int

const (
	// MostRepeats prefers the candidate repeating most often, then the one
	// covering the longest time.
	MostRepeats Strategy = iota

	// LongestDuration prefers the candidate covering the longest time.
	LongestDuration
)

func (s Strategy) String() string {
	switch s {
	case MostRepeats:
		return "most-repeats"
	case LongestDuration:
		return "longest-duration"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "most-repeats", "":
		return MostRepeats, nil
	case "longest-duration":
		return LongestDuration, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidOptions, name)
}

// durationSlack is how much shorter (µs) a later candidate may be and still
// replace the current best under equal scores.
const durationSlack = 0.1

// DefaultMinRepeatLastGap is the trailing gap (µs) CaptureRepeatOptions
// requires at the end of a repeat burst.
const DefaultMinRepeatLastGap float64 = 20000

// RepeatOptions tunes FindRepeat.
//
// MinRepeatLength is the shortest repeat burst considered, in duration
// elements; it must be even. MinRepeats is the least number of consecutive
// occurrences accepted. When MinRepeatLastGap is positive, a repeat burst
// must end with a space strictly longer than it, and two such trailing
// spaces compare equal whatever their lengths.
type RepeatOptions struct {
	MinRepeatLength  int      `json:"minRepeatLength" yaml:"min_repeat_length"`
	MinRepeats       int      `json:"minRepeats" yaml:"min_repeats"`
	MinRepeatLastGap float64  `json:"minRepeatLastGap" yaml:"min_repeat_last_gap"`
	Strategy         Strategy `json:"strategy" yaml:"-"`
}

// DefaultRepeatOptions accepts any pair-aligned burst repeated at least twice.
func DefaultRepeatOptions() RepeatOptions {
	return RepeatOptions{
		MinRepeatLength: 2,
		MinRepeats:      2,
		Strategy:        MostRepeats,
	}
}

// CaptureRepeatOptions suits signals captured from real remotes: a repeat
// burst spans at least two pairs and ends with a long gap, which keeps runs
// of identical data bits from being mistaken for a repeat.
func CaptureRepeatOptions() RepeatOptions {
	return RepeatOptions{
		MinRepeatLength:  4,
		MinRepeats:       2,
		MinRepeatLastGap: DefaultMinRepeatLastGap,
		Strategy:         MostRepeats,
	}
}

// Validate reports ErrInvalidOptions for options FindRepeat would have to
// adjust.
func (o RepeatOptions) Validate() error {
	switch {
	case o.MinRepeatLength < 2 || o.MinRepeatLength%2 != 0:
		return fmt.Errorf("%w: min repeat length %d must be even and at least 2", ErrInvalidOptions, o.MinRepeatLength)
	case o.MinRepeats < 2:
		return fmt.Errorf("%w: min repeats %d must be at least 2", ErrInvalidOptions, o.MinRepeats)
	case math.IsNaN(o.MinRepeatLastGap) || math.IsInf(o.MinRepeatLastGap, 0) || o.MinRepeatLastGap < 0:
		return fmt.Errorf("%w: min repeat last gap %v", ErrInvalidOptions, o.MinRepeatLastGap)
	case o.Strategy != MostRepeats && o.Strategy != LongestDuration:
		return fmt.Errorf("%w: %v", ErrInvalidOptions, o.Strategy)
	}
	return nil
}

// normalized maps unusable fields onto the nearest usable value.
func (o RepeatOptions) normalized() RepeatOptions {
	if o.MinRepeatLength < 2 {
		o.MinRepeatLength = 2
	}
	if o.MinRepeatLength%2 != 0 {
		o.MinRepeatLength++
	}
	if o.MinRepeats < 2 {
		o.MinRepeats = 2
	}
	if math.IsNaN(o.MinRepeatLastGap) || o.MinRepeatLastGap < 0 {
		o.MinRepeatLastGap = 0
	}
	if o.Strategy != LongestDuration {
		o.Strategy = MostRepeats
	}
	return o
}

// Segmentation splits a sequence into an intro, RepeatCount consecutive
// copies of a repeat burst, and an ending. Lengths count duration elements.
//
// IntroLength + RepeatLength*RepeatCount + EndingLength always equals the
// length of the analyzed sequence. RepeatLength is zero exactly when
// RepeatCount is zero.
type Segmentation struct {
	IntroLength  int `json:"introLength"`
	RepeatLength int `json:"repeatLength"`
	RepeatCount  int `json:"repeatCount"`
	EndingLength int `json:"endingLength"`

	// LastGap is the final duration of the repeat burst.
	LastGap float64 `json:"lastGap"`
	// RepeatsDuration is the time covered by all repeat copies.
	RepeatsDuration float64 `json:"repeatsDuration"`
}

// NoRepeat is the segmentation of a sequence of n durations without
// periodic structure.
func NoRepeat(n int) Segmentation {
	return Segmentation{IntroLength: n}
}

// HasRepeat reports whether a repeat burst was found.
func (s Segmentation) HasRepeat() bool { return s.RepeatCount > 0 }

// Len returns the length of the segmented sequence.
func (s Segmentation) Len() int {
	return s.IntroLength + s.RepeatLength*s.RepeatCount + s.EndingLength
}

func (s Segmentation) String() string {
	return fmt.Sprintf("intro=%d repeat=%d x%d ending=%d", s.IntroLength, s.RepeatLength, s.RepeatCount, s.EndingLength)
}

// PairCounts is a Segmentation expressed in mark/space pairs.
type PairCounts struct {
	Intro       int `json:"intro"`
	Repeat      int `json:"repeat"`
	RepeatCount int `json:"repeatCount"`
	Ending      int `json:"ending"`
}

// Pairs converts element counts into pair counts. Intro and repeat are
// always pair aligned; a trailing unmatched mark in the ending counts as a
// pair.
func (s Segmentation) Pairs() PairCounts {
	return PairCounts{
		Intro:       s.IntroLength / 2,
		Repeat:      s.RepeatLength / 2,
		RepeatCount: s.RepeatCount,
		Ending:      (s.EndingLength + 1) / 2,
	}
}

// FindRepeat looks for a burst that occurs at least opts.MinRepeats times in
// a row.
//
// Every pair-aligned start and every even burst length between
// opts.MinRepeatLength and half the sequence is tried; consecutive copies
// are compared element-wise under tol. Among the qualifying candidates
// opts.Strategy picks one; on equal scores the shorter burst and the later
// start win. Without any candidate the whole sequence becomes the intro.
// Candidates that cannot beat the current choice, by count or by the time
// left after their start, are skipped without comparing windows.
//
// FindRepeat never fails. Zero durations are compared like any other value.
func FindRepeat(seq Sequence, tol Tolerance, opts RepeatOptions) Segmentation {
	d := seq.Durations
	n := len(d)
	opts = opts.normalized()
	reach := positiveSuffixSums(d)

	best := NoRepeat(n)
	found := false
	for length := (n / opts.MinRepeats) &^ 1; length >= opts.MinRepeatLength; length -= 2 {
		for begin := 0; begin+opts.MinRepeats*length <= n; begin += 2 {
			if found && opts.Strategy == MostRepeats && (n-begin)/length < best.RepeatCount {
				// later starts leave room for even fewer copies
				break
			}
			if found && opts.Strategy == LongestDuration && reach[begin] <= best.RepeatsDuration-2*durationSlack {
				continue
			}
			candidate, ok := countRepeats(d, begin, length, tol, opts)
			if !ok {
				continue
			}
			if !found || better(candidate, best, opts.Strategy) {
				best = candidate
				found = true
			}
		}
	}
	return best
}

// positiveSuffixSums bounds the duration any burst starting at i can cover.
func positiveSuffixSums(d []float64) []float64 {
	reach := make([]float64, len(d)+1)
	for i := len(d) - 1; i >= 0; i-- {
		reach[i] = reach[i+1] + math.Max(d[i], 0)
	}
	return reach
}

func better(candidate, best Segmentation, strategy Strategy) bool {
	if strategy == MostRepeats {
		if candidate.RepeatCount != best.RepeatCount {
			return candidate.RepeatCount > best.RepeatCount
		}
	}
	return candidate.RepeatsDuration > best.RepeatsDuration-durationSlack
}

func countRepeats(d []float64, begin, length int, tol Tolerance, opts RepeatOptions) (Segmentation, bool) {
	lastGap := d[begin+length-1]
	if opts.MinRepeatLastGap > 0 && !(lastGap > opts.MinRepeatLastGap) {
		return Segmentation{}, false
	}
	hits := 1
	for begin+(hits+1)*length <= len(d) && windowsEqual(d, begin, begin+hits*length, length, tol, opts.MinRepeatLastGap) {
		hits++
	}
	if hits < opts.MinRepeats {
		return Segmentation{}, false
	}
	return Segmentation{
		IntroLength:     begin,
		RepeatLength:    length,
		RepeatCount:     hits,
		EndingLength:    len(d) - begin - hits*length,
		LastGap:         lastGap,
		RepeatsDuration: sum(d[begin : begin+hits*length]),
	}, true
}

func windowsEqual(d []float64, first, second, length int, tol Tolerance, minLastGap float64) bool {
	for i := 0; i < length; i++ {
		a, b := d[first+i], d[second+i]
		if i == length-1 && minLastGap > 0 && a > minLastGap && b > minLastGap {
			continue
		}
		if !tol.Equal(a, b) {
			return false
		}
	}
	return true
}
