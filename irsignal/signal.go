package irsignal

import "fmt"

// Signal is a transmittable IR signal: an intro sent once, a repeat burst
// sent while the button is held, and an ending sent on release. Any part
// may be empty. RepeatCount is how often the repeat burst occurred in the
// capture the signal was built from.
type Signal struct {
	Frequency   float64   `json:"frequency,omitempty"`
	DutyCycle   float64   `json:"dutyCycle,omitempty"`
	Intro       []float64 `json:"intro"`
	Repeat      []float64 `json:"repeat"`
	Ending      []float64 `json:"ending"`
	RepeatCount int       `json:"repeatCount"`
}

// ToSignal slices seq along seg. A segmentation without repeat turns the
// whole sequence into the intro. seg must come from FindRepeat on seq, or
// at least satisfy seg.Len() == seq.Len().
func ToSignal(seq Sequence, seg Segmentation) Signal {
	sig := Signal{Frequency: seq.Frequency, DutyCycle: seq.DutyCycle}
	if !seg.HasRepeat() {
		sig.Intro = cloneDurations(seq.Durations)
		sig.Repeat = []float64{}
		sig.Ending = []float64{}
		return sig
	}
	repeatEnd := seg.IntroLength + seg.RepeatLength
	endingStart := seg.IntroLength + seg.RepeatLength*seg.RepeatCount
	sig.Intro = cloneDurations(seq.Durations[:seg.IntroLength])
	sig.Repeat = cloneDurations(seq.Durations[seg.IntroLength:repeatEnd])
	sig.Ending = cloneDurations(seq.Durations[endingStart:])
	sig.RepeatCount = seg.RepeatCount
	return sig
}

// ChopSequence is ToSignal.
func ChopSequence(seq Sequence, seg Segmentation) Signal {
	return ToSignal(seq, seg)
}

// IsEmpty reports whether all three parts are empty.
func (s Signal) IsEmpty() bool {
	return len(s.Intro) == 0 && len(s.Repeat) == 0 && len(s.Ending) == 0
}

// Sequence renders the signal as sent with the repeat burst transmitted
// repeats times.
func (s Signal) Sequence(repeats int) Sequence {
	if repeats < 0 {
		repeats = 0
	}
	d := make([]float64, 0, len(s.Intro)+repeats*len(s.Repeat)+len(s.Ending))
	d = append(d, s.Intro...)
	for i := 0; i < repeats; i++ {
		d = append(d, s.Repeat...)
	}
	d = append(d, s.Ending...)
	return Sequence{Durations: d, Frequency: s.Frequency, DutyCycle: s.DutyCycle}
}

// Captured renders the signal with its original repeat count.
func (s Signal) Captured() Sequence {
	return s.Sequence(s.RepeatCount)
}

// Duration returns the length of the captured form in microseconds.
func (s Signal) Duration() float64 {
	return sum(s.Intro) + float64(s.RepeatCount)*sum(s.Repeat) + sum(s.Ending)
}

// Equal compares the three parts element-wise under tol, and the
// frequencies under the relative part of tol. RepeatCount is ignored.
func (s Signal) Equal(other Signal, tol Tolerance) bool {
	if !DurationsEqual(s.Frequency, other.Frequency, 0, tol.Relative) {
		return false
	}
	return durationsEqual(s.Intro, other.Intro, tol) &&
		durationsEqual(s.Repeat, other.Repeat, tol) &&
		durationsEqual(s.Ending, other.Ending, tol)
}

func (s Signal) String() string {
	return fmt.Sprintf("freq=%g intro=[%s] repeat=[%s]x%d ending=[%s]",
		s.Frequency, FormatRaw(s.Intro), FormatRaw(s.Repeat), s.RepeatCount, FormatRaw(s.Ending))
}
