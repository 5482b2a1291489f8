// Package irsignal recovers the logical structure of captured infrared
// signals.
//
// A capture is a Sequence of alternating mark and space durations in
// microseconds. The package offers the pieces needed to turn such a capture
// into a transmittable Signal:
//
//   - Tolerance decides when two durations are "the same" pulse length.
//   - Clean collapses capture jitter onto a small table of canonical timings.
//   - FindRepeat segments a sequence into intro, repeat burst and ending.
//   - ToSignal slices the sequence along that segmentation.
//
// Analyzer strings the steps together and reads the current tolerance from
// a ToleranceStore on every call, so a settings change applies to the next
// analysis without any locking in the comparator.
//
// All offsets returned by this package count duration elements, marks and
// spaces separately. Use Segmentation.Pairs when mark/space pairs are wanted.
package irsignal
