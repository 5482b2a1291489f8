package server

import (
	"fmt"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/pkg/errors"
)

// taggedFrame is one capture published by a collector
type taggedFrame struct {
	CollectorID string    `json:"collectorId"`
	Frame       frameData `json:"frame"`
}

// frameData holds mark/space pairs in units of Resolution microseconds.
// Durations, when present, replaces Data with plain microsecond values.
type frameData struct {
	Resolution int       `json:"resolution"`
	Frequency  float64   `json:"frequency,omitempty"`
	DutyCycle  float64   `json:"dutyCycle,omitempty"`
	Data       [][]int   `json:"data,omitempty"`
	Durations  []float64 `json:"durations,omitempty"`
}

// markSpacePair represents each bit for the frame
type markSpacePair struct {
	Mark  float64 `json:"mark"`
	Space float64 `json:"space"`
}

func (m markSpacePair) String() string {
	return fmt.Sprintf("(%v, %v)", m.Mark, m.Space)
}

func (f *taggedFrame) resolution() float64 {
	if f.Frame.Resolution <= 0 {
		return 1
	}
	return float64(f.Frame.Resolution)
}

// toSequence converts the published frame into microseconds. A pair with a
// single value is a trailing mark and must come last.
func (f *taggedFrame) toSequence() (irsignal.Sequence, error) {
	if len(f.Frame.Durations) > 0 {
		return irsignal.NewSequence(f.Frame.Durations, f.Frame.Frequency, f.Frame.DutyCycle), nil
	}
	res := f.resolution()
	durations := make([]float64, 0, 2*len(f.Frame.Data))
	for i, p := range f.Frame.Data {
		switch {
		case len(p) == 2:
			durations = append(durations, float64(p[0])*res, float64(p[1])*res)
		case len(p) == 1 && i == len(f.Frame.Data)-1:
			durations = append(durations, float64(p[0])*res)
		default:
			return irsignal.Sequence{}, errors.Errorf("pair %d has %d values", i, len(p))
		}
	}
	return irsignal.NewSequence(durations, f.Frame.Frequency, f.Frame.DutyCycle), nil
}

// pairs splits durations into mark/space pairs; a trailing mark gets a zero
// space.
func pairs(durations []float64) []markSpacePair {
	out := make([]markSpacePair, 0, (len(durations)+1)/2)
	for i := 0; i < len(durations); i += 2 {
		p := markSpacePair{Mark: durations[i]}
		if i+1 < len(durations) {
			p.Space = durations[i+1]
		}
		out = append(out, p)
	}
	return out
}
