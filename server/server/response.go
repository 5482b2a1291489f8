package server

import (
	"math"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/dustin/go-humanize"
)

// signalSummary is the display form of one analyzed capture
type signalSummary struct {
	Frequency   string              `json:"frequency"`
	Duration    string              `json:"duration"`
	Intro       string              `json:"intro"`
	Repeat      string              `json:"repeat"`
	Ending      string              `json:"ending"`
	RepeatCount int                 `json:"repeatCount"`
	Pairs       irsignal.PairCounts `json:"pairs"`
	Timings     []float64           `json:"timings"`
	Cleaned     bool                `json:"cleaned"`
}

type collector2ProtocolMap map[string]protocol2ValueMap
type protocol2ValueMap map[string]value2SignalListMap
type value2SignalListMap map[string][]signalSummary

// newFrameEvent is pushed to stream subscribers for every analyzed frame
type newFrameEvent struct {
	CollectorID string                `json:"collectorId"`
	ProtocolID  string                `json:"protocolID"`
	Value       string                `json:"value"`
	Signal      signalSummary         `json:"signal"`
	Analysis    irsignal.Segmentation `json:"segmentation"`
}

func summarize(a irsignal.Analysis) signalSummary {
	sig := a.Signal
	freq := "unmodulated"
	if sig.Frequency > 0 {
		freq = humanize.SIWithDigits(sig.Frequency, 1, "Hz")
	}
	return signalSummary{
		Frequency:   freq,
		Duration:    humanize.Comma(int64(math.Round(sig.Duration()))) + " µs",
		Intro:       irsignal.FormatRaw(sig.Intro),
		Repeat:      irsignal.FormatRaw(sig.Repeat),
		Ending:      irsignal.FormatRaw(sig.Ending),
		RepeatCount: sig.RepeatCount,
		Pairs:       a.Segmentation.Pairs(),
		Timings:     a.Timings,
		Cleaned:     a.Cleaned,
	}
}
