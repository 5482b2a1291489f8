package collector

import "encoding/json"

// taggedFrame is the body posted to the server's /ir/frame endpoint
type taggedFrame struct {
	CollectorID string          `json:"collectorId,omitempty"`
	Frame       json.RawMessage `json:"frame"`
}

// capturedFrame is one mode2 capture in plain microseconds
type capturedFrame struct {
	Frequency float64   `json:"frequency,omitempty"`
	Durations []float64 `json:"durations"`
}
