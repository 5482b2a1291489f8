package irsignal_test

import (
	"testing"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/stretchr/testify/assert"
)

func TestClean_ZeroToleranceIsIdentity(t *testing.T) {
	seqs := [][]float64{
		{9000, 4500, 560, 560, 580, 1690, 550, 40000},
		{100.5, 100.7, 600.25, 1, 1, 0.1},
		{2400, 600, 1200, 600, 48000},
		{},
	}
	for _, d := range seqs {
		seq := irsignal.NewSequence(d, 38000, 0.33)
		assert.Equal(t, seq, irsignal.Clean(seq, irsignal.Tolerance{}))
	}
}

func TestClean_CollapsesJitter(t *testing.T) {
	seq := irsignal.NewSequence([]float64{9000, 4500, 560, 560, 580, 1690, 550, 1700, 560, 40000}, 38000, 0)
	original := seq.Clone()

	cleaned := irsignal.Clean(seq, irsignal.Tolerance{Absolute: 100, Relative: 0.1})

	assert.Equal(t, []float64{9000, 4500, 562, 562, 562, 1695, 562, 1695, 562, 40000}, cleaned.Durations)
	assert.Equal(t, 38000.0, cleaned.Frequency)
	assert.Equal(t, original, seq, "input must not be modified")
}

func TestClean_MergesGroupsBroughtTogetherByAveraging(t *testing.T) {
	d := []float64{100, 200, 200, 200, 200, 200, 200, 200, 200, 200, 201}
	tol := irsignal.Tolerance{Absolute: 100}

	cleaned := irsignal.Clean(irsignal.NewSequence(d, 0, 0), tol)

	for _, v := range cleaned.Durations {
		assert.Equal(t, 191.0, v)
	}
}

func TestClean_Idempotent(t *testing.T) {
	tol := irsignal.Tolerance{Absolute: 100, Relative: 0.05}
	seqs := [][]float64{
		{9000, 4500, 560, 560, 580, 1690, 550, 1700, 560, 40000},
		{100, 200, 200, 200, 200, 200, 200, 200, 200, 200, 201},
		{100, 190, 280, 370, 460, 550, 640},
		{2400, 600, 1210, 590, 1190, 610, 1200, 600, 48000},
		{1, 2, 3, 4, 5},
	}
	for _, d := range seqs {
		once := irsignal.Clean(irsignal.NewSequence(d, 0, 0), tol)
		twice := irsignal.Clean(once, tol)
		assert.Equal(t, once, twice, "input %v", d)
	}
}

func TestClean_AllDistinctUnchanged(t *testing.T) {
	d := []float64{1000, 2300, 3700, 5200, 6900, 8800}
	seq := irsignal.NewSequence(d, 0, 0)
	assert.Equal(t, seq, irsignal.Clean(seq, irsignal.Tolerance{Absolute: 100, Relative: 0.05}))
}

func TestTimingsTable(t *testing.T) {
	seq := irsignal.NewSequence([]float64{9000, 4500, 560, 560, 580, 1690, 550, 1700, 560, 40000}, 0, 0)
	timings := irsignal.TimingsTable(seq, irsignal.Tolerance{Absolute: 100, Relative: 0.1})
	assert.Equal(t, []float64{562, 1695, 4500, 9000, 40000}, timings)
}
