package irsignal_test

import (
	"math/rand"
	"testing"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/stretchr/testify/assert"
)

// exhaustiveFindRepeat scores every candidate, with no shortcuts, in the
// order FindRepeat documents.
func exhaustiveFindRepeat(d []float64, tol irsignal.Tolerance, opts irsignal.RepeatOptions) irsignal.Segmentation {
	n := len(d)
	best := irsignal.NoRepeat(n)
	found := false
	for length := (n / opts.MinRepeats) &^ 1; length >= opts.MinRepeatLength; length -= 2 {
		for begin := 0; begin+opts.MinRepeats*length <= n; begin += 2 {
			lastGap := d[begin+length-1]
			if opts.MinRepeatLastGap > 0 && !(lastGap > opts.MinRepeatLastGap) {
				continue
			}
			hits := 1
			for begin+(hits+1)*length <= n {
				same := true
				for i := 0; i < length && same; i++ {
					a, b := d[begin+i], d[begin+hits*length+i]
					if i == length-1 && opts.MinRepeatLastGap > 0 && a > opts.MinRepeatLastGap && b > opts.MinRepeatLastGap {
						continue
					}
					same = tol.Equal(a, b)
				}
				if !same {
					break
				}
				hits++
			}
			if hits < opts.MinRepeats {
				continue
			}
			var covered float64
			for _, v := range d[begin : begin+hits*length] {
				covered += v
			}
			c := irsignal.Segmentation{
				IntroLength:     begin,
				RepeatLength:    length,
				RepeatCount:     hits,
				EndingLength:    n - begin - hits*length,
				LastGap:         lastGap,
				RepeatsDuration: covered,
			}
			wins := c.RepeatsDuration > best.RepeatsDuration-0.1
			if opts.Strategy == irsignal.MostRepeats && c.RepeatCount != best.RepeatCount {
				wins = c.RepeatCount > best.RepeatCount
			}
			if !found || wins {
				best, found = c, true
			}
		}
	}
	return best
}

func TestFindRepeat_MatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []float64{560, 560, 1690, 9000, 25000}
	longest := irsignal.DefaultRepeatOptions()
	longest.Strategy = irsignal.LongestDuration
	capture := irsignal.CaptureRepeatOptions()
	capture.MinRepeatLength = 2

	for round := 0; round < 200; round++ {
		d := make([]float64, 6+rng.Intn(60))
		for i := range d {
			d[i] = alphabet[rng.Intn(len(alphabet))]
		}
		if round%2 == 0 {
			// plant a periodic stretch so repeats are common
			period := 2 + 2*rng.Intn(3)
			for i := period; i < len(d); i++ {
				d[i] = d[i-period]
			}
		}
		seq := irsignal.NewSequence(d, 0, 0)
		for _, opts := range []irsignal.RepeatOptions{irsignal.DefaultRepeatOptions(), longest, capture} {
			assert.Equal(t, exhaustiveFindRepeat(d, scenarioTolerance, opts), irsignal.FindRepeat(seq, scenarioTolerance, opts),
				"durations %v strategy %v", d, opts.Strategy)
		}
	}
}

func TestFindRepeat_LongPeriodicInput(t *testing.T) {
	d := make([]float64, 4000)
	for i := range d {
		d[i] = 560
	}
	seq := irsignal.NewSequence(d, 0, 0)
	longest := irsignal.DefaultRepeatOptions()
	longest.Strategy = irsignal.LongestDuration

	for _, opts := range []irsignal.RepeatOptions{irsignal.DefaultRepeatOptions(), longest} {
		seg := irsignal.FindRepeat(seq, irsignal.DefaultTolerance(), opts)
		assert.Equal(t, "intro=0 repeat=2 x2000 ending=0", seg.String(), opts.Strategy.String())
	}
}

func TestFindRepeat_LastGapMustExceedMinimum(t *testing.T) {
	frame := []float64{9000, 4500, 560, 1690}
	opts := irsignal.CaptureRepeatOptions()

	atLimit := concat(frame, []float64{560, irsignal.DefaultMinRepeatLastGap}, frame, []float64{560, irsignal.DefaultMinRepeatLastGap})
	seg := irsignal.FindRepeat(irsignal.NewSequence(atLimit, 0, 0), scenarioTolerance, opts)
	assert.False(t, seg.HasRepeat(), "a gap equal to the minimum does not end a repeat")

	above := concat(frame, []float64{560, irsignal.DefaultMinRepeatLastGap + 1}, frame, []float64{560, irsignal.DefaultMinRepeatLastGap + 1})
	seg = irsignal.FindRepeat(irsignal.NewSequence(above, 0, 0), scenarioTolerance, opts)
	assert.Equal(t, "intro=0 repeat=6 x2 ending=0", seg.String())
}

func BenchmarkFindRepeat_Periodic(b *testing.B) {
	d := make([]float64, 2000)
	for i := range d {
		d[i] = 560
	}
	seq := irsignal.NewSequence(d, 0, 0)
	tol := irsignal.DefaultTolerance()
	opts := irsignal.DefaultRepeatOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		irsignal.FindRepeat(seq, tol, opts)
	}
}
