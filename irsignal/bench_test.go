package irsignal_test

import (
	"testing"

	"github.com/derktes/ir-scrutinizer/irsignal"
)

// necCapture builds an NEC-like capture: one frame followed by repeats
// ditto codes, with a little deterministic jitter on every duration.
func necCapture(repeats int) irsignal.Sequence {
	d := []float64{9000, 4500}
	for i := 0; i < 32; i++ {
		space := 560.0
		if i%3 == 0 {
			space = 1690
		}
		d = append(d, 560+float64(i%5), space+float64(i%7))
	}
	d = append(d, 560, 40000)
	for i := 0; i < repeats; i++ {
		d = append(d, 9000+float64(i%4), 2250, 560, 96000)
	}
	return irsignal.NewSequence(d, 38000, 0)
}

func BenchmarkFindRepeat(b *testing.B) {
	seq := necCapture(6)
	tol := irsignal.DefaultTolerance()
	opts := irsignal.CaptureRepeatOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		irsignal.FindRepeat(seq, tol, opts)
	}
}

func BenchmarkClean(b *testing.B) {
	seq := necCapture(6)
	tol := irsignal.DefaultTolerance()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		irsignal.Clean(seq, tol)
	}
}

func TestFindRepeat_NECCapture(t *testing.T) {
	seq := necCapture(6)
	seg := irsignal.FindRepeat(seq, irsignal.DefaultTolerance(), irsignal.CaptureRepeatOptions())
	if seg.IntroLength != 68 || seg.RepeatLength != 4 || seg.RepeatCount != 6 || seg.EndingLength != 0 {
		t.Fatalf("unexpected segmentation %v", seg)
	}
}
