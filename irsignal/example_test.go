package irsignal_test

import (
	"fmt"

	"github.com/derktes/ir-scrutinizer/irsignal"
)

// ExampleFindRepeat segments a capture holding an intro pair, five copies
// of one pair and a trailing silence.
func ExampleFindRepeat() {
	seq := irsignal.NewSequence([]float64{2400, 600, 1200, 600, 1200, 600, 1200, 600, 1200, 600, 1200, 600, 48000}, 40000, 0)
	tol := irsignal.Tolerance{Absolute: 100, Relative: 0.05}

	seg := irsignal.FindRepeat(seq, tol, irsignal.DefaultRepeatOptions())
	fmt.Println(seg)
	fmt.Printf("%+v\n", seg.Pairs())
	fmt.Println(irsignal.ToSignal(seq, seg))
	// Output:
	// intro=2 repeat=2 x5 ending=1
	// {Intro:1 Repeat:1 RepeatCount:5 Ending:1}
	// freq=40000 intro=[+2400 -600] repeat=[+1200 -600]x5 ending=[+48000]
}

// ExampleAnalyzer runs the whole pipeline on a jittery NEC-style capture
// holding one frame and two repeat codes.
func ExampleAnalyzer() {
	raw := "+9024 -4512 +564 -1692 +560 -564 +570 -1680 +564 -39756 " +
		"+9000 -2250 +560 -96000 +9030 -2240 +570 -95500"
	seq, err := irsignal.ParseRaw(raw)
	if err != nil {
		fmt.Println(err)
		return
	}
	seq.Frequency = 38000

	a := irsignal.Analyzer{Options: irsignal.CaptureRepeatOptions(), Clean: true}
	res, err := a.Analyze(seq)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Segmentation)
	fmt.Println(irsignal.FormatRaw(res.Signal.Repeat))
	// Output:
	// intro=10 repeat=4 x2 ending=0
	// +9018 -2245 +565 -95750
}
