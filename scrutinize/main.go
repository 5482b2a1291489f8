// Command scrutinize analyzes one captured IR sequence given as raw text,
// either as arguments or on stdin:
//
//	scrutinize +9024 -4512 +564 -564 ...
//	irrecord-dump | scrutinize -capture -clean
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/derktes/ir-scrutinizer/config"
	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

type options struct {
	configFile string
	absolute   float64
	relative   float64
	clean      bool
	capture    bool
	frequency  float64
	strategy   string
	noRepeat   bool
	zero       float64
}

func parseFlags(args []string, output io.Writer) (*options, []string, error) {
	var o options
	fs := flag.NewFlagSet("scrutinize", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.configFile, "config", "", "Reads tolerance and repeat settings from a YAML configuration file")
	fs.Float64Var(&o.absolute, "abs", -1, "Absolute tolerance in microseconds")
	fs.Float64Var(&o.relative, "rel", -1, "Relative tolerance, 0..1")
	fs.BoolVar(&o.clean, "clean", false, "Cleans the sequence before looking for repeats")
	fs.BoolVar(&o.capture, "capture", false, "Requires a long trailing gap on every repeat, as for hardware captures")
	fs.Float64Var(&o.frequency, "frequency", 0, "Modulation frequency in Hz")
	fs.StringVar(&o.strategy, "strategy", "", "Candidate choice: most-repeats or longest-duration")
	fs.BoolVar(&o.noRepeat, "no-repeat", false, "Skips the repeat finder; the whole sequence becomes the intro")
	fs.Float64Var(&o.zero, "zero", 0, "Replaces zero durations with this many microseconds instead of rejecting them")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &o, fs.Args(), nil
}

// analyzer builds the Analyzer from the configuration file, if any, with
// the command line taking precedence.
func (o *options) analyzer() (*irsignal.Analyzer, error) {
	tol := irsignal.DefaultTolerance()
	opts := irsignal.DefaultRepeatOptions()
	clean := o.clean
	if o.configFile != "" {
		cfg, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		if tol, err = cfg.ToleranceValue(); err != nil {
			return nil, err
		}
		if opts, err = cfg.RepeatOptions(); err != nil {
			return nil, err
		}
		clean = clean || cfg.Analysis.Clean
	}
	if o.capture {
		opts = irsignal.CaptureRepeatOptions()
	}
	if o.strategy != "" {
		s, err := irsignal.ParseStrategy(o.strategy)
		if err != nil {
			return nil, err
		}
		opts.Strategy = s
	}
	if o.absolute >= 0 {
		tol.Absolute = o.absolute
	}
	if o.relative >= 0 {
		tol.Relative = o.relative
	}
	store, err := irsignal.NewToleranceStore(tol)
	if err != nil {
		return nil, err
	}
	a, err := irsignal.NewAnalyzer(store, opts, clean)
	if err != nil {
		return nil, err
	}
	a.SkipRepeatFinder = o.noRepeat
	return a, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	o, rest, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	analyzer, err := o.analyzer()
	if err != nil {
		return err
	}
	var text string
	if len(rest) > 0 {
		text = strings.Join(rest, " ")
	} else {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(err, "read stdin")
		}
		text = string(b)
	}
	seq, err := irsignal.ParseRaw(text)
	if err != nil {
		return err
	}
	seq.Frequency = o.frequency
	if o.zero > 0 && seq.ContainsZeros() {
		log.Printf("Replacing zero durations with %gµs", o.zero)
		seq = seq.ReplaceZeros(o.zero)
	}
	a, err := analyzer.Analyze(seq)
	if err != nil {
		return errors.Wrap(err, "analyze")
	}
	report(stdout, a)
	return nil
}

func report(w io.Writer, a irsignal.Analysis) {
	pairs := a.Segmentation.Pairs()
	fmt.Fprintf(w, "Tolerance:    %v\n", a.Tolerance)
	fmt.Fprintf(w, "Durations:    %s (%s pairs), total %s µs\n",
		humanize.Comma(int64(a.Sequence.Len())),
		humanize.Comma(int64(a.Sequence.NumberPairs())),
		humanize.Comma(int64(math.Round(a.Sequence.Duration()))))
	if a.Sequence.Frequency > 0 {
		fmt.Fprintf(w, "Frequency:    %s\n", humanize.SIWithDigits(a.Sequence.Frequency, 1, "Hz"))
	}
	fmt.Fprintf(w, "Cleaned:      %v\n", a.Cleaned)
	fmt.Fprintf(w, "Segmentation: %v\n", a.Segmentation)
	fmt.Fprintf(w, "Pairs:        intro %d, repeat %d x%d, ending %d\n", pairs.Intro, pairs.Repeat, pairs.RepeatCount, pairs.Ending)
	fmt.Fprintf(w, "Intro:        %s\n", irsignal.FormatRaw(a.Signal.Intro))
	fmt.Fprintf(w, "Repeat:       %s\n", irsignal.FormatRaw(a.Signal.Repeat))
	fmt.Fprintf(w, "Ending:       %s\n", irsignal.FormatRaw(a.Signal.Ending))
	timings := make([]string, len(a.Timings))
	for i, t := range a.Timings {
		timings[i] = humanize.Comma(int64(math.Round(t)))
	}
	fmt.Fprintf(w, "Timings:      %s\n", strings.Join(timings, " "))
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
