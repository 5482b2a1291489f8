package irsignal

// Analysis is the outcome of one pass through the Analyzer.
type Analysis struct {
	// Sequence is the analyzed sequence, cleaned when cleaning is enabled.
	Sequence     Sequence     `json:"sequence"`
	Segmentation Segmentation `json:"segmentation"`
	Signal       Signal       `json:"signal"`
	// Timings is the table of distinct canonical durations.
	Timings   []float64 `json:"timings"`
	Tolerance Tolerance `json:"tolerance"`
	Cleaned   bool      `json:"cleaned"`
}

// Analyzer runs validation, cleaning, repeat finding and reconstruction on
// captured sequences. The zero value uses DefaultTolerance and
// DefaultRepeatOptions without cleaning.
type Analyzer struct {
	// Tolerance is read once per Analyze call. Nil means DefaultTolerance.
	Tolerance *ToleranceStore
	Options   RepeatOptions
	Clean     bool
	// SkipRepeatFinder treats every sequence as a one-shot intro.
	SkipRepeatFinder bool
}

// NewAnalyzer returns an Analyzer after checking opts.
func NewAnalyzer(tolerance *ToleranceStore, opts RepeatOptions, clean bool) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{Tolerance: tolerance, Options: opts, Clean: clean}, nil
}

// Analyze rejects sequences that are empty or contain zero or negative
// durations and otherwise always succeeds. A sequence without repeat yields
// a one-shot signal.
func (a *Analyzer) Analyze(seq Sequence) (Analysis, error) {
	if err := seq.Validate(); err != nil {
		return Analysis{}, err
	}
	tol := a.Tolerance.Load()
	work := seq.Clone()
	if a.Clean {
		work = Clean(work, tol)
	}
	seg := NoRepeat(work.Len())
	if !a.SkipRepeatFinder {
		seg = FindRepeat(work, tol, a.Options)
	}
	return Analysis{
		Sequence:     work,
		Segmentation: seg,
		Signal:       ToSignal(work, seg),
		Timings:      TimingsTable(work, tol),
		Tolerance:    tol,
		Cleaned:      a.Clean,
	}, nil
}
