package irsignal

import "errors"

var (
	// ErrEmptySequence indicates a sequence without any durations.
	ErrEmptySequence = errors.New("irsignal: sequence is empty")

	// ErrZeroDuration indicates a sequence containing a zero length duration.
	ErrZeroDuration = errors.New("irsignal: sequence contains a zero duration")

	// ErrNegativeDuration indicates a negative or non-finite duration.
	ErrNegativeDuration = errors.New("irsignal: duration must be a finite non-negative number")

	// ErrInvalidTolerance indicates a negative absolute tolerance or a relative
	// tolerance outside [0,1].
	ErrInvalidTolerance = errors.New("irsignal: invalid tolerance")

	// ErrInvalidOptions indicates unusable repeat finder options.
	ErrInvalidOptions = errors.New("irsignal: invalid repeat options")

	// ErrSyntax indicates raw duration text that cannot be parsed.
	ErrSyntax = errors.New("irsignal: syntax error in raw durations")
)
