package irsignal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseRaw reads durations written as numbers separated by white space or
// commas, optionally wrapped in brackets. A leading + or - is accepted and
// ignored: marks and spaces are told apart by position.
//
//	+9024 -4512 +564 -564
//	[9024,4512,564,564]
func ParseRaw(text string) (Sequence, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	durations := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Sequence{}, fmt.Errorf("%w: %q", ErrSyntax, f)
		}
		durations = append(durations, math.Abs(v))
	}
	return Sequence{Durations: durations}, nil
}

// FormatRaw writes durations rounded to whole microseconds with alternating
// signs, marks positive.
func FormatRaw(durations []float64) string {
	var b strings.Builder
	for i, d := range durations {
		if i > 0 {
			b.WriteByte(' ')
		}
		if IsMark(i) {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
		b.WriteString(strconv.FormatInt(int64(math.Round(math.Abs(d))), 10))
	}
	return b.String()
}
