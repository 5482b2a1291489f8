package irsignal_test

import (
	"testing"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRaw(t *testing.T) {
	want := []float64{9024, 4512, 564, 564}
	inputs := []string{
		"+9024 -4512 +564 -564",
		"9024 4512 564 564",
		"[9024,4512,564,564]",
		"  9024, -4512;\t564\n564  ",
	}
	for _, in := range inputs {
		seq, err := irsignal.ParseRaw(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, seq.Durations, in)
	}
}

func TestParseRaw_Errors(t *testing.T) {
	_, err := irsignal.ParseRaw("")
	assert.ErrorIs(t, err, irsignal.ErrEmptySequence)

	_, err = irsignal.ParseRaw("[]")
	assert.ErrorIs(t, err, irsignal.ErrEmptySequence)

	_, err = irsignal.ParseRaw("+9024 -abc")
	assert.ErrorIs(t, err, irsignal.ErrSyntax)

	_, err = irsignal.ParseRaw("100 NaN")
	assert.ErrorIs(t, err, irsignal.ErrSyntax)
}

func TestFormatRaw(t *testing.T) {
	assert.Equal(t, "+9024 -4512 +564 -40000", irsignal.FormatRaw([]float64{9024, 4512, 563.6, 40000}))
	assert.Equal(t, "", irsignal.FormatRaw(nil))

	seq, err := irsignal.ParseRaw(irsignal.FormatRaw([]float64{2400, 600, 1200}))
	require.NoError(t, err)
	assert.Equal(t, "+2400 -600 +1200", seq.String())
}
