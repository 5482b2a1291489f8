package collector

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/pkg/errors"
)

// DefaultMode2Threshold is the space, in microseconds, that ends a mode2 frame.
const DefaultMode2Threshold float64 = 100000

// mode2Assembler turns LIRC mode2 lines ("pulse 560", "space 4500",
// "timeout 125000", "carrier 38000") into frames.
type mode2Assembler struct {
	threshold float64
	frequency float64
	durations []float64
	emit      func(capturedFrame)
}

func (m *mode2Assembler) lastIsMark() bool { return len(m.durations)%2 == 1 }

func (m *mode2Assembler) add(mark bool, v float64) {
	if v <= 0 {
		return
	}
	switch {
	case len(m.durations) == 0 && !mark:
		// leading silence
		return
	case len(m.durations) > 0 && m.lastIsMark() == mark:
		m.durations[len(m.durations)-1] += v
	default:
		m.durations = append(m.durations, v)
	}
	if !mark && m.durations[len(m.durations)-1] >= m.threshold {
		m.flush()
	}
}

// flush emits the frame under construction. A frame ending on a mark gets
// irsignal.DummyGap so it stays a whole number of pairs.
func (m *mode2Assembler) flush() {
	if len(m.durations) == 0 {
		return
	}
	if m.lastIsMark() {
		m.durations = append(m.durations, irsignal.DummyGap)
	}
	m.emit(capturedFrame{Frequency: m.frequency, Durations: m.durations})
	m.durations = nil
}

func (m *mode2Assembler) line(text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	if len(fields) != 2 {
		return errors.Errorf("malformed mode2 line %q", text)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return errors.Wrapf(err, "mode2 line %q", text)
	}
	switch strings.TrimSuffix(fields[0], ":") {
	case "pulse":
		m.add(true, v)
	case "space":
		m.add(false, v)
	case "timeout":
		m.flush()
	case "carrier":
		m.frequency = v
	default:
		return errors.Errorf("unknown mode2 entry %q", fields[0])
	}
	return nil
}

// readMode2Frames assembles frames from r until EOF. Malformed lines are
// logged and skipped; the frame in progress at EOF is emitted.
func readMode2Frames(r io.Reader, threshold float64, emit func(capturedFrame)) error {
	if threshold <= 0 {
		threshold = DefaultMode2Threshold
	}
	m := &mode2Assembler{threshold: threshold, emit: emit}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := m.line(scanner.Text()); err != nil {
			log.Print(err)
		}
	}
	m.flush()
	return errors.Wrap(scanner.Err(), "read mode2")
}
