package server

import (
	"fmt"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/pkg/errors"
)

type protocolID int

const (
	protocolNEC protocolID = iota
	protocolNECRepeat
	protocolUnknown
)

func (pid protocolID) String() string {
	switch pid {
	case protocolNEC:
		return "NEC"
	case protocolNECRepeat:
		return "NEC-repeat"
	default:
		return "Unknown"
	}
}

func (pid *protocolID) parse(protocolIDString string) {
	switch protocolIDString {
	case "NEC":
		*pid = protocolNEC
	case "NEC-repeat":
		*pid = protocolNECRepeat
	default:
		*pid = protocolUnknown
	}
}

const (
	pNECHeaderMarkMicros  float64 = 9000
	pNECHeaderSpaceMicros float64 = 4500
	pNECRepeatSpaceMicros float64 = 2250
	pNECBitShortMicros    float64 = 562.5
	pNECBitLongMicros     float64 = 1687.5
	pNECFrameBits                 = 32
	unknownValue                  = "-"
)

// decodeFrame names the protocol and value of an analyzed signal. The intro
// carries the frame; a signal that is all repeat is decoded from its repeat
// burst.
func decodeFrame(sig irsignal.Signal, tol irsignal.Tolerance) (protocolID, string, error) {
	frame := sig.Intro
	if len(frame) < 2 {
		frame = sig.Repeat
	}
	p := pairs(frame)
	if len(p) == 0 || !tol.Equal(p[0].Mark, pNECHeaderMarkMicros) {
		return protocolUnknown, unknownValue, nil
	}
	switch {
	case tol.Equal(p[0].Space, pNECHeaderSpaceMicros):
		value, err := decodedNECFrameValue(p[1:], tol)
		if err != nil {
			return protocolUnknown, unknownValue, err
		}
		return protocolNEC, value, nil
	case tol.Equal(p[0].Space, pNECRepeatSpaceMicros):
		return protocolNECRepeat, unknownValue, nil
	}
	return protocolUnknown, unknownValue, nil
}

func decodedNECFrameValue(rawPulses []markSpacePair, tol irsignal.Tolerance) (string, error) {
	if len(rawPulses) < pNECFrameBits {
		return "", errors.New("NEC has less than 32 raw pulses")
	}
	var decodedValue uint32
	for i, p := range rawPulses[:pNECFrameBits] {
		if !tol.Equal(p.Mark, pNECBitShortMicros) {
			return "", errors.Errorf("NEC bit %d is %v, mark out of range", i, p)
		}
		switch {
		case tol.Equal(p.Space, pNECBitLongMicros):
			decodedValue |= 1 << uint(pNECFrameBits-1-i)
		case !tol.Equal(p.Space, pNECBitShortMicros):
			return "", errors.Errorf("NEC bit %d is %v, space out of range", i, p)
		}
	}
	return fmt.Sprintf("%08X", decodedValue), nil
}
