package endpoint

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// decoderState is the state of the percent-decoding transducer.
type decoderState int

const (
	// stateReading copies characters to the output.
	stateReading decoderState = iota

	// stateParsing collects the characters of a percent escape.
	stateParsing

	// stateParseReady holds a complete (even length) hex run that may still
	// be extended by another '%'.
	stateParseReady
)

// decoder accumulates output while walking an endpoint one character at a time.
// Consecutive escapes ("%E2%80%93") are buffered as one hex run so that
// multi-byte UTF-8 sequences decode as a single character.
type decoder struct {
	out   strings.Builder
	hex   []byte
	state decoderState
}

// Decode converts an encoded endpoint into display text: "_" becomes a space
// and percent escapes are decoded as UTF-8. The returned error is a
// *DecodeError wrapping one of the Err* sentinels.
func Decode(raw string) (string, error) {
	d := &decoder{}
	for _, c := range raw {
		if err := d.step(c); err != nil {
			return "", &DecodeError{Endpoint: raw, Err: err}
		}
	}
	s, err := d.finish()
	if err != nil {
		return "", &DecodeError{Endpoint: raw, Err: err}
	}
	return s, nil
}

func (d *decoder) step(c rune) error {
	switch d.state {
	case stateReading:
		switch c {
		case '%':
			d.state = stateParsing
		case '_':
			d.out.WriteByte(' ')
		default:
			d.out.WriteRune(c)
		}
	case stateParsing:
		d.hex = utf8.AppendRune(d.hex, c)
		if len(d.hex)%2 == 0 {
			d.state = stateParseReady
		}
	case stateParseReady:
		if c == '%' {
			d.state = stateParsing
			return nil
		}
		if err := d.flush(); err != nil {
			return err
		}
		d.out.WriteRune(c)
		d.state = stateReading
	}
	return nil
}

func (d *decoder) finish() (string, error) {
	switch d.state {
	case stateParsing:
		return "", ErrIncompleteParse
	case stateParseReady:
		if err := d.flush(); err != nil {
			return "", err
		}
	}
	return d.out.String(), nil
}

// flush decodes the buffered hex run into the output and clears the buffer.
func (d *decoder) flush() error {
	text, err := hexToText(d.hex)
	if err != nil {
		return err
	}
	d.out.WriteString(text)
	d.hex = d.hex[:0]
	return nil
}

func hexToText(run []byte) (string, error) {
	if len(run)%2 != 0 {
		return "", ErrOddLengthHex
	}
	b := make([]byte, hex.DecodedLen(len(run)))
	if _, err := hex.Decode(b, run); err != nil {
		return "", ErrInvalidHex
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
