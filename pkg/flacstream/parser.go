// ABOUTME: Frame parser boundary over mewkiz/flac
// ABOUTME: Parses one complete frame from a byte slice and reports bytes consumed
package flacstream

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/mewkiz/flac/frame"
)

// FrameParser parses audio frames from the head of a byte slice.
//
// Next parses one complete frame starting at buf[0] and reports how many
// bytes it occupied. It returns ErrShortData when buf ends before the
// frame does; any other error means the frame is malformed.
type FrameParser interface {
	Next(buf []byte) (*frame.Frame, int, error)
}

// NewFrameParser returns the production FrameParser backed by
// github.com/mewkiz/flac.
func NewFrameParser() FrameParser {
	return flacFrameParser{}
}

type flacFrameParser struct{}

func (flacFrameParser) Next(buf []byte) (*frame.Frame, int, error) {
	r := bytes.NewReader(buf)
	f, err := frame.Parse(r)
	if err != nil {
		if isShortData(err) {
			return nil, 0, ErrShortData
		}
		return nil, 0, err
	}
	// frame.Parse reads byte-exactly (bytes.Reader satisfies io.ByteReader,
	// so no buffering sneaks in underneath), which makes the reader's
	// remaining length an exact consumption count.
	return f, len(buf) - r.Len(), nil
}

// isShortData reports whether err means the input ended mid-frame rather
// than the frame being malformed. Some parser errors carry EOF only in
// their message, without an Unwrap chain, so the sentinel check alone is
// not enough.
func isShortData(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return strings.Contains(err.Error(), "EOF")
}
