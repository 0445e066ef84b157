// ABOUTME: Error taxonomy for the streaming decoder
// ABOUTME: Sentinel errors for construction, push, and the frame parser boundary
package flacstream

import "errors"

var (
	// ErrFormat reports an unusable container: wrong magic number, a
	// malformed metadata block, a missing stream-info block, or stream
	// parameters outside the supported range. Returned only by New.
	ErrFormat = errors.New("flacstream: invalid container")

	// ErrShortHeader reports that the data given to New ends before the
	// metadata blocks do. The caller may retry with more bytes appended.
	ErrShortHeader = errors.New("flacstream: truncated container header")

	// ErrDecode reports a structurally invalid audio frame. Returned by
	// Push; samples decoded earlier in the same call stay queued and the
	// failing frame's bytes stay pending.
	ErrDecode = errors.New("flacstream: malformed frame")

	// ErrShortData is returned by a FrameParser when the buffer ends
	// mid-frame. Push absorbs it; it never escapes to callers.
	ErrShortData = errors.New("flacstream: incomplete frame")
)
