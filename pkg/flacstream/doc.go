// ABOUTME: Streaming FLAC decoder package
// ABOUTME: Push arbitrary byte chunks, pull fixed-size blocks of normalized stereo samples
// Package flacstream turns a FLAC bitstream that arrives in arbitrarily
// sized byte chunks into a continuous sequence of interleaved stereo
// float32 samples, pulled in caller-sized blocks.
//
// The decoder is built for a host that drives playback on its own cadence,
// such as an audio-rendering callback: feed whatever bytes are available
// with Push, then drain normalized sample pairs with Pull. Input that ends
// mid-frame is held until the next Push; decoded samples queue until
// pulled.
//
// Example:
//
//	dec, err := flacstream.New(header)
//	n, err := dec.Push(chunk)
//	got := dec.Pull(512)
//	left, right := dec.Left()[:got], dec.Right()[:got]
//
// The FLAC frame grammar itself is handled by github.com/mewkiz/flac
// behind the FrameParser interface; this package only does the buffering,
// normalization and queueing around it.
//
// A Decoder is not safe for concurrent use. Push and Pull run to
// completion synchronously; the host serializes calls.
package flacstream
