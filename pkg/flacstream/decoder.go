// ABOUTME: Incremental push/pull FLAC decoder
// ABOUTME: Buffers partial input, decodes complete frames, queues normalized stereo pairs
package flacstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// flacMagic marks the beginning of a FLAC container.
var flacMagic = []byte("fLaC")

// exportCapacity is the fixed size, in sample pairs, of the left and right
// export buffers.
const exportCapacity = 16 * 1024

// samplePair is one left/right sample at the same instant, normalized to
// [-1.0, 1.0).
type samplePair struct {
	left  float32
	right float32
}

// Decoder incrementally decodes a stereo FLAC bitstream fed in arbitrary
// chunks. See the package documentation for the push/pull model.
type Decoder struct {
	parser  FrameParser
	pending []byte
	queue   []samplePair

	// Export buffers, allocated once with len == cap so their storage
	// never moves for the decoder's lifetime.
	left  []float32
	right []float32

	sampleRate uint32
	bitDepth   uint32
}

// New parses the FLAC container header from data: the 4-byte magic number
// followed by metadata blocks, of which one must be the stream-info block.
// Bytes after the last metadata block are kept as pending input for the
// first Push.
//
// New returns ErrShortHeader when data ends inside the header, and
// ErrFormat when the magic number mismatches, a metadata block is
// malformed, no stream-info block is present, or the declared stream
// parameters are unsupported.
func New(data []byte) (*Decoder, error) {
	return NewWithParser(data, NewFrameParser())
}

// NewWithParser is New with a caller-supplied frame parser.
func NewWithParser(data []byte, parser FrameParser) (*Decoder, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic number: %v", ErrShortHeader, err)
	}
	if !bytes.Equal(magic[:], flacMagic) {
		return nil, fmt.Errorf("%w: magic number %q, want %q", ErrFormat, magic[:], flacMagic)
	}

	var info *meta.StreamInfo
	for {
		block, err := meta.Parse(r)
		if err != nil {
			if isShortData(err) {
				return nil, fmt.Errorf("%w: metadata: %v", ErrShortHeader, err)
			}
			return nil, fmt.Errorf("%w: metadata: %v", ErrFormat, err)
		}
		if si, ok := block.Body.(*meta.StreamInfo); ok {
			info = si
		}
		if block.IsLast {
			break
		}
	}
	if info == nil {
		return nil, fmt.Errorf("%w: missing stream info", ErrFormat)
	}
	if info.BitsPerSample < 1 || info.BitsPerSample > 32 {
		return nil, fmt.Errorf("%w: bit depth %d out of range", ErrFormat, info.BitsPerSample)
	}
	if info.NChannels != 2 {
		return nil, fmt.Errorf("%w: %d channels, only stereo streams are supported", ErrFormat, info.NChannels)
	}

	var pending []byte
	if r.Len() > 0 {
		pending = append(pending, data[len(data)-r.Len():]...)
	}

	return &Decoder{
		parser:     parser,
		pending:    pending,
		left:       make([]float32, exportCapacity),
		right:      make([]float32, exportCapacity),
		sampleRate: info.SampleRate,
		bitDepth:   uint32(info.BitsPerSample),
	}, nil
}

// SampleRate returns the stream's sample rate in Hz.
func (d *Decoder) SampleRate() uint32 { return d.sampleRate }

// BitDepth returns the stream's bits per sample.
func (d *Decoder) BitDepth() uint32 { return d.bitDepth }

// Push appends data to the pending input and decodes every complete frame
// it can, queueing the normalized sample pairs. It returns the number of
// inter-channel samples decoded during this call; input that ends mid-frame
// is held for the next Push.
//
// When the pending input is empty, Push retains data without copying; the
// caller must not reuse the slice afterwards.
//
// A malformed frame fails the call with an error wrapping ErrDecode.
// Samples from frames decoded earlier in the same call stay queued, their
// bytes stay consumed, and the failing frame's bytes stay pending.
func (d *Decoder) Push(data []byte) (int, error) {
	input := d.pending
	if len(input) == 0 {
		input = data
	} else {
		input = append(input, data...)
	}
	d.pending = nil

	total := 0
	pos := 0
	for {
		f, n, err := d.parser.Next(input[pos:])
		if err != nil {
			if errors.Is(err, ErrShortData) {
				break
			}
			d.retain(input, pos)
			return total, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if err := d.enqueue(f); err != nil {
			d.retain(input, pos)
			return total, err
		}
		total += int(f.BlockSize)
		pos += n
	}
	d.retain(input, pos)
	return total, nil
}

// retain keeps the unconsumed suffix of input as the pending bytes:
// nothing when all input was consumed, the whole buffer untouched when
// none was, and a copy of the tail otherwise.
func (d *Decoder) retain(input []byte, pos int) {
	switch {
	case pos == len(input):
		d.pending = nil
	case pos == 0:
		d.pending = input
	default:
		d.pending = append([]byte(nil), input[pos:]...)
	}
}

// enqueue normalizes one frame's samples and appends them to the output
// queue in playback order.
func (d *Decoder) enqueue(f *frame.Frame) error {
	if len(f.Subframes) != 2 {
		return fmt.Errorf("%w: frame has %d channels, stream info says 2", ErrDecode, len(f.Subframes))
	}
	n := int(f.BlockSize)
	left := f.Subframes[0].Samples
	right := f.Subframes[1].Samples
	if len(left) < n || len(right) < n {
		return fmt.Errorf("%w: subframe shorter than block size %d", ErrDecode, n)
	}

	shift := uint(32 - d.bitDepth)
	for i := 0; i < n; i++ {
		d.queue = append(d.queue, samplePair{
			left:  normalize(left[i], shift),
			right: normalize(right[i], shift),
		})
	}
	return nil
}

// Pull copies up to size sample pairs from the head of the output queue
// into the left and right export buffers, removes them from the queue, and
// returns the number of pairs written. size must not exceed the export
// buffer capacity.
func (d *Decoder) Pull(size int) int {
	n := min(size, len(d.queue))
	for i := 0; i < n; i++ {
		d.left[i] = d.queue[i].left
		d.right[i] = d.queue[i].right
	}
	d.queue = d.queue[n:]
	return n
}

// Left returns the left-channel export buffer. The slice is allocated once
// at construction and never reallocated, so the caller may hold it across
// calls and read the prefix written by the latest Pull.
func (d *Decoder) Left() []float32 { return d.left }

// Right returns the right-channel export buffer. Same lifetime rules as
// Left.
func (d *Decoder) Right() []float32 { return d.right }

// Buffered returns the number of decoded sample pairs waiting to be
// pulled.
func (d *Decoder) Buffered() int { return len(d.queue) }

// PendingBytes returns the number of input bytes held while waiting for
// the rest of a frame.
func (d *Decoder) PendingBytes() int { return len(d.pending) }
