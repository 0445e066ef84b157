// ABOUTME: Tests for the incremental push/pull decoder
// ABOUTME: Covers construction, chunked pushes, pending input, queue draining, and errors
package flacstream

import (
	"errors"
	"testing"

	"github.com/flacstream/flacstream-go/internal/flactest"
)

func TestNewParsesStreamInfo(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if dec.SampleRate() != 44100 {
		t.Errorf("expected sample rate 44100, got %d", dec.SampleRate())
	}

	if dec.BitDepth() != 16 {
		t.Errorf("expected bit depth 16, got %d", dec.BitDepth())
	}

	if dec.PendingBytes() != 0 {
		t.Errorf("expected no pending bytes, got %d", dec.PendingBytes())
	}
}

func TestNewScansPastPadding(t *testing.T) {
	dec, err := New(flactest.HeaderWithPadding(48000, 24))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if dec.SampleRate() != 48000 {
		t.Errorf("expected sample rate 48000, got %d", dec.SampleRate())
	}

	if dec.BitDepth() != 24 {
		t.Errorf("expected bit depth 24, got %d", dec.BitDepth())
	}
}

func TestNewWrongMagic(t *testing.T) {
	data := flactest.Header(44100, 16)
	data[0] = 'X'

	_, err := New(data)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for wrong magic, got %v", err)
	}
}

func TestNewMissingStreamInfo(t *testing.T) {
	_, err := New(flactest.HeaderMissingStreamInfo())
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for missing stream info, got %v", err)
	}
}

func TestNewRejectsMono(t *testing.T) {
	_, err := New(flactest.HeaderMono(44100, 16))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for mono stream, got %v", err)
	}
}

func TestNewTruncatedHeader(t *testing.T) {
	data := flactest.Header(44100, 16)

	for _, n := range []int{0, 2, 4, 10} {
		_, err := New(data[:n])
		if !errors.Is(err, ErrShortHeader) {
			t.Errorf("New with %d bytes: expected ErrShortHeader, got %v", n, err)
		}
	}
}

func TestNewKeepsTrailingBytesPending(t *testing.T) {
	frame := flactest.Frame(0, [][2]int16{{1, -1}, {2, -2}})
	data := append(flactest.Header(44100, 16), frame[:3]...)

	dec, err := New(data)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if dec.PendingBytes() != 3 {
		t.Fatalf("expected 3 pending bytes, got %d", dec.PendingBytes())
	}

	// Completing the frame via Push must decode it.
	n, err := dec.Push(frame[3:])
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 samples, got %d", n)
	}
}

func TestPushSingleFrame(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	n, err := dec.Push(flactest.Frame(0, [][2]int16{{0, 0}, {0, 0}}))
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 samples decoded, got %d", n)
	}
	if dec.PendingBytes() != 0 {
		t.Errorf("expected no pending bytes, got %d", dec.PendingBytes())
	}

	got := dec.Pull(2)
	if got != 2 {
		t.Fatalf("expected pull to return 2, got %d", got)
	}

	// A zero sample normalizes to exactly 0.0.
	for i := 0; i < 2; i++ {
		if dec.Left()[i] != 0.0 || dec.Right()[i] != 0.0 {
			t.Errorf("pair %d: expected (0, 0), got (%v, %v)", i, dec.Left()[i], dec.Right()[i])
		}
	}
}

func TestPushEmptyInput(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	n, err := dec.Push(nil)
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 samples, got %d", n)
	}
}

func TestPushPartialFrameStalls(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	frame := flactest.Frame(0, [][2]int16{{100, -100}, {200, -200}, {300, -300}})

	n, err := dec.Push(frame[:len(frame)-3])
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 samples from a partial frame, got %d", n)
	}
	if dec.PendingBytes() != len(frame)-3 {
		t.Fatalf("expected all %d bytes pending, got %d", len(frame)-3, dec.PendingBytes())
	}

	n, err = dec.Push(frame[len(frame)-3:])
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 samples after completing the frame, got %d", n)
	}
	if dec.PendingBytes() != 0 {
		t.Errorf("expected no pending bytes, got %d", dec.PendingBytes())
	}
}

func TestPushChunkBoundaryInvariant(t *testing.T) {
	frames := [][]byte{
		flactest.Frame(0, [][2]int16{{1, 2}, {3, 4}}),
		flactest.Frame(1, [][2]int16{{5, 6}, {7, 8}, {9, 10}}),
		flactest.Frame(2, [][2]int16{{-1, -2}}),
	}
	var stream []byte
	for _, f := range frames {
		stream = append(stream, f...)
	}
	const wantSamples = 2 + 3 + 1

	for _, chunkSize := range []int{1, 3, 7, len(stream)} {
		dec, err := New(flactest.Header(44100, 16))
		if err != nil {
			t.Fatalf("failed to create decoder: %v", err)
		}

		total := 0
		for off := 0; off < len(stream); off += chunkSize {
			end := min(off+chunkSize, len(stream))
			n, err := dec.Push(append([]byte(nil), stream[off:end]...))
			if err != nil {
				t.Fatalf("chunk size %d: push at %d failed: %v", chunkSize, off, err)
			}
			total += n
		}

		if total != wantSamples {
			t.Errorf("chunk size %d: expected %d samples, got %d", chunkSize, wantSamples, total)
		}
		if dec.PendingBytes() != 0 {
			t.Errorf("chunk size %d: expected no pending bytes, got %d", chunkSize, dec.PendingBytes())
		}
	}
}

func TestPullPreservesOrder(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	pairs := [][2]int16{{10, -10}, {20, -20}, {30, -30}, {40, -40}}
	if _, err := dec.Push(flactest.Frame(0, pairs[:2])); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if _, err := dec.Push(flactest.Frame(1, pairs[2:])); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	// Drain in two pulls and check temporal order across the boundary.
	var gotLeft, gotRight []float32
	for _, size := range []int{3, 3} {
		n := dec.Pull(size)
		gotLeft = append(gotLeft, dec.Left()[:n]...)
		gotRight = append(gotRight, dec.Right()[:n]...)
	}

	if len(gotLeft) != len(pairs) {
		t.Fatalf("expected %d pairs total, got %d", len(pairs), len(gotLeft))
	}
	for i, p := range pairs {
		wantL := normalize(int32(p[0]), 16)
		wantR := normalize(int32(p[1]), 16)
		if gotLeft[i] != wantL || gotRight[i] != wantR {
			t.Errorf("pair %d: expected (%v, %v), got (%v, %v)", i, wantL, wantR, gotLeft[i], gotRight[i])
		}
	}
}

func TestPullDrainsQueue(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if _, err := dec.Push(flactest.Frame(0, [][2]int16{{1, 1}, {2, 2}, {3, 3}})); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	if n := dec.Pull(2); n != 2 {
		t.Fatalf("expected first pull to return 2, got %d", n)
	}
	if dec.Buffered() != 1 {
		t.Errorf("expected 1 pair buffered, got %d", dec.Buffered())
	}
	if n := dec.Pull(2); n != 1 {
		t.Fatalf("expected second pull to return 1, got %d", n)
	}
	if n := dec.Pull(2); n != 0 {
		t.Errorf("expected empty queue to pull 0, got %d", n)
	}
}

func TestPullMoreThanQueued(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if _, err := dec.Push(flactest.Frame(0, [][2]int16{{1, 1}})); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	if n := dec.Pull(100); n != 1 {
		t.Errorf("expected 1 pair, got %d", n)
	}
}

func TestPushMalformedFrame(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	good := flactest.Frame(0, [][2]int16{{1, 1}, {2, 2}})
	bad := flactest.Frame(1, [][2]int16{{3, 3}, {4, 4}})
	bad[0] = 0x00 // break the sync code

	n, err := dec.Push(append(append([]byte(nil), good...), bad...))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}

	// The frame before the corruption was decoded and stays queued.
	if n != 2 {
		t.Errorf("expected 2 samples decoded before the failure, got %d", n)
	}
	if dec.Buffered() != 2 {
		t.Errorf("expected 2 pairs queued, got %d", dec.Buffered())
	}

	// The failing frame's bytes are kept pending, not discarded.
	if dec.PendingBytes() != len(bad) {
		t.Errorf("expected %d pending bytes, got %d", len(bad), dec.PendingBytes())
	}
}

func TestPushMalformedLeavesQueueUntouched(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	bad := flactest.Frame(0, [][2]int16{{1, 1}})
	bad[0] = 0x00

	n, err := dec.Push(bad)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 samples, got %d", n)
	}
	if dec.Buffered() != 0 {
		t.Errorf("expected empty queue, got %d pairs", dec.Buffered())
	}
}

func TestExportBuffersAreStable(t *testing.T) {
	dec, err := New(flactest.Header(44100, 16))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	left, right := dec.Left(), dec.Right()
	if len(left) != 16*1024 || len(right) != 16*1024 {
		t.Fatalf("expected export buffers of 16384 entries, got %d and %d", len(left), len(right))
	}

	if _, err := dec.Push(flactest.Frame(0, [][2]int16{{7, -7}})); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	dec.Pull(1)

	// A slice taken before the pull sees the newly written prefix.
	if left[0] != normalize(7, 16) || right[0] != normalize(-7, 16) {
		t.Errorf("expected held slices to observe pulled samples, got (%v, %v)", left[0], right[0])
	}
}
