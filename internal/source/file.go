// ABOUTME: File-backed chunk source
// ABOUTME: Reads a local FLAC file in fixed-size chunks to feed the decoder
package source

import (
	"fmt"
	"io"
	"os"
)

// FileSource delivers a file's bytes as fixed-size chunks, simulating the
// fragmentation a network transport produces.
type FileSource struct {
	chunks chan []byte
	done   chan struct{}
	err    error
}

// NewFileSource opens path and starts reading it in chunkSize-byte chunks.
func NewFileSource(path string, chunkSize int) (*FileSource, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	s := &FileSource{
		chunks: make(chan []byte, 4),
		done:   make(chan struct{}),
	}

	go s.readLoop(f, chunkSize)

	return s, nil
}

// Chunks returns the channel of byte chunks. It is closed when the file is
// exhausted or reading fails; check Err afterwards.
func (s *FileSource) Chunks() <-chan []byte {
	return s.chunks
}

// Err returns the error that ended reading, if any. Valid after Chunks is
// closed.
func (s *FileSource) Err() error {
	return s.err
}

// Close stops the reader.
func (s *FileSource) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *FileSource) readLoop(f *os.File, chunkSize int) {
	defer close(s.chunks)
	defer f.Close()

	for {
		buf := make([]byte, chunkSize)
		n, err := f.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return
		}
	}
}
