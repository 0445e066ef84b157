// ABOUTME: Hand-assembled FLAC fixtures for decoder tests
// ABOUTME: Encodes container headers and verbatim stereo frames with valid CRCs
// Package flactest builds minimal, valid FLAC byte sequences for tests.
//
// The encoders here are deliberately independent of any FLAC library so
// that decoder tests are not checked against the code under test. Frames
// use the verbatim subframe type: 16-bit stereo samples stored literally,
// which keeps the bit layout byte-aligned and easy to reason about.
package flactest

import "encoding/binary"

// Header returns a minimal container: the fLaC magic followed by a single
// stream-info block marked last. The stream declares stereo with the given
// sample rate and bit depth.
func Header(sampleRate uint32, bitDepth uint8) []byte {
	b := []byte("fLaC")
	b = append(b, 0x80, 0x00, 0x00, 0x22) // last block, type 0, length 34
	return append(b, streamInfoBody(sampleRate, bitDepth, 2)...)
}

// HeaderWithPadding is Header followed by a padding metadata block, so the
// stream-info block is not the last one.
func HeaderWithPadding(sampleRate uint32, bitDepth uint8) []byte {
	b := []byte("fLaC")
	b = append(b, 0x00, 0x00, 0x00, 0x22) // type 0, length 34
	b = append(b, streamInfoBody(sampleRate, bitDepth, 2)...)
	b = append(b, 0x81, 0x00, 0x00, 0x04) // last block, type 1 (padding), length 4
	return append(b, 0x00, 0x00, 0x00, 0x00)
}

// HeaderMono is Header with a single-channel stream-info block.
func HeaderMono(sampleRate uint32, bitDepth uint8) []byte {
	b := []byte("fLaC")
	b = append(b, 0x80, 0x00, 0x00, 0x22)
	return append(b, streamInfoBody(sampleRate, bitDepth, 1)...)
}

// HeaderMissingStreamInfo returns a container whose only metadata block is
// padding.
func HeaderMissingStreamInfo() []byte {
	b := []byte("fLaC")
	b = append(b, 0x81, 0x00, 0x00, 0x04)
	return append(b, 0x00, 0x00, 0x00, 0x00)
}

// streamInfoBody encodes the 34-byte stream-info block body.
func streamInfoBody(sampleRate uint32, bitDepth, channels uint8) []byte {
	body := make([]byte, 0, 34)
	body = append(body, 0x10, 0x00) // min block size 4096
	body = append(body, 0x10, 0x00) // max block size 4096
	body = append(body, 0x00, 0x00, 0x00) // min frame size unknown
	body = append(body, 0x00, 0x00, 0x00) // max frame size unknown
	// 20 bits sample rate, 3 bits channels-1, 5 bits bit depth-1,
	// 36 bits total samples (unknown).
	packed := uint64(sampleRate)<<44 |
		uint64(channels-1)<<41 |
		uint64(bitDepth-1)<<36
	var tail [8]byte
	binary.BigEndian.PutUint64(tail[:], packed)
	body = append(body, tail[:]...)
	var md5 [16]byte
	return append(body, md5[:]...)
}

// Frame encodes one complete audio frame holding the given stereo 16-bit
// samples, with valid header CRC-8 and footer CRC-16. num is the frame
// number; samples must hold between 1 and 256 pairs.
func Frame(num uint8, samples [][2]int16) []byte {
	if len(samples) == 0 || len(samples) > 256 {
		panic("flactest: frame needs 1 to 256 sample pairs")
	}
	if num > 0x7f {
		panic("flactest: frame number must fit a single UTF-8 byte")
	}
	b := []byte{
		0xff, 0xf8, // sync code, fixed block size strategy
		0x69, // block size from trailing 8-bit field, 44.1kHz
		0x18, // independent stereo, 16 bits per sample
		num,
		byte(len(samples) - 1),
	}
	b = append(b, crc8(b))
	for ch := 0; ch < 2; ch++ {
		b = append(b, 0x02) // verbatim subframe
		for _, s := range samples {
			v := uint16(s[ch])
			b = append(b, byte(v>>8), byte(v))
		}
	}
	c := crc16(b)
	return append(b, byte(c>>8), byte(c))
}

// crc8 is the FLAC frame header CRC: polynomial x^8 + x^2 + x + 1,
// initialized to zero, most significant bit first.
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// crc16 is the FLAC frame footer CRC: polynomial x^16 + x^15 + x^2 + 1,
// initialized to zero, most significant bit first.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x8005
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
