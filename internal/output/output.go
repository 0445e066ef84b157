// ABOUTME: Audio output using oto library
// ABOUTME: Plays normalized stereo float samples with software volume control
package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"

	"github.com/ebitengine/oto/v3"
)

// Output manages audio output
type Output struct {
	otoCtx *oto.Context
	volume int
	muted  bool
	ready  bool
}

// New creates an audio output
func New() *Output {
	return &Output{
		volume: 100,
		muted:  false,
	}
}

// Initialize sets up oto for stereo playback at the given sample rate
func (o *Output) Initialize(sampleRate int) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.ready = true

	log.Printf("Audio output initialized: %dHz, 2 channels", sampleRate)

	return nil
}

// Play converts n pairs from left/right into interleaved 16-bit PCM and
// queues them for playback
func (o *Output) Play(left, right []float32, n int) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	multiplier := getVolumeMultiplier(o.volume, o.muted)

	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		l := pcm16(left[i] * multiplier)
		r := pcm16(right[i] * multiplier)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(l))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(r))
	}

	player := o.otoCtx.NewPlayer(bytes.NewReader(buf))
	player.Play()

	return nil
}

// SetVolume sets the volume (0-100)
func (o *Output) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (o *Output) SetMuted(muted bool) {
	o.muted = muted
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume
func (o *Output) GetVolume() int {
	return o.volume
}

// IsMuted returns mute state
func (o *Output) IsMuted() bool {
	return o.muted
}

// Close closes the audio output
func (o *Output) Close() {
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
}

// pcm16 clamps a normalized sample into the signed 16-bit range
func pcm16(v float32) int16 {
	switch {
	case v >= 1.0:
		return 32767
	case v < -1.0:
		return -32768
	}
	return int16(v * 32768)
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	return float32(volume) / 100.0
}
