// ABOUTME: Entry point for the FLACStream player
// ABOUTME: Feeds chunked FLAC input through the streaming decoder into audio output
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/flacstream/flacstream-go/internal/discovery"
	"github.com/flacstream/flacstream-go/internal/output"
	"github.com/flacstream/flacstream-go/internal/source"
	"github.com/flacstream/flacstream-go/internal/ui"
	"github.com/flacstream/flacstream-go/internal/version"
	"github.com/flacstream/flacstream-go/pkg/flacstream"
)

var (
	filePath   = flag.String("file", "", "Local FLAC file to play")
	serverAddr = flag.String("server", "", "Stream server address (host:port); empty with no -file triggers mDNS discovery")
	chunkSize  = flag.Int("chunk", 4096, "Chunk size in bytes for file input")
	blockSize  = flag.Int("block", 4096, "Pull block size in sample pairs")
	volume     = flag.Int("volume", 100, "Initial volume (0-100)")
	logFile    = flag.String("log-file", "flacstream-player.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

// chunkSource is the part of a source the decode loop needs.
type chunkSource interface {
	Chunks() <-chan []byte
	Err() error
	Close()
}

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	src, sourceName, err := openSource()
	if err != nil {
		log.Fatalf("Failed to open source: %v", err)
	}
	defer src.Close()

	out := output.New()
	out.SetVolume(*volume)
	defer out.Close()

	// TUI setup
	var tuiProg *tea.Program
	var volumeCtrl *ui.VolumeControl
	if useTUI {
		volumeCtrl = ui.NewVolumeControl()
		tuiProg, err = ui.Run(volumeCtrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	if volumeCtrl != nil {
		go handleVolumeControl(out, volumeCtrl)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- play(src, sourceName, out, updateTUI)
	}()

	var quit chan ui.QuitMsg
	if volumeCtrl != nil {
		quit = volumeCtrl.Quit
	}

	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("Playback failed: %v", err)
		}
		log.Printf("Playback finished")
	case <-quit:
		log.Printf("Received quit signal from TUI")
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}

	if tuiProg != nil {
		tuiProg.Quit()
	}
	log.Printf("Player stopped")
}

// openSource picks the byte source from flags: local file, explicit server,
// or a discovered one.
func openSource() (chunkSource, string, error) {
	if *filePath != "" {
		src, err := source.NewFileSource(*filePath, *chunkSize)
		return src, *filePath, err
	}

	addr := *serverAddr
	if addr == "" {
		log.Printf("Starting server discovery...")
		browser := discovery.NewBrowser()
		browser.Browse()
		defer browser.Stop()

		select {
		case server := <-browser.Servers():
			addr = fmt.Sprintf("%s:%d", server.Host, server.Port)
			log.Printf("Discovered server at %s", addr)
		case <-time.After(10 * time.Second):
			return nil, "", fmt.Errorf("no server found after 10 seconds")
		}
	}

	src := source.NewWSSource(source.WSConfig{
		ServerAddr: addr,
		Name:       version.Product,
	})
	if err := src.Connect(); err != nil {
		return nil, "", err
	}
	return src, addr, nil
}

// play drives the decode loop: accumulate the container header, then push
// every chunk and pull fixed blocks into the audio output.
func play(src chunkSource, sourceName string, out *output.Output, updateTUI func(ui.StatusMsg)) error {
	var bytesPushed, samplesDecoded, pairsPlayed int64

	dec, header, err := awaitDecoder(src)
	if err != nil {
		return err
	}
	bytesPushed = int64(header)

	log.Printf("Stream: %dHz, %d-bit", dec.SampleRate(), dec.BitDepth())
	if err := out.Initialize(int(dec.SampleRate())); err != nil {
		return err
	}

	playing := true
	updateTUI(ui.StatusMsg{
		SourceName: sourceName,
		Playing:    &playing,
		SampleRate: int(dec.SampleRate()),
		BitDepth:   int(dec.BitDepth()),
	})

	drain := func(minPairs int) error {
		for dec.Buffered() >= minPairs && dec.Buffered() > 0 {
			n := dec.Pull(*blockSize)
			if n == 0 {
				break
			}
			if err := out.Play(dec.Left(), dec.Right(), n); err != nil {
				return err
			}
			pairsPlayed += int64(n)
		}
		return nil
	}

	for chunk := range src.Chunks() {
		n, err := dec.Push(chunk)
		if err != nil {
			return fmt.Errorf("decode failed after %d bytes: %w", bytesPushed, err)
		}
		bytesPushed += int64(len(chunk))
		samplesDecoded += int64(n)

		// Keep a block's worth queued so playback never starves mid-chunk.
		if err := drain(*blockSize); err != nil {
			return err
		}

		updateTUI(ui.StatusMsg{
			BytesPushed:    bytesPushed,
			SamplesDecoded: samplesDecoded,
			PairsPlayed:    pairsPlayed,
			QueueDepth:     dec.Buffered(),
			PendingBytes:   dec.PendingBytes(),
		})
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("source failed: %w", err)
	}

	// End of stream: flush whatever is queued.
	if err := drain(1); err != nil {
		return err
	}
	if dec.PendingBytes() > 0 {
		log.Printf("Stream ended with %d unconsumed bytes", dec.PendingBytes())
	}

	log.Printf("Decoded %d samples, played %d pairs", samplesDecoded, pairsPlayed)
	return nil
}

// awaitDecoder accumulates chunks until the container header is complete
// and the decoder can be constructed. Returns the decoder and the number
// of bytes consumed from the source.
func awaitDecoder(src chunkSource) (*flacstream.Decoder, int, error) {
	var header []byte
	for chunk := range src.Chunks() {
		header = append(header, chunk...)
		dec, err := flacstream.New(header)
		if err == nil {
			return dec, len(header), nil
		}
		if !errors.Is(err, flacstream.ErrShortHeader) {
			return nil, 0, err
		}
	}
	if err := src.Err(); err != nil {
		return nil, 0, fmt.Errorf("source failed: %w", err)
	}
	return nil, 0, fmt.Errorf("stream ended before the container header completed")
}

// handleVolumeControl processes volume changes from the TUI
func handleVolumeControl(out *output.Output, volumeCtrl *ui.VolumeControl) {
	for vol := range volumeCtrl.Changes {
		out.SetVolume(vol.Volume)
		out.SetMuted(vol.Muted)
	}
}
