// ABOUTME: WebSocket chunk source for remote FLAC streams
// ABOUTME: Handles connection, hello handshake, and binary chunk delivery
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSConfig holds websocket source configuration
type WSConfig struct {
	ServerAddr string // host:port
	Name       string // friendly client name sent in the hello
}

// Hello is the single JSON message sent after connecting, identifying the
// client to the stream server.
type Hello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Format   string `json:"format"` // always "flac"
}

// WSSource receives a FLAC bitstream as binary websocket messages, each
// message becoming one chunk for the decoder.
type WSSource struct {
	config WSConfig
	conn   *websocket.Conn
	mu     sync.Mutex

	chunks chan []byte
	err    error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWSSource creates a websocket source
func NewWSSource(config WSConfig) *WSSource {
	ctx, cancel := context.WithCancel(context.Background())

	return &WSSource{
		config: config,
		chunks: make(chan []byte, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect establishes the connection, sends the hello, and starts the
// message reader.
func (s *WSSource) Connect() error {
	u := url.URL{Scheme: "ws", Host: s.config.ServerAddr, Path: "/stream"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	hello := Hello{
		ClientID: uuid.New().String(),
		Name:     s.config.Name,
		Format:   "flac",
	}
	if err := s.sendJSON(hello); err != nil {
		s.Close()
		return fmt.Errorf("failed to send hello: %w", err)
	}

	go s.readMessages()

	return nil
}

// Chunks returns the channel of byte chunks. It is closed when the
// connection ends; check Err afterwards.
func (s *WSSource) Chunks() <-chan []byte {
	return s.chunks
}

// Err returns the error that ended the connection, if any.
func (s *WSSource) Err() error {
	return s.err
}

// Close tears down the connection.
func (s *WSSource) Close() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// sendJSON marshals and sends a message
func (s *WSSource) sendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// readMessages delivers binary messages as chunks until the connection
// drops
func (s *WSSource) readMessages() {
	defer close(s.chunks)

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.ctx.Done():
			default:
				s.err = err
				log.Printf("Read error: %v", err)
			}
			return
		}

		if msgType != websocket.BinaryMessage {
			// Control traffic from the server is logged and skipped; only
			// binary frames carry bitstream bytes.
			log.Printf("Ignoring non-binary message (%d bytes)", len(data))
			continue
		}

		select {
		case s.chunks <- data:
		case <-s.ctx.Done():
			return
		}
	}
}
