// ABOUTME: mDNS discovery of FLAC stream servers
// ABOUTME: Browses for _flacstream-server._tcp and reports discovered endpoints
package discovery

import (
	"context"
	"log"

	"github.com/hashicorp/mdns"
)

const serviceType = "_flacstream-server._tcp"

// ServerInfo describes a discovered stream server
type ServerInfo struct {
	Name string
	Host string
	Port int
}

// Browser searches the local network for stream servers
type Browser struct {
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo
}

// NewBrowser creates a browser
func NewBrowser() *Browser {
	ctx, cancel := context.WithCancel(context.Background())

	return &Browser{
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),
	}
}

// Browse starts searching for stream servers
func (b *Browser) Browse() {
	go b.browseLoop()
}

// browseLoop continuously queries for servers
func (b *Browser) browseLoop() {
	for {
		select {
		case <-b.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}
				server := &ServerInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("Discovered server: %s at %s:%d", server.Name, server.Host, server.Port)

				select {
				case b.servers <- server:
				case <-b.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: serviceType,
			Domain:  "local",
			Timeout: 3,
			Entries: entries,
		}

		mdns.Query(params)
		close(entries)
	}
}

// Servers returns the channel of discovered servers
func (b *Browser) Servers() <-chan *ServerInfo {
	return b.servers
}

// Stop stops browsing
func (b *Browser) Stop() {
	b.cancel()
}
