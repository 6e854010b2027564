// Package server implements the UDP query/dispatch engine: a single
// acceptor goroutine reading inbound datagrams, one detached worker
// goroutine per datagram, local catalog resolution, and forwarding
// fallback with caching.
//
// Goroutine Model:
//
//   - One acceptor goroutine blocks on ReadFromUDP against the bound socket.
//   - Each inbound datagram spawns its own worker goroutine; there is no
//     fixed worker pool and no admission control. This is a known scale
//     limitation, not an oversight: a flood of datagrams spawns a matching
//     flood of goroutines.
//   - A worker opens its own ephemeral UDP socket when it needs to forward,
//     released via defer on every exit path.
//
// Error Handling:
//
// Errors are wrapped with fmt.Errorf("...: %w", err) where context helps;
// protocol-level failures never panic across the worker boundary — they
// are folded into the DNS response (FORMERR/NOTIMP/REFUSED/SERVFAIL)
// instead of surfaced as Go errors.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/fenwick-dns/dnsd/internal/cache"
	"github.com/fenwick-dns/dnsd/internal/catalog"
)

// maxDatagramSize bounds the buffer used for each ReadFromUDP call. Queries
// arrive as plain UDP datagrams; EDNS-sized payloads are out of scope.
const maxDatagramSize = 512

// Server holds the dependencies shared across every inbound query: the
// immutable zone catalog, the forward-response cache, and the ordered list
// of upstream resolvers to try on a catalog miss.
type Server struct {
	Catalog   *catalog.Catalog
	Cache     *cache.Cache
	Upstreams []string
	Logger    *slog.Logger
}

// New builds a Server. logger must not be nil.
func New(cat *catalog.Catalog, c *cache.Cache, upstreams []string, logger *slog.Logger) *Server {
	return &Server{Catalog: cat, Cache: c, Upstreams: upstreams, Logger: logger}
}

// ListenAndServe binds a UDP socket at addr (host:port) and runs the accept
// loop until ctx is canceled or the socket fails irrecoverably.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	return s.Serve(ctx, conn)
}

// Serve runs the accept loop against an already-bound connection. Split out
// from ListenAndServe so tests can drive the loop against a loopback socket
// without claiming a well-known port.
func (s *Server) Serve(ctx context.Context, conn *net.UDPConn) error {
	for {
		buf := make([]byte, maxDatagramSize)
		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.Logger.Warn("udp read error", "error", err)
			continue
		}

		payload := buf[:n]
		go s.handleDatagram(ctx, conn, peer, payload)
	}
}

// handleDatagram is the body of a per-datagram worker goroutine: dispatch
// the query to a response and write it back to the peer that sent it.
func (s *Server) handleDatagram(ctx context.Context, conn *net.UDPConn, peer *net.UDPAddr, payload []byte) {
	resp := s.dispatch(ctx, payload)
	if resp == nil {
		return
	}
	if _, err := conn.WriteToUDP(resp, peer); err != nil {
		s.Logger.Warn("udp write error", "peer", peer.String(), "error", err)
	}
}
