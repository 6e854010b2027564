package server

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/fenwick-dns/dnsd/internal/cache"
	"github.com/fenwick-dns/dnsd/internal/dns"
)

const (
	// upstreamTimeout is the fixed, non-configurable per-upstream receive
	// timeout. A production system might make this configurable or adapt
	// it to observed latency; this one doesn't.
	upstreamTimeout = 2 * time.Second

	// forwardCacheTTL is the hard-coded TTL applied to every cached
	// forwarded response, regardless of the upstream answer's actual TTL
	// or SOA minimum. A correct implementation would parse the response's
	// minimum RR TTL instead.
	forwardCacheTTL = 3600 * time.Second

	// maxUpstreamResponseSize bounds how much of an upstream's UDP reply
	// this server will read. It is independent of dns.MaxIncomingDNSMessageSize
	// (the inbound-query cap, which is a protocol rule, RFC 1035 §2.3.4):
	// an upstream may legitimately answer with an EDNS0-sized UDP response
	// well over 512 bytes, so this buffer stays generous rather than
	// reusing the client-facing limit.
	maxUpstreamResponseSize = 4096
)

// forward implements the forwarding fallback: try each upstream in
// configured order, consulting the cache before any network I/O. It
// returns the response bytes and true on success, or false if every
// upstream failed (or none are configured).
func (s *Server) forward(ctx context.Context, logger *slog.Logger, req dns.Packet, reqBytes []byte) ([]byte, bool) {
	if len(req.Questions) == 0 {
		return nil, false
	}
	q := req.Questions[0]
	qname := normalizeName(q.Name)
	qtype := dns.RecordType(q.Type).String()

	for _, upstream := range s.Upstreams {
		key := cache.Key{QName: qname, QType: qtype, Upstream: upstream}

		if cached, ok := s.Cache.Get(key); ok {
			patched := patchTransactionID(cached, req.Header.ID)
			logger.Debug("forward cache hit", "upstream", upstream)
			return patched, true
		}

		resp, err := queryUpstream(ctx, upstream, reqBytes)
		if err != nil {
			logger.Warn("upstream query failed", "upstream", upstream, "error", err)
			continue
		}

		s.Cache.Set(key, patchTransactionID(resp, 0), forwardCacheTTL)
		return patchTransactionID(resp, req.Header.ID), true
	}

	return nil, false
}

// queryUpstream sends reqBytes to upstream:53 over UDP and returns the raw
// response, or an error on any timeout or I/O failure. The socket is
// ephemeral: dialed fresh for this one query and closed via defer on every
// exit path.
func queryUpstream(ctx context.Context, upstream string, reqBytes []byte) ([]byte, error) {
	addr := upstream
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, "53")
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(upstreamTimeout)); err != nil {
		return nil, err
	}

	if _, err := conn.Write(reqBytes); err != nil {
		return nil, err
	}

	buf := make([]byte, maxUpstreamResponseSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// normalizeName lowercases qname and strips a trailing dot, matching the
// catalog's own normalization so cache keys agree regardless of how a
// client terminated its query name.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// patchTransactionID replaces the first two bytes (the transaction id,
// big-endian) of a wire message. Cached responses are stored with txid=0;
// the cache key (qname+qtype+upstream) is what determines a hit, never the
// stored id. On return to a client, the id is patched back to the inbound
// query's own id so the reply always matches what the client expects.
func patchTransactionID(msg []byte, txid uint16) []byte {
	if len(msg) < 2 {
		return msg
	}
	if msg[0] == byte(txid>>8) && msg[1] == byte(txid) {
		return msg
	}
	out := make([]byte, len(msg))
	copy(out, msg)
	out[0] = byte(txid >> 8)
	out[1] = byte(txid)
	return out
}
