package server

import (
	"context"
	"log/slog"

	"github.com/fenwick-dns/dnsd/internal/dns"
	"github.com/fenwick-dns/dnsd/internal/resolve"
	"github.com/google/uuid"
)

// dispatch runs the full per-query decision chain against reqBytes and
// always returns wire-format bytes to send back (SERVFAIL/FORMERR/etc are
// folded into the response rather than returned as an error). It returns
// nil only when even a best-effort error response cannot be built.
//
// Steps, matching the data flow a raw datagram follows:
//  1. If the datagram is already a DNS response (QR=1), it is echoed back
//     unmodified rather than processed as a query.
//  2. Parse and bounds-check the request.
//  3. Reject unsupported features (wrong opcode, reserved bits, TC, multi-
//     question) with the matching RCODE.
//  4. Try to resolve from the local catalog.
//  5. On a catalog miss, forward to upstreams; SERVFAIL if all fail.
func (s *Server) dispatch(ctx context.Context, reqBytes []byte) []byte {
	qid := uuid.NewString()
	logger := s.Logger.With("qid", qid)

	if looksLikeResponse(reqBytes) {
		logger.Debug("inbound datagram is already a response, echoing unmodified")
		return reqBytes
	}

	req, err := dns.ParseRequestBounded(reqBytes)
	if err != nil {
		logger.Warn("malformed request", "error", err)
		return tryBuildErrorFromRaw(reqBytes, uint16(dns.RCodeFormErr))
	}

	logger = logger.With("id", req.Header.ID)
	if len(req.Questions) > 0 {
		logger = logger.With("qname", req.Questions[0].Name, "qtype", req.Questions[0].Type)
	}

	var q0 dns.Question
	if len(req.Questions) > 0 {
		q0 = req.Questions[0]
	}
	if rcode, ok := dns.CheckUnsupportedFeatures(req.Header, q0); !ok {
		logger.Debug("unsupported feature", "rcode", rcode.String())
		return mustMarshal(logger, dns.BuildErrorResponse(req, uint16(rcode)))
	}

	if resolve.TryResolve(s.Catalog, &req) {
		logger.Debug("resolved from catalog")
		return mustMarshal(logger, req)
	}

	if resp, ok := s.forward(ctx, logger, req, reqBytes); ok {
		return resp
	}

	logger.Warn("all upstreams failed")
	return mustMarshal(logger, dns.BuildErrorResponse(req, uint16(dns.RCodeServFail)))
}

// looksLikeResponse peeks at the flags word without a full parse, so a
// looped-back response never gets misparsed into a FORMERR reply.
func looksLikeResponse(msg []byte) bool {
	if len(msg) < 4 {
		return false
	}
	flags := uint16(msg[2])<<8 | uint16(msg[3])
	return flags&dns.QRFlag != 0
}

// mustMarshal serializes p, logging and returning nil on the (unexpected)
// marshal failure rather than panicking across the worker boundary.
func mustMarshal(logger *slog.Logger, p dns.Packet) []byte {
	b, err := p.Marshal()
	if err != nil {
		logger.Warn("marshal failure", "error", err)
		return nil
	}
	return b
}

// tryBuildErrorFromRaw extracts just enough of a malformed request (header,
// and the question if present) to answer with a valid, transaction-id-
// preserving error response. Returns nil if even the header is unreadable.
func tryBuildErrorFromRaw(reqBytes []byte, rcode uint16) []byte {
	off := 0
	h, err := dns.ParseHeader(reqBytes, &off)
	if err != nil {
		return nil
	}

	var questions []dns.Question
	if h.QDCount > 0 {
		q, err := dns.ParseQuestion(reqBytes, &off)
		if err == nil {
			questions = []dns.Question{q}
		}
	}

	p := dns.Packet{Header: dns.Header{ID: h.ID, Flags: h.Flags}, Questions: questions}
	b, err := dns.BuildErrorResponse(p, rcode).Marshal()
	if err != nil {
		return nil
	}
	return b
}
