package dns

import (
	"fmt"
	"net"
)

// IPRecord represents a DNS A or AAAA record containing an IP address. The
// concrete type is not stored as a separate field: it is derived from the
// width of Addr, the same way the wire format itself carries no explicit
// A/AAAA discriminant beyond RDLENGTH.
type IPRecord struct {
	H    RRHeader
	Addr net.IP
}

// NewIPRecord creates a new IP record (A or AAAA based on address type).
func NewIPRecord(h RRHeader, addr net.IP) *IPRecord {
	return &IPRecord{H: h, Addr: addr}
}

// Type returns TypeA for IPv4 addresses, TypeAAAA for IPv6.
func (r *IPRecord) Type() RecordType {
	t, _, _ := packIP(r.Addr)
	return t
}

// Header returns the record header.
func (r *IPRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *IPRecord) SetHeader(h RRHeader) { r.H = h }

// Marshal serializes the full resource record (name, type, class, ttl,
// rdlength, rdata) to wire format.
func (r *IPRecord) Marshal() ([]byte, error) {
	rdata, err := r.MarshalRData()
	if err != nil {
		return nil, err
	}
	return r.H.marshal(r.Type(), rdata)
}

// MarshalRData marshals the IP address to wire format.
func (r *IPRecord) MarshalRData() ([]byte, error) {
	_, rdata, err := packIP(r.Addr)
	return rdata, err
}

// packIP classifies addr as A or AAAA and returns its packed RDATA bytes in
// one pass, so Type and MarshalRData don't each repeat the To4/To16 probing.
func packIP(addr net.IP) (RecordType, []byte, error) {
	if ip4 := addr.To4(); ip4 != nil {
		return TypeA, []byte(ip4), nil
	}
	if ip6 := addr.To16(); ip6 != nil {
		return TypeAAAA, []byte(ip6), nil
	}
	return 0, nil, fmt.Errorf("%w: invalid IP address", ErrDNSError)
}

// ParseIPRData parses A or AAAA record RDATA from wire format.
func ParseIPRData(msg []byte, off *int, rdlen int) (*IPRecord, error) {
	if rdlen != 4 && rdlen != 16 {
		return nil, fmt.Errorf("%w: A/AAAA record must be 4/16 bytes (RFC 1035 §3.4.1), got %d", ErrDNSError, rdlen)
	}
	if *off+rdlen > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF reading IP record (RFC 1035 §3.4.1)", ErrDNSError)
	}
	b := make([]byte, rdlen)
	copy(b, msg[*off:*off+rdlen])
	*off += rdlen
	return &IPRecord{Addr: net.IP(b)}, nil
}
