package dns

import (
	"encoding/binary"
	"fmt"
)

// RRHeader holds the fields common to every resource record: the owner
// name, class, and TTL. TYPE is not stored here since it is recovered
// from the concrete Record implementation's Type() method.
type RRHeader struct {
	Name  string
	Class uint16
	TTL   uint32
}

// NewRRHeader builds an RRHeader for a record owned by name, in the given
// class, with the given TTL in seconds.
func NewRRHeader(name string, class RecordClass, ttl uint32) RRHeader {
	return RRHeader{Name: name, Class: uint16(class), TTL: ttl}
}

// Record is the tagged-union interface implemented by every concrete RR
// kind (IPRecord, NameRecord, SOARecord, MXRecord, OpaqueRecord). Dispatch
// is by Go type switch, not a runtime registry.
type Record interface {
	Type() RecordType
	Header() RRHeader
	SetHeader(h RRHeader)
	MarshalRData() ([]byte, error)
	Marshal() ([]byte, error)
}

// RequiresGlue reports whether answering with r demands a glue record in
// the additional section (true for NS and CNAME targets only).
func RequiresGlue(r Record) bool {
	switch r.Type() {
	case TypeNS, TypeCNAME:
		return true
	default:
		return false
	}
}

// marshal assembles the common RR framing — owner name, TYPE, CLASS, TTL,
// RDLENGTH — around rdata, which the caller has already encoded for its own
// record kind. Every concrete Record's Marshal method calls this on its own
// header rather than going through a free-standing helper, since the framing
// is a property of the header (it owns Name, Class, and TTL) rather than of
// the record as a whole.
func (h RRHeader) marshal(t RecordType, rdata []byte) ([]byte, error) {
	if len(rdata) > 0xFFFF {
		return nil, fmt.Errorf("%w: RDATA too long (%d bytes)", ErrDNSError, len(rdata))
	}
	name, err := EncodeName(h.Name)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(name)+10+len(rdata))
	out = append(out, name...)
	out = binary.BigEndian.AppendUint16(out, uint16(t))
	out = binary.BigEndian.AppendUint16(out, h.Class)
	out = binary.BigEndian.AppendUint32(out, h.TTL)
	out = binary.BigEndian.AppendUint16(out, uint16(len(rdata)))
	out = append(out, rdata...)
	return out, nil
}

// CloneWithName returns a copy of r whose header name is name, leaving r
// itself untouched. Catalog records are shared across every query that
// matches them, so answering a question must never mutate the stored
// record's header in place — a fresh copy with the question's qname as
// owner is produced instead.
func CloneWithName(r Record, name string) Record {
	h := r.Header()
	h.Name = name
	switch rec := r.(type) {
	case *IPRecord:
		c := *rec
		c.H = h
		return &c
	case *NameRecord:
		c := *rec
		c.H = h
		return &c
	case *MXRecord:
		c := *rec
		c.H = h
		return &c
	case *SOARecord:
		c := *rec
		c.H = h
		return &c
	case *OpaqueRecord:
		c := *rec
		c.H = h
		return &c
	default:
		return r
	}
}

// ParseRecord parses one resource record (owner name, fixed fields, and
// RDATA) from msg at *off, advancing *off past it. RDATA is dispatched to
// a concrete Record implementation by TYPE.
func ParseRecord(msg []byte, off *int) (Record, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off+10 > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF reading RR fixed fields (RFC 1035 §4.1.3)", ErrDNSError)
	}
	typ := RecordType(binary.BigEndian.Uint16(msg[*off : *off+2]))
	class := binary.BigEndian.Uint16(msg[*off+2 : *off+4])
	ttl := binary.BigEndian.Uint32(msg[*off+4 : *off+8])
	rdlen := int(binary.BigEndian.Uint16(msg[*off+8 : *off+10]))
	*off += 10

	if rdlen < 0 || *off+rdlen > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF reading RDATA (RFC 1035 §4.1.3)", ErrDNSError)
	}
	rdataStart := *off

	var rec Record
	switch typ {
	case TypeA, TypeAAAA:
		rec, err = ParseIPRData(msg, off, rdlen)
	case TypeCNAME, TypeNS, TypePTR:
		rec, err = ParseNameRData(msg, off, rdataStart, rdlen, typ)
	case TypeSOA:
		rec, err = ParseSOARData(msg, off, rdataStart, rdlen)
	case TypeMX:
		rec, err = ParseMXRData(msg, off, rdataStart, rdlen)
	default:
		rec, err = ParseOpaqueRData(msg, off, rdlen, typ)
	}
	if err != nil {
		return nil, err
	}

	rec.SetHeader(RRHeader{Name: NormalizeName(name), Class: class, TTL: ttl})
	return rec, nil
}
