package dns

import "encoding/binary"

// Header is the fixed 12-byte DNS message header (RFC 1035 §4.1.1): a
// transaction ID, the flags word (QR/Opcode/AA/TC/RD/RA/Z/RCODE — see
// enums.go), and the four section counts.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Marshal serializes the header to wire format (big-endian, 12 bytes).
func (h Header) Marshal() ([]byte, error) {
	b := make([]byte, 0, HeaderSize)
	b = binary.BigEndian.AppendUint16(b, h.ID)
	b = binary.BigEndian.AppendUint16(b, h.Flags)
	b = binary.BigEndian.AppendUint16(b, h.QDCount)
	b = binary.BigEndian.AppendUint16(b, h.ANCount)
	b = binary.BigEndian.AppendUint16(b, h.NSCount)
	b = binary.BigEndian.AppendUint16(b, h.ARCount)
	return b, nil
}

// ParseHeader reads the 12-byte header at *off, advancing *off past it.
func ParseHeader(msg []byte, off *int) (Header, error) {
	c := newCursor(msg, off)

	id, err := c.uint16("DNS header ID")
	if err != nil {
		return Header{}, err
	}
	flags, err := c.uint16("DNS header flags")
	if err != nil {
		return Header{}, err
	}
	qd, err := c.uint16("DNS header QDCOUNT")
	if err != nil {
		return Header{}, err
	}
	an, err := c.uint16("DNS header ANCOUNT")
	if err != nil {
		return Header{}, err
	}
	ns, err := c.uint16("DNS header NSCOUNT")
	if err != nil {
		return Header{}, err
	}
	ar, err := c.uint16("DNS header ARCOUNT")
	if err != nil {
		return Header{}, err
	}

	return Header{ID: id, Flags: flags, QDCount: qd, ANCount: an, NSCount: ns, ARCount: ar}, nil
}
