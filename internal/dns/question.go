package dns

import "encoding/binary"

// Question is one entry of a DNS question section (RFC 1035 §4.1.2): the
// name being asked about, the record type wanted, and the class (almost
// always IN).
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// Marshal serializes the question to DNS wire format.
func (q Question) Marshal() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, len(name)+4)
	b = append(b, name...)
	b = binary.BigEndian.AppendUint16(b, q.Type)
	b = binary.BigEndian.AppendUint16(b, q.Class)
	return b, nil
}

// ParseQuestion reads one question at *off, advancing *off past it. The
// name is normalized to lowercase, dot-trimmed form so every later
// comparison against a catalog owner or a cache key is case-insensitive by
// construction rather than by convention at each call site.
func ParseQuestion(msg []byte, off *int) (Question, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, err
	}

	c := newCursor(msg, off)
	typ, err := c.uint16("DNS question TYPE")
	if err != nil {
		return Question{}, err
	}
	class, err := c.uint16("DNS question CLASS")
	if err != nil {
		return Question{}, err
	}

	return Question{Name: NormalizeName(name), Type: typ, Class: class}, nil
}
