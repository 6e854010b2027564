package dns

import (
	"encoding/binary"
	"fmt"
)

// cursor reads fixed-width, big-endian fields out of a wire-format buffer,
// advancing a caller-owned offset as it goes. Header and Question both
// decode their trailing fixed fields through one of these instead of
// indexing msg by hand at each call site.
type cursor struct {
	msg []byte
	off *int
}

func newCursor(msg []byte, off *int) cursor {
	return cursor{msg: msg, off: off}
}

func (c cursor) need(n int, field string) error {
	if *c.off+n > len(c.msg) {
		return fmt.Errorf("%w: unexpected EOF reading %s", ErrDNSError, field)
	}
	return nil
}

func (c cursor) uint16(field string) (uint16, error) {
	if err := c.need(2, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.msg[*c.off : *c.off+2])
	*c.off += 2
	return v, nil
}

func (c cursor) uint32(field string) (uint32, error) {
	if err := c.need(4, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.msg[*c.off : *c.off+4])
	*c.off += 4
	return v, nil
}
