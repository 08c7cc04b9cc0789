package dwarf

import "encoding/binary"

// Cursor is a bounds-checked sequential reader over a borrowed byte slice.
// It never copies: multi-byte and string reads return sub-slices of the
// backing array, which is why every DWARF section handed to Open must
// outlive the *Data built from it.
//
// Errors are sticky, the same discipline debug/dwarf's internal cursor
// uses: once a read runs past the end of the slice, every subsequent read
// on the same Cursor fails immediately without touching pos, so a caller
// can run a whole decode routine and check Err once at the end instead of
// threading an error return through every step. Individual read methods
// still return the error directly for callers (like the line-program
// interpreter) that need to react immediately.
type Cursor struct {
	data []byte
	pos  int
	err  error
}

// NewCursor wraps data for sequential reading starting at offset 0.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current read offset into the backing slice.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of unread bytes remaining.
func (c *Cursor) Len() int { return len(c.data) - c.pos }

// Err returns the first error encountered by this Cursor, if any.
func (c *Cursor) Err() error { return c.err }

// fail records err as the Cursor's sticky error (if none is set yet) and
// returns it. pos is left untouched by design.
func (c *Cursor) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

func (c *Cursor) require(n int) error {
	if c.err != nil {
		return c.err
	}
	if n < 0 || c.pos+n > len(c.data) {
		return c.fail(wrap(ErrTruncated, "need %d bytes at offset %d, have %d", n, c.pos, len(c.data)-c.pos))
	}
	return nil
}

// U8 reads one byte.
func (c *Cursor) U8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// U64 reads a little-endian uint64.
func (c *Cursor) U64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

// I8 reads one signed byte.
func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

// Addr reads a little-endian address of the given width (4 or 8 bytes).
func (c *Cursor) Addr(size int) (uint64, error) {
	switch size {
	case 4:
		v, err := c.U32()
		return uint64(v), err
	case 8:
		return c.U64()
	default:
		return 0, c.fail(wrap(ErrMalformed, "unsupported address size %d", size))
	}
}

// Bytes reads n bytes and returns them as a sub-slice of the backing
// array, without copying.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// CString reads a NUL-terminated byte run and returns it as a sub-slice,
// excluding the terminator, advancing the Cursor past the terminator.
func (c *Cursor) CString() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	start := c.pos
	for p := c.pos; p < len(c.data); p++ {
		if c.data[p] == 0 {
			c.pos = p + 1
			return c.data[start:p], nil
		}
	}
	return nil, c.fail(wrap(ErrTruncated, "unterminated string starting at offset %d", start))
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}
