package dwarf

// DecodeUleb128 reads an unsigned LEB128 value: a sequence of bytes where
// the low 7 bits of each byte contribute to the result and the high bit
// marks continuation. Decoding always proceeds to full 64-bit width and
// bits past the 64th are dropped; the callers in this package convert the
// result to narrower types without a range check. On error the cursor is
// left at the position where decoding started.
func DecodeUleb128(c *Cursor) (uint64, error) {
	var result uint64
	var shift uint
	start := c.pos
	for {
		b, err := c.U8()
		if err != nil {
			c.pos = start
			return 0, err
		}
		if shift < 64 {
			result |= uint64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			return result, nil
		}
	}
}

// DecodeSleb128 reads a signed LEB128 value, sign-extending from the last
// 7-bit group read.
func DecodeSleb128(c *Cursor) (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = c.U8()
		if err != nil {
			return 0, err
		}
		if shift < 64 {
			result |= int64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}
