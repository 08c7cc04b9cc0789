package dwarf

// AddressRange is one (address, length) tuple of an address-range table:
// the instructions in [Address, Address+Length) belong to the owning CU.
type AddressRange struct {
	Address uint64
	Length  uint64
}

// ArangeTable is one decoded .debug_aranges unit, mapping a contiguous
// set of address ranges back to the compilation unit that owns them.
type ArangeTable struct {
	Offset     uint64
	Version    uint16
	InfoOffset uint64
	AddrSize   int
	SegSize    int
	Ranges     []AddressRange
}

const arangesHeaderLen = 12 // length(4) + version(2) + info_offset(4) + addr_size(1) + seg_size(1)

// DecodeArangesUnit decodes one .debug_aranges unit starting at byte
// offset off, returning the table and the offset of the unit following
// it.
func DecodeArangesUnit(section []byte, off int) (*ArangeTable, int, error) {
	if off < 0 || off+arangesHeaderLen > len(section) {
		return nil, 0, wrap(ErrTruncated, "aranges header at %d runs past section end", off)
	}

	c := NewCursor(section[off:])
	length, err := c.U32()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading aranges unit_length at %d: %v", off, err)
	}
	unitEnd := off + 4 + int(length)
	if unitEnd > len(section) {
		return nil, 0, wrap(ErrTruncated, "aranges unit at %d claims length %d past section end", off, length)
	}

	t := &ArangeTable{Offset: uint64(off)}

	t.Version, err = c.U16()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading aranges version at %d: %v", off, err)
	}
	infoOff, err := c.U32()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading aranges info_offset at %d: %v", off, err)
	}
	t.InfoOffset = uint64(infoOff)
	addrSize, err := c.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading aranges address_size at %d: %v", off, err)
	}
	t.AddrSize = int(addrSize)
	segSize, err := c.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading aranges segment_size at %d: %v", off, err)
	}
	t.SegSize = int(segSize)

	if t.AddrSize != 4 && t.AddrSize != 8 {
		return nil, 0, wrap(ErrMalformed, "aranges unit at %d has unsupported address_size %d", off, t.AddrSize)
	}

	tupleSize := 2 * t.AddrSize
	absolutePos := off + arangesHeaderLen
	if pad := (tupleSize - absolutePos%tupleSize) % tupleSize; pad > 0 {
		if err := c.Skip(pad); err != nil {
			return nil, 0, wrap(ErrTruncated, "skipping aranges padding at %d: %v", off, err)
		}
	}

	for {
		addr, err := c.Addr(t.AddrSize)
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading arange address at unit %d: %v", off, err)
		}
		length, err := c.Addr(t.AddrSize)
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading arange length at unit %d: %v", off, err)
		}
		if addr == 0 && length == 0 {
			break
		}
		t.Ranges = append(t.Ranges, AddressRange{Address: addr, Length: length})
	}

	return t, unitEnd, nil
}

// FindCU returns the InfoOffset of the CU whose range covers pc, across
// all decoded arange tables, or ok=false if none does.
func FindCU(tables []*ArangeTable, pc uint64) (infoOffset uint64, ok bool) {
	for _, t := range tables {
		for _, r := range t.Ranges {
			if pc >= r.Address && pc < r.Address+r.Length {
				return t.InfoOffset, true
			}
		}
	}
	return 0, false
}
