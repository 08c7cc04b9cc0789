package dwarf

// AttrValue is one decoded (attribute, value) pair attached to an Entry.
type AttrValue struct {
	Attr  Attr
	Value Value
}

// Entry is one debugging information entry (DIE). Offset is the entry's
// byte offset within .debug_info, which is also the id other entries use
// to refer to it via FORM_ref* attributes — the tree has no pointer
// cycles, only offsets, so walking or looking anything up never needs
// more than a map.
type Entry struct {
	Offset   uint64
	Tag      Tag
	Attrs    []AttrValue
	Children []*Entry
}

// Attr looks up the value of attr on this entry, if present.
func (e *Entry) Attr(attr Attr) (Value, bool) {
	for _, av := range e.Attrs {
		if av.Attr == attr {
			return av.Value, true
		}
	}
	return Value{}, false
}

// Name returns the entry's DW_AT_name, or "" if it has none.
func (e *Entry) Name() string {
	if v, ok := e.Attr(AttrName); ok {
		return v.Str
	}
	return ""
}

// CU is one compilation unit: its header fields plus the DIE tree rooted
// at the unit's single top-level entry (normally a DW_TAG_compile_unit).
type CU struct {
	Offset       uint64 // offset of this CU's header in .debug_info
	Version      uint16
	AbbrevOffset uint64
	AddrSize     int

	Root     *Entry
	ByOffset map[uint64]*Entry
}

const cuHeaderLen = 11 // length(4) + version(2) + abbrev_offset(4) + addr_size(1)

// decodeCU decodes one compilation unit starting at byte offset cuOff in
// info. abbrevSection and strSection are the raw .debug_abbrev and
// .debug_str sections (str may be nil).
func decodeCU(info []byte, cuOff int, abbrevSection []byte, strSection []byte) (*CU, int, error) {
	if cuOff < 0 || cuOff+cuHeaderLen > len(info) {
		return nil, 0, wrap(ErrTruncated, "CU header at offset %d runs past .debug_info", cuOff)
	}

	hdr := NewCursor(info[cuOff:])
	length, err := hdr.U32()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading CU length at %d: %v", cuOff, err)
	}
	version, err := hdr.U16()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading CU version at %d: %v", cuOff, err)
	}
	abbrevOff, err := hdr.U32()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading CU abbrev_offset at %d: %v", cuOff, err)
	}
	addrSize, err := hdr.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading CU addr_size at %d: %v", cuOff, err)
	}

	bodyLen := int(length) - (cuHeaderLen - 4) // length excludes only its own 4 bytes
	if bodyLen < 0 {
		return nil, 0, wrap(ErrMalformed, "CU at %d has implausible length %d", cuOff, length)
	}
	cuEnd := cuOff + 4 + int(length)
	if cuEnd > len(info) {
		return nil, 0, wrap(ErrTruncated, "CU at %d claims length %d past end of .debug_info", cuOff, length)
	}
	bodyStart := cuOff + cuHeaderLen

	abbrevTable, err := DecodeAbbrevTable(abbrevSection, int(abbrevOff))
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "decoding abbrev table at %d for CU %d: %v", abbrevOff, cuOff, err)
	}

	cu := &CU{
		Offset:       uint64(cuOff),
		Version:      version,
		AbbrevOffset: uint64(abbrevOff),
		AddrSize:     int(addrSize),
		ByOffset:     make(map[uint64]*Entry),
	}

	body := NewCursor(info[bodyStart:cuEnd])
	var stack []*Entry

	for body.Len() > 0 {
		entryOff := uint64(bodyStart + body.Pos())
		code, err := DecodeUleb128(body)
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading abbrev code at %d: %v", entryOff, err)
		}
		if code == 0 {
			if len(stack) == 0 {
				return nil, 0, wrap(ErrMalformed, "CU %d: unmatched end-of-children marker at %d", cuOff, entryOff)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		decl, ok := abbrevTable.Decl(code)
		if !ok {
			return nil, 0, wrap(ErrMalformed, "CU %d: unknown abbrev code %d at %d", cuOff, code, entryOff)
		}

		entry := &Entry{Offset: entryOff, Tag: decl.Tag}
		for _, spec := range decl.Attrs {
			v, err := readAttr(body, spec.Form, int(addrSize), strSection)
			if err != nil {
				return nil, 0, wrap(ErrMalformed, "CU %d: entry %d attr %s: %w", cuOff, entryOff, spec.Attr, err)
			}
			entry.Attrs = append(entry.Attrs, AttrValue{Attr: spec.Attr, Value: v})
		}

		cu.ByOffset[entryOff] = entry
		if len(stack) == 0 {
			if cu.Root != nil {
				return nil, 0, wrap(ErrMalformed, "CU %d: more than one top-level entry", cuOff)
			}
			cu.Root = entry
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, entry)
		}

		if decl.HasChildren {
			stack = append(stack, entry)
		}
	}

	if cu.Root == nil {
		return nil, 0, wrap(ErrMalformed, "CU %d: no top-level entry", cuOff)
	}

	return cu, cuEnd, nil
}
