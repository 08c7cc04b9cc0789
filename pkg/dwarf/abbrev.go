package dwarf

// AttrSpec pairs an attribute with the form its value is encoded in,
// exactly as declared in an abbreviation declaration.
type AttrSpec struct {
	Attr Attr
	Form Form
}

// AbbrevDecl is one entry of an abbreviation table: the shape shared by
// every DIE that references this abbreviation code.
type AbbrevDecl struct {
	Code        uint64
	Tag         Tag
	HasChildren bool
	Attrs       []AttrSpec
}

// AbbrevTable is one compilation unit's abbreviation set, keyed by the
// abbreviation code each DIE's first ULEB128 field refers to.
type AbbrevTable struct {
	decls map[uint64]*AbbrevDecl
}

// Decl looks up an abbreviation declaration by code.
func (t *AbbrevTable) Decl(code uint64) (*AbbrevDecl, bool) {
	d, ok := t.decls[code]
	return d, ok
}

// DecodeAbbrevTable decodes one abbreviation set starting at offset off in
// the .debug_abbrev section, stopping at the terminating zero code. off
// must point at the first byte of the first abbreviation code in the set,
// which is also the value a compilation unit's debug_abbrev_offset names.
func DecodeAbbrevTable(section []byte, off int) (*AbbrevTable, error) {
	if off < 0 || off > len(section) {
		return nil, wrap(ErrOutOfRange, "abbrev offset %d out of range", off)
	}
	c := NewCursor(section[off:])
	table := &AbbrevTable{decls: make(map[uint64]*AbbrevDecl)}

	for {
		code, err := DecodeUleb128(c)
		if err != nil {
			return nil, wrap(ErrMalformed, "reading abbrev code: %v", err)
		}
		if code == 0 {
			return table, nil
		}
		if _, dup := table.decls[code]; dup {
			return nil, wrap(ErrMalformed, "duplicate abbrev code %d", code)
		}

		tag, err := DecodeUleb128(c)
		if err != nil {
			return nil, wrap(ErrMalformed, "reading abbrev %d tag: %v", code, err)
		}
		hasChildren, err := c.U8()
		if err != nil {
			return nil, wrap(ErrMalformed, "reading abbrev %d children flag: %v", code, err)
		}

		decl := &AbbrevDecl{Code: code, Tag: Tag(tag), HasChildren: hasChildren != 0}
		for {
			attr, err := DecodeUleb128(c)
			if err != nil {
				return nil, wrap(ErrMalformed, "reading abbrev %d attr: %v", code, err)
			}
			form, err := DecodeUleb128(c)
			if err != nil {
				return nil, wrap(ErrMalformed, "reading abbrev %d form: %v", code, err)
			}
			if attr == 0 && form == 0 {
				break
			}
			decl.Attrs = append(decl.Attrs, AttrSpec{Attr: Attr(attr), Form: Form(form)})
		}

		table.decls[code] = decl
	}
}
