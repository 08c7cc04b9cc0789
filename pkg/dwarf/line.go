package dwarf

import "github.com/eskaton/thyrion/pkg/utils"

// FileEntry is one entry of a line-number program's file table. Index 0
// is reserved; real files are numbered starting at 1, matching the
// DW_LNS_set_file / DW_AT_decl_file convention.
type FileEntry struct {
	Name     string
	DirIndex int
	Mtime    uint64
	Length   uint64
}

// LineRow is one row of a line-number program's matrix: the mapping from
// an address to a source position at the moment the row was appended.
type LineRow struct {
	Address       uint64
	File          int
	Line          int
	Column        int
	IsStmt        bool
	BasicBlock    bool
	EndSequence   bool
	PrologueEnd   bool
	EpilogueBegin bool
}

// LineProgram is one decoded .debug_line unit: its prologue plus the
// matrix of rows the state machine emitted while running it.
type LineProgram struct {
	Offset      uint64
	Version     uint16
	MinInstLen  int
	DefaultStmt bool
	LineBase    int
	LineRange   int
	OpcodeBase  int
	StdOpLens   []int

	IncludeDirs []string
	Files       []FileEntry

	Rows []LineRow
}

// FileName returns the name registered for a 1-based file index, or ""
// if the index is out of range.
func (p *LineProgram) FileName(index int) string {
	if index < 1 || index > len(p.Files) {
		return ""
	}
	return p.Files[index-1].Name
}

type lineSM struct {
	address       uint64
	file          int
	line          int
	column        int
	isStmt        bool
	basicBlock    bool
	endSequence   bool
	prologueEnd   bool
	epilogueBegin bool
}

func newLineSM(defaultIsStmt bool) lineSM {
	// The initial value of the line register is 1, not default_is_stmt:
	// line and is_stmt are independent registers and only is_stmt takes
	// its initial value from the prologue.
	return lineSM{file: 1, line: 1, isStmt: defaultIsStmt}
}

// DecodeLineProgram decodes one .debug_line unit starting at byte offset
// off, returning the program and the offset of the byte following it
// (off + 4 + unit_length).
func DecodeLineProgram(section []byte, off int, addrSize int) (*LineProgram, int, error) {
	if off < 0 || off > len(section) {
		return nil, 0, wrap(ErrOutOfRange, "line program offset %d out of range", off)
	}

	hdr := NewCursor(section[off:])
	unitLength, err := hdr.U32()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading line unit_length at %d: %v", off, err)
	}
	unitEnd := off + 4 + int(unitLength)
	if unitEnd > len(section) {
		return nil, 0, wrap(ErrTruncated, "line unit at %d claims length %d past section end", off, unitLength)
	}

	p := &LineProgram{Offset: uint64(off)}

	p.Version, err = hdr.U16()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading line version at %d: %v", off, err)
	}

	prologueLength, err := hdr.U32()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading prologue_length at %d: %v", off, err)
	}
	prologueEndOff := hdr.Pos() + int(prologueLength)

	minInst, err := hdr.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading minimum_instruction_length: %v", err)
	}
	p.MinInstLen = int(minInst)

	defaultStmt, err := hdr.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading default_is_stmt: %v", err)
	}
	p.DefaultStmt = defaultStmt != 0

	lineBase, err := hdr.I8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading line_base: %v", err)
	}
	p.LineBase = int(lineBase)

	lineRange, err := hdr.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading line_range: %v", err)
	}
	p.LineRange = int(lineRange)
	if p.LineRange == 0 {
		return nil, 0, wrap(ErrMalformed, "line_range is 0 at %d", off)
	}

	opcodeBase, err := hdr.U8()
	if err != nil {
		return nil, 0, wrap(ErrMalformed, "reading opcode_base: %v", err)
	}
	p.OpcodeBase = int(opcodeBase)

	p.StdOpLens = make([]int, p.OpcodeBase-1)
	for i := range p.StdOpLens {
		n, err := hdr.U8()
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading standard_opcode_lengths[%d]: %v", i, err)
		}
		// Each length is a full byte (no opcode ever takes more than a
		// handful of operands), but we read it through a BitView like the
		// rest of this decoder's single-byte counts, rather than a bare
		// numeric cast.
		view := utils.CreateBitView(&n)
		p.StdOpLens[i] = int(view.Read(0, utils.BitsPerByte))
	}

	for {
		s, err := hdr.CString()
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading include_directories: %v", err)
		}
		if len(s) == 0 {
			break
		}
		p.IncludeDirs = append(p.IncludeDirs, string(s))
	}

	for {
		name, err := hdr.CString()
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading file_names: %v", err)
		}
		if len(name) == 0 {
			break
		}
		dirIdx, err := DecodeUleb128(hdr)
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading file dir_index: %v", err)
		}
		mtime, err := DecodeUleb128(hdr)
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading file mtime: %v", err)
		}
		length, err := DecodeUleb128(hdr)
		if err != nil {
			return nil, 0, wrap(ErrMalformed, "reading file length: %v", err)
		}
		p.Files = append(p.Files, FileEntry{Name: string(name), DirIndex: int(dirIdx), Mtime: mtime, Length: length})
	}

	if hdr.Pos() != prologueEndOff {
		return nil, 0, wrap(ErrPrologueMisaligned, "prologue for unit at %d ended at %d, header says %d", off, hdr.Pos(), prologueEndOff)
	}

	if err := runLineProgram(p, section[off+hdr.Pos():unitEnd], addrSize); err != nil {
		return nil, 0, err
	}

	return p, unitEnd, nil
}

func runLineProgram(p *LineProgram, program []byte, addrSize int) error {
	c := NewCursor(program)
	sm := newLineSM(p.DefaultStmt)

	emit := func() {
		p.Rows = append(p.Rows, LineRow{
			Address:       sm.address,
			File:          sm.file,
			Line:          sm.line,
			Column:        sm.column,
			IsStmt:        sm.isStmt,
			BasicBlock:    sm.basicBlock,
			EndSequence:   sm.endSequence,
			PrologueEnd:   sm.prologueEnd,
			EpilogueBegin: sm.epilogueBegin,
		})
	}

	for c.Len() > 0 {
		opcode, err := c.U8()
		if err != nil {
			return wrap(ErrMalformed, "reading opcode: %v", err)
		}

		switch {
		case opcode == 0:
			length, err := DecodeUleb128(c)
			if err != nil {
				return wrap(ErrMalformed, "reading extended opcode length: %v", err)
			}
			payload, err := c.Bytes(int(length))
			if err != nil {
				return wrap(ErrMalformed, "reading extended opcode payload: %v", err)
			}
			if err := runExtendedOpcode(p, &sm, payload, addrSize, emit); err != nil {
				return err
			}

		case int(opcode) < p.OpcodeBase:
			if err := runStandardOpcode(p, &sm, c, opcode, emit); err != nil {
				return err
			}

		default:
			adjusted := int(opcode) - p.OpcodeBase
			sm.address += uint64((adjusted / p.LineRange) * p.MinInstLen)
			sm.line += p.LineBase + adjusted%p.LineRange
			emit()
			sm.basicBlock = false
			sm.prologueEnd = false
			sm.epilogueBegin = false
		}
	}
	return nil
}

func runExtendedOpcode(p *LineProgram, sm *lineSM, payload []byte, addrSize int, emit func()) error {
	c := NewCursor(payload)
	sub, err := c.U8()
	if err != nil {
		return wrap(ErrMalformed, "reading extended sub-opcode: %v", err)
	}

	switch sub {
	case LneEndSequence:
		sm.endSequence = true
		emit()
		*sm = newLineSM(p.DefaultStmt)

	case LneSetAddress:
		addr, err := c.Addr(addrSize)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNE_set_address: %v", err)
		}
		sm.address = addr

	case LneDefineFile:
		name, err := c.CString()
		if err != nil {
			return wrap(ErrMalformed, "DW_LNE_define_file name: %v", err)
		}
		dirIdx, err := DecodeUleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNE_define_file dir_index: %v", err)
		}
		mtime, err := DecodeUleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNE_define_file mtime: %v", err)
		}
		length, err := DecodeUleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNE_define_file length: %v", err)
		}
		p.Files = append(p.Files, FileEntry{Name: string(name), DirIndex: int(dirIdx), Mtime: mtime, Length: length})

	case LneSetDiscriminator:
		if _, err := DecodeUleb128(c); err != nil {
			return wrap(ErrMalformed, "DW_LNE_set_discriminator: %v", err)
		}

	default:
		// Unknown vendor extension: the length-prefixed payload was
		// already fully consumed by the caller, so there is nothing
		// left to skip.
	}
	return nil
}

func runStandardOpcode(p *LineProgram, sm *lineSM, c *Cursor, opcode uint8, emit func()) error {
	switch int(opcode) {
	case LnsCopy:
		emit()
		sm.basicBlock = false
		sm.prologueEnd = false
		sm.epilogueBegin = false

	case LnsAdvancePC:
		v, err := DecodeUleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNS_advance_pc: %v", err)
		}
		sm.address += v * uint64(p.MinInstLen)

	case LnsAdvanceLine:
		v, err := DecodeSleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNS_advance_line: %v", err)
		}
		sm.line += int(v)

	case LnsSetFile:
		v, err := DecodeUleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNS_set_file: %v", err)
		}
		sm.file = int(v)

	case LnsSetColumn:
		v, err := DecodeUleb128(c)
		if err != nil {
			return wrap(ErrMalformed, "DW_LNS_set_column: %v", err)
		}
		sm.column = int(v)

	case LnsNegateStmt:
		sm.isStmt = !sm.isStmt

	case LnsSetBasicBlock:
		sm.basicBlock = true

	case LnsConstAddPC:
		adjusted := 255 - p.OpcodeBase
		sm.address += uint64((adjusted / p.LineRange) * p.MinInstLen)

	case LnsFixedAdvancePC:
		v, err := c.U16()
		if err != nil {
			return wrap(ErrMalformed, "DW_LNS_fixed_advance_pc: %v", err)
		}
		sm.address += uint64(v)

	case LnsSetPrologueEnd:
		sm.prologueEnd = true

	case LnsSetEpilogueBegin:
		sm.epilogueBegin = true

	case LnsSetIsa:
		if _, err := DecodeUleb128(c); err != nil {
			return wrap(ErrMalformed, "DW_LNS_set_isa: %v", err)
		}

	default:
		return wrap(ErrUnknownOpcode, "standard opcode %d below opcode_base %d", opcode, p.OpcodeBase)
	}
	return nil
}
