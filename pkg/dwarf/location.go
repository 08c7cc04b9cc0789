package dwarf

import "github.com/eskaton/thyrion/pkg/utils"

const (
	opAddr       = 0x03
	opPlusUconst = 0x23
	opReg0       = 0x50
	opReg31      = 0x6f
	opBreg0      = 0x70
	opBreg31     = 0x8f
	opRegx       = 0x90
	opFbreg      = 0x91
	opStackVal   = 0x9f
)

// VariableLocation is the decoded form of a DW_AT_location expression:
// where to find a variable's value at runtime. The set of implementations
// is closed; a type switch over all four is exhaustive.
type VariableLocation interface {
	isVariableLocation()
}

// AddressLocation is a variable stored at a fixed, link-time address
// (DW_OP_addr).
type AddressLocation struct{ Addr uint64 }

// RegisterLocation is a variable whose value lives entirely in a DWARF
// register number, not in memory (DW_OP_regN / DW_OP_regx).
type RegisterLocation struct{ Reg uint64 }

// FrameOffsetLocation is a variable addressed relative to some base the
// expression doesn't name directly — a frame base (DW_OP_fbreg), a
// register-plus-offset (DW_OP_bregN), or a bare constant offset
// (DW_OP_plus_uconst). This decoder has no target register ABI to
// resolve DW_OP_bregN's base register against, so all three collapse to
// "an offset from wherever the caller already knows the base is".
type FrameOffsetLocation struct{ Offset int64 }

// ConstantLocation is a variable whose value is the expression's
// computed constant itself, not an address (DW_OP_..; DW_OP_stack_val).
type ConstantLocation struct{ Value int64 }

func (AddressLocation) isVariableLocation()      {}
func (RegisterLocation) isVariableLocation()     {}
func (FrameOffsetLocation) isVariableLocation()  {}
func (ConstantLocation) isVariableLocation()     {}

// DecodeLocation decodes a DW_AT_location expression block into one of
// the VariableLocation kinds above. Only the single-operator expressions
// DWARF v2/v3 producers emit for simple variables are supported; a
// composite or vendor-extension expression fails with ErrUnknownOpcode.
func DecodeLocation(expr []byte, addrSize int) (loc VariableLocation, err error) {
	if len(expr) == 0 {
		return nil, wrap(ErrMalformed, "empty location expression")
	}
	c := NewCursor(expr)
	defer func() {
		if err == nil && c.Len() > 0 {
			loc, err = nil, wrap(ErrUnknownOpcode, "composite location expression (%d bytes after the first operator)", c.Len())
		}
	}()
	op, err := c.U8()
	if err != nil {
		return nil, err
	}

	switch {
	case op == opAddr:
		addr, err := c.Addr(addrSize)
		if err != nil {
			return nil, wrap(ErrMalformed, "DW_OP_addr: %v", err)
		}
		return AddressLocation{Addr: addr}, nil

	case op >= opReg0 && op <= opReg31:
		return RegisterLocation{Reg: uint64(op - opReg0)}, nil

	case op == opRegx:
		reg, err := DecodeUleb128(c)
		if err != nil {
			return nil, wrap(ErrMalformed, "DW_OP_regx: %v", err)
		}
		return RegisterLocation{Reg: reg}, nil

	case op >= opBreg0 && op <= opBreg31:
		offset, err := DecodeSleb128(c)
		if err != nil {
			return nil, wrap(ErrMalformed, "DW_OP_breg%d: %v", op-opBreg0, err)
		}
		return FrameOffsetLocation{Offset: offset}, nil

	case op == opFbreg:
		offset, err := DecodeSleb128(c)
		if err != nil {
			return nil, wrap(ErrMalformed, "DW_OP_fbreg: %v", err)
		}
		return FrameOffsetLocation{Offset: offset}, nil

	case op == opPlusUconst:
		v, err := DecodeUleb128(c)
		if err != nil {
			return nil, wrap(ErrMalformed, "DW_OP_plus_uconst: %v", err)
		}
		return FrameOffsetLocation{Offset: int64(v)}, nil

	case op == opStackVal:
		// A bare stack_val with nothing preceding it has no defined value;
		// treat it as a zero constant rather than failing outright.
		return ConstantLocation{Value: 0}, nil

	default:
		return nil, wrap(ErrUnknownOpcode, "DW_OP %s", utils.FormatUintHex(uint64(op), 0))
	}
}
