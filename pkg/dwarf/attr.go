package dwarf

import "github.com/eskaton/thyrion/pkg/utils"

// Value is a decoded DIE attribute value. Which field is meaningful for a
// given Form is noted beside each field below; FORM_strp fills both Str
// and Strp, every other form fills exactly one.
// Block and Str are sub-slices/strings backed by the section the
// attribute was read from.
type Value struct {
	Form  Form
	Addr  uint64 // FORM_addr
	Block []byte // FORM_block, FORM_block1/2/4
	Str   string // FORM_string (inline), FORM_strp (resolved against .debug_str)
	Udata uint64 // FORM_data1/2/4/8, FORM_udata, FORM_flag
	Sdata int64  // FORM_sdata
	Ref   uint64 // FORM_ref1/2/4/8, FORM_ref_udata: offset relative to the owning CU
	RefAddr uint64 // FORM_ref_addr: absolute offset into .debug_info
	Strp  uint64 // FORM_strp: raw offset into .debug_str, before resolution
}

// readAttr decodes one attribute value from c according to form. addrSize
// is the owning CU's address_size, needed for FORM_addr. strSection is
// the .debug_str section body, used to resolve FORM_strp immediately;
// nil is valid when the object has no .debug_str, in which case a
// FORM_strp attribute fails with ErrOutOfRange.
func readAttr(c *Cursor, form Form, addrSize int, strSection []byte) (Value, error) {
	switch form {
	case FormAddr:
		v, err := c.Addr(addrSize)
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Addr: v}, nil

	case FormString:
		s, err := c.CString()
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Str: string(s)}, nil

	case FormStrp:
		off, err := c.U32()
		if err != nil {
			return Value{}, err
		}
		s, err := resolveStr(strSection, uint64(off))
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Strp: uint64(off), Str: s}, nil

	case FormRefAddr:
		off, err := c.U32()
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, RefAddr: uint64(off)}, nil

	case FormBlock:
		n, err := DecodeUleb128(c)
		if err != nil {
			return Value{}, err
		}
		b, err := c.Bytes(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Block: b}, nil

	case FormBlock1:
		n, err := c.U8()
		if err != nil {
			return Value{}, err
		}
		b, err := c.Bytes(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Block: b}, nil

	case FormBlock2:
		n, err := c.U16()
		if err != nil {
			return Value{}, err
		}
		b, err := c.Bytes(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Block: b}, nil

	case FormBlock4:
		n, err := c.U32()
		if err != nil {
			return Value{}, err
		}
		b, err := c.Bytes(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Block: b}, nil

	case FormData1, FormRef1:
		v, err := c.U8()
		if err != nil {
			return Value{}, err
		}
		return refOrData(form, uint64(v)), nil

	case FormData2, FormRef2:
		v, err := c.U16()
		if err != nil {
			return Value{}, err
		}
		return refOrData(form, uint64(v)), nil

	case FormData4, FormRef4:
		v, err := c.U32()
		if err != nil {
			return Value{}, err
		}
		return refOrData(form, uint64(v)), nil

	case FormData8, FormRef8:
		v, err := c.U64()
		if err != nil {
			return Value{}, err
		}
		return refOrData(form, v), nil

	case FormSdata:
		v, err := DecodeSleb128(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Sdata: v}, nil

	case FormUdata:
		v, err := DecodeUleb128(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Udata: v}, nil

	case FormRefUdata:
		v, err := DecodeUleb128(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Ref: v}, nil

	case FormFlag:
		v, err := c.U8()
		if err != nil {
			return Value{}, err
		}
		// A flag byte is nonzero-means-true. The whole byte is read
		// through a BitView, so Udata holds the raw byte value (not
		// normalized to 0/1); a byte with only a high bit set is nonzero.
		view := utils.CreateBitView(&v)
		return Value{Form: form, Udata: uint64(view.Read(0, utils.BitsPerByte))}, nil

	case FormIndirect:
		actual, err := DecodeUleb128(c)
		if err != nil {
			return Value{}, err
		}
		return readAttr(c, Form(actual), addrSize, strSection)

	default:
		return Value{}, wrap(ErrUnsupportedForm, "%s", form)
	}
}

func refOrData(form Form, v uint64) Value {
	switch form {
	case FormRef1, FormRef2, FormRef4, FormRef8:
		return Value{Form: form, Ref: v}
	default:
		return Value{Form: form, Udata: v}
	}
}

func resolveStr(strSection []byte, off uint64) (string, error) {
	if strSection == nil {
		return "", wrap(ErrOutOfRange, "FORM_strp used with no .debug_str section")
	}
	if off >= uint64(len(strSection)) {
		return "", wrap(ErrOutOfRange, "strp offset %d beyond .debug_str (len %d)", off, len(strSection))
	}
	end := off
	for end < uint64(len(strSection)) && strSection[end] != 0 {
		end++
	}
	return string(strSection[off:end]), nil
}
