// Package elf is the minimal ELF section reader the dwarf package needs.
//
// It is deliberately not a general-purpose ELF library: it validates the
// magic and class, locates the section header table, resolves section
// names against the section header string table, and hands back named
// section byte slices. Relocations, program headers and symbol tables are
// out of scope — see pkg/dwarf for the component that actually does
// something with what this package returns.
package elf

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/eskaton/thyrion/pkg/utils"
)

// Class is the ELF file class (32-bit or 64-bit addressing).
type Class uint8

const (
	ClassNone Class = 0
	Class32   Class = 1
	Class64   Class = 2
)

var (
	// ErrNotELF is returned when the input does not start with the ELF magic.
	ErrNotELF = fmt.Errorf("not an ELF file")
	// ErrUnsupportedClass is returned for an EI_CLASS value other than 32/64-bit.
	ErrUnsupportedClass = fmt.Errorf("unsupported ELF class")
)

const (
	magic0, magic1, magic2, magic3 = 0x7f, 'E', 'L', 'F'

	eiClass = 4
	eiData  = 5

	dataLittleEndian = 1
)

// File is an opened ELF file with its section table resolved. Section data
// returned by Section is a view into the file's backing byte slice: the
// File, and every slice it has handed out, stays valid only as long as the
// caller keeps File.raw alive (we read the whole file into memory up
// front rather than mmap it, so in practice that's the lifetime of the
// File value itself).
type File struct {
	Class Class

	raw      []byte
	sections map[string][]byte
}

// Open reads path fully into memory and parses its section header table.
func Open(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses an in-memory ELF image. The returned File's sections are
// views into raw; raw must outlive the File.
func Parse(raw []byte) (*File, error) {
	if len(raw) < 20 || raw[0] != magic0 || raw[1] != magic1 || raw[2] != magic2 || raw[3] != magic3 {
		return nil, ErrNotELF
	}

	f := &File{raw: raw}

	switch raw[eiClass] {
	case 1:
		f.Class = Class32
	case 2:
		f.Class = Class64
	default:
		return nil, fmt.Errorf("%w: EI_CLASS=%d", ErrUnsupportedClass, raw[eiClass])
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if raw[eiData] != dataLittleEndian {
		order = binary.BigEndian
	}

	var err error
	if f.Class == Class64 {
		err = f.parseSections64(order)
	} else {
		err = f.parseSections32(order)
	}
	if err != nil {
		return nil, err
	}

	return f, nil
}

// section header field offsets, identical layout for 32 and 64 bit except
// where noted.
const (
	shOff32     = 0x20 // e_shoff
	shEntSz32   = 0x2e // e_shentsize
	shNum32     = 0x30 // e_shnum
	shStrNdx32  = 0x32 // e_shstrndx
	shNameOff   = 0x00 // sh_name, same in both classes
	shOffset32  = 0x10 // sh_offset (32-bit Shdr)
	shSize32    = 0x14 // sh_size (32-bit Shdr)

	shOff64    = 0x28 // e_shoff
	shEntSz64  = 0x3a // e_shentsize
	shNum64    = 0x3c // e_shnum
	shStrNdx64 = 0x3e // e_shstrndx
	shOffset64 = 0x18 // sh_offset (64-bit Shdr)
	shSize64   = 0x20 // sh_size (64-bit Shdr)
)

func (f *File) parseSections32(order binary.ByteOrder) error {
	raw := f.raw
	shoff := uint64(order.Uint32(raw[shOff32:]))
	shentsize := int(order.Uint16(raw[shEntSz32:]))
	shnum := int(order.Uint16(raw[shNum32:]))
	shstrndx := int(order.Uint16(raw[shStrNdx32:]))

	if shoff == 0 || shentsize == 0 || shnum == 0 {
		return fmt.Errorf("%w: no section header table", ErrNotELF)
	}

	strtabHdr := raw[int(shoff)+shstrndx*shentsize:]
	strtabOff := order.Uint32(strtabHdr[shOffset32:])
	strtabSize := order.Uint32(strtabHdr[shSize32:])
	strtab := raw[strtabOff : strtabOff+strtabSize]

	f.sections = make(map[string][]byte, shnum)
	for i := 0; i < shnum; i++ {
		hdr := raw[int(shoff)+i*shentsize:]
		nameOff := order.Uint32(hdr[shNameOff:])
		off := order.Uint32(hdr[shOffset32:])
		size := order.Uint32(hdr[shSize32:])
		name := cstr(strtab, nameOff)
		f.sections[name] = raw[off : off+size]
	}
	return nil
}

func (f *File) parseSections64(order binary.ByteOrder) error {
	raw := f.raw
	shoff := order.Uint64(raw[shOff64:])
	shentsize := int(order.Uint16(raw[shEntSz64:]))
	shnum := int(order.Uint16(raw[shNum64:]))
	shstrndx := int(order.Uint16(raw[shStrNdx64:]))

	if shoff == 0 || shentsize == 0 || shnum == 0 {
		return fmt.Errorf("%w: no section header table", ErrNotELF)
	}

	strtabHdr := raw[shoff+uint64(shstrndx*shentsize):]
	strtabOff := order.Uint64(strtabHdr[shOffset64:])
	strtabSize := order.Uint64(strtabHdr[shSize64:])
	strtab := raw[strtabOff : strtabOff+strtabSize]

	f.sections = make(map[string][]byte, shnum)
	for i := 0; i < shnum; i++ {
		hdr := raw[shoff+uint64(i*shentsize):]
		nameOff := order.Uint32(hdr[shNameOff:])
		off := order.Uint64(hdr[shOffset64:])
		size := order.Uint64(hdr[shSize64:])
		name := cstr(strtab, nameOff)
		f.sections[name] = raw[off : off+size]
	}
	return nil
}

func cstr(buf []byte, off uint32) string {
	if int(off) >= len(buf) {
		return ""
	}
	end := off
	for end < uint32(len(buf)) && buf[end] != 0 {
		end++
	}
	return string(buf[off:end])
}

// Section returns the named section's data, or nil, false if the file has
// no such section.
func (f *File) Section(name string) ([]byte, bool) {
	b, ok := f.sections[name]
	return b, ok
}

// SectionNames returns the names of every section this file carries, in
// no particular order.
func (f *File) SectionNames() []string {
	return utils.Keys(f.sections)
}

// AddrSizeHint returns the natural pointer width implied by the ELF class:
// 8 for ELFCLASS64, 4 otherwise. The DWARF decoder does not consult it; it
// takes each CU's address_size from the CU header.
func (f *File) AddrSizeHint() int {
	if f.Class == Class64 {
		return 8
	}
	return 4
}
