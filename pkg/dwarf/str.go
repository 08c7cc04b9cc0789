package dwarf

// StrTable is the decoded view of .debug_str: a flat run of NUL-terminated
// strings, addressed by byte offset from FORM_strp attributes elsewhere
// in the object. There is no separate "decode" step beyond wrapping the
// section bytes — offsets are resolved lazily, on demand.
type StrTable struct {
	data []byte
}

// NewStrTable wraps the raw .debug_str section body. data may be nil for
// an object with no string table; StringAt then always fails.
func NewStrTable(data []byte) *StrTable {
	return &StrTable{data: data}
}

// StringAt resolves a byte offset into .debug_str to the NUL-terminated
// string starting there.
func (t *StrTable) StringAt(off uint64) (string, error) {
	return resolveStr(t.data, off)
}
