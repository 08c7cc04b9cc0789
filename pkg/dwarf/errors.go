package dwarf

import (
	"fmt"

	"github.com/eskaton/thyrion/pkg/utils"
)

// Error kinds. Decoder errors wrap one of these with errors.Is-compatible
// %w so callers can branch on the kind while the message keeps whatever
// offset/field detail caused it.
var (
	ErrIO                  = fmt.Errorf("io error")
	ErrNotELF              = fmt.Errorf("not an ELF file")
	ErrUnsupportedELFClass = fmt.Errorf("unsupported ELF class")
	ErrNoDebugInfo         = fmt.Errorf("no debug info")
	ErrTruncated           = fmt.Errorf("truncated")
	ErrMalformed           = fmt.Errorf("malformed")
	ErrMalformedReference  = fmt.Errorf("malformed reference")
	ErrUnsupportedForm     = fmt.Errorf("unsupported form")
	ErrUnknownOpcode       = fmt.Errorf("unknown opcode")
	ErrPrologueMisaligned  = fmt.Errorf("prologue misaligned")
	ErrOutOfRange          = fmt.Errorf("out of range")
)

// wrap attaches context to one of the sentinel errors above, using the
// makeError idiom shared across this codebase's error paths.
func wrap(err error, format string, args ...any) error {
	return utils.MakeError(err, format, args...)
}
