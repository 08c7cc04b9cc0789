package cmd

import (
	"fmt"

	"github.com/eskaton/thyrion/pkg/dwarf"
	"github.com/eskaton/thyrion/pkg/elf"
	"github.com/eskaton/thyrion/pkg/utils"
)

// requiredSections are the ELF sections every DWARF v2/v3 object must
// carry. .debug_str is optional and handled separately.
var requiredSections = []string{".debug_info", ".debug_abbrev", ".debug_line", ".debug_aranges"}

// openObject opens path as an ELF file and decodes the DWARF debug
// sections it finds in it.
func openObject(path string) (*dwarf.Data, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	var missing []string
	sections := dwarf.Sections{}
	for _, name := range requiredSections {
		if _, ok := f.Section(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing debug section(s) %v (object has: %s)",
			path, missing, utils.FormatSlice(f.SectionNames(), ", "))
	}

	sections.Info, _ = f.Section(".debug_info")
	sections.Abbrev, _ = f.Section(".debug_abbrev")
	sections.Line, _ = f.Section(".debug_line")
	sections.Aranges, _ = f.Section(".debug_aranges")
	sections.Str, _ = f.Section(".debug_str")

	data, err := dwarf.Open(sections)
	if err != nil {
		return nil, fmt.Errorf("decoding debug info in %s: %w", path, err)
	}
	return data, nil
}
