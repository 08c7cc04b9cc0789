package cmd

import (
	"fmt"
	"os"

	"github.com/eskaton/thyrion/pkg/dwarf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dumpFormat   string
	dumpSections []string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <object-file>",
	Short: "Dump an object's decoded DWARF debug information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := openObject(args[0])
		if err != nil {
			Log.Error(err.Error())
			return err
		}

		// An explicit --format always wins; otherwise fall back to the
		// ~/.thyrion.yaml config's "format"/"color" keys before the flag's
		// own "text" default.
		if !cmd.Flags().Changed("format") {
			if configured := viper.GetString("format"); configured != "" {
				dumpFormat = configured
			} else if viper.GetBool("color") {
				dumpFormat = "color"
			}
		}

		var format dwarf.DumpFormat
		switch dumpFormat {
		case "text":
			format = dwarf.FormatText
		case "color":
			format = dwarf.FormatColor
		case "yaml":
			format = dwarf.FormatYAML
		default:
			return fmt.Errorf("unknown --format %q (want text, color or yaml)", dumpFormat)
		}

		for _, s := range dumpSections {
			if s != dwarf.SectionAranges && s != dwarf.SectionInfo && s != dwarf.SectionLine {
				return fmt.Errorf("unknown --section %q (want aranges, info or line)", s)
			}
		}

		return data.Dump(os.Stdout, format, dumpSections...)
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "output format: text, color or yaml")
	dumpCmd.Flags().StringSliceVar(&dumpSections, "section", nil, "sections to dump: aranges, info, line (default all)")
}
