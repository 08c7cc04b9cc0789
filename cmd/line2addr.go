package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var line2addrCmd = &cobra.Command{
	Use:   "line2addr <file:line> <executable>",
	Short: "Resolve a source file:line to its first matching instruction address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, lineStr, ok := strings.Cut(args[0], ":")
		if !ok {
			return fmt.Errorf("usage: thyrion line2addr <file:line> <executable>")
		}
		line, err := strconv.Atoi(lineStr)
		if err != nil {
			return fmt.Errorf("usage: thyrion line2addr <file:line> <executable>: %q is not a line number", lineStr)
		}

		data, err := openObject(args[1])
		if err != nil {
			Log.Error(err.Error())
			return err
		}

		addr, ok := data.FindAddress(file, line)
		if !ok {
			fmt.Println("Address not found")
			return fmt.Errorf("no address found for %s:%d", file, line)
		}

		fmt.Printf("0x%08x\n", addr)
		return nil
	},
}
