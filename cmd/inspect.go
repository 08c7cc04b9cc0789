package cmd

import (
	"github.com/eskaton/thyrion/pkg/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <object-file>",
	Short: "Browse an object's DIE tree and line-number program in a terminal UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := openObject(args[0])
		if err != nil {
			Log.Error(err.Error())
			return err
		}
		return tui.Run(data)
	},
}
