package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/eskaton/thyrion/internal/thlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// Log is the root logger, rebuilt in initConfig once --verbose is known.
	Log = thlog.New(false)
)

// RootCmd is the base command when thyrion is called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "thyrion",
	Short: "A DWARF v2/v3 debug-info reader",
	Long: `thyrion decodes the DWARF v2/v3 debugging information embedded in an
ELF object: abbreviation tables, debugging information entries, the
line-number program, and address-range tables.

This CLI is the entry point for inspecting an object's debug info,
mapping source locations to addresses, and browsing its DIE tree.`,
}

// Execute adds all child commands to RootCmd and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.thyrion.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	RootCmd.AddCommand(dumpCmd, line2addrCmd, inspectCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".thyrion")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	Log = thlog.New(verbose)
	slog.SetDefault(Log)
}
