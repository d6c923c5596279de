package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "propledger",
		Short:        "Compliance-gated ledger for tokenized real-world assets",
		Long:         `propledger serves a verification registry and a compliance ledger for fractional ownership of a single real-world asset.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (YAML); PROPLEDGER_* environment variables override it")

	root.AddCommand(newServeCmd(&cfgFile), newTokenCmd(&cfgFile))
	return root
}
