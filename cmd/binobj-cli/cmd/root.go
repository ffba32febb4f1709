package cmd

import (
	"fmt"
	"os"

	"binobj/cli"
	"binobj/cmd/binobj-cli/cmd/users"
	"binobj/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "binobj-cli",
	Short: "Encodes, inspects and benchmarks binobj records.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String(cli.FlagHTTPHost, config.DefaultConfig.HTTP.Host, "HTTP host to connect to.")
	rootCmd.PersistentFlags().Int(cli.FlagHTTPPort, config.DefaultConfig.HTTP.Port, "HTTP port to connect to.")
	rootCmd.PersistentFlags().String(cli.FlagRPCHost, config.DefaultConfig.RPC.Host, "RPC host to connect to.")
	rootCmd.PersistentFlags().Int(cli.FlagRPCPort, config.DefaultConfig.RPC.Port, "RPC port to connect to.")
	rootCmd.PersistentFlags().Bool(cli.FlagTagged, false, "Use the tagged wire format.")
	rootCmd.PersistentFlags().String(cli.FlagFormat, cli.FormatText, "Output format")
	users.AddCmd(rootCmd)
}
