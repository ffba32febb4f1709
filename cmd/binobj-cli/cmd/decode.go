package cmd

import (
	"binobj/bwire"
	"binobj/cli"
	"binobj/record"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file?>",
	Short: "Decodes a binary buffer into a user.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := readBuffer(cmd, args)
		if err != nil {
			return err
		}
		user, err := bwire.FromWith[record.User](cli.Codec(cmd), buf)
		if err != nil {
			return err
		}
		return printUser(cmd, user)
	},
}

func init() {
	decodeCmd.Flags().Bool(flagHex, false, "Read hex instead of raw bytes.")
	rootCmd.AddCommand(decodeCmd)
}
