package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"binobj/cli"
	"binobj/record"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	flagID         = "id"
	flagFirstName  = "first-name"
	flagSecondName = "second-name"
	flagOut        = "out"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encodes a user into a binary buffer.",
	Long: `Encodes a user into a binary buffer. The id accepts any float64,
including NaN, +Inf, -Inf and -0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawID, _ := cmd.Flags().GetString(flagID)
		id, err := strconv.ParseFloat(rawID, 64)
		if err != nil {
			return errors.Errorf("invalid id %q", rawID)
		}
		firstName, _ := cmd.Flags().GetString(flagFirstName)
		secondName, _ := cmd.Flags().GetString(flagSecondName)

		buf, err := cli.Codec(cmd).Marshal(record.NewUser(id, firstName, secondName))
		if err != nil {
			return err
		}

		asHex, _ := cmd.Flags().GetBool(flagHex)
		out, _ := cmd.Flags().GetString(flagOut)
		if asHex {
			buf = []byte(hex.EncodeToString(buf) + "\n")
		}
		if out == "" || out == "-" {
			_, err = os.Stdout.Write(buf)
			return err
		}
		if err := os.WriteFile(out, buf, 0644); err != nil {
			return errors.Wrap(err, "error writing output")
		}
		fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s.\n", len(buf), out)
		return nil
	},
}

func init() {
	encodeCmd.Flags().String(flagID, "0", "User id.")
	encodeCmd.Flags().String(flagFirstName, "", "User first name.")
	encodeCmd.Flags().String(flagSecondName, "", "User second name.")
	encodeCmd.Flags().String(flagOut, "", "Output file. Defaults to stdout.")
	encodeCmd.Flags().Bool(flagHex, false, "Write hex instead of raw bytes.")
	rootCmd.AddCommand(encodeCmd)
}
