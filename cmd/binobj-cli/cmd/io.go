package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"binobj/cli"
	"binobj/record"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const flagHex = "hex"

// readBuffer reads args[0], or stdin when no path or "-" is given. With
// --hex the input is hex text.
func readBuffer(cmd *cobra.Command, args []string) ([]byte, error) {
	var raw []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading input")
	}
	if asHex, _ := cmd.Flags().GetBool(flagHex); asHex {
		raw, err = hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, errors.Wrap(err, "error decoding hex input")
		}
	}
	return raw, nil
}

func printUser(cmd *cobra.Command, user *record.User) error {
	format, _ := cmd.Flags().GetString(cli.FlagFormat)
	if format == cli.FormatJSON {
		return printJSON(user)
	}
	fmt.Printf("id:         %v\n", user.ID)
	fmt.Printf("firstName:  %q\n", user.FirstName)
	fmt.Printf("secondName: %q\n", user.SecondName)
	return nil
}

func printJSON(v interface{}) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	return encoder.Encode(v)
}
