package users

import (
	"fmt"
	"strconv"

	"binobj/cli"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetches a stored user.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errors.Errorf("invalid id %q", args[0])
		}
		client, err := cli.DialHTTP(cmd)
		if err != nil {
			return err
		}
		user, err := client.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString(cli.FlagFormat)
		if format == cli.FormatJSON {
			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(user)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		fmt.Printf("%v\t%s\t%s\n", user.ID, user.FirstName, user.SecondName)
		return nil
	},
}

func init() {
	cmd.AddCommand(getCmd)
}
