package users

import (
	"fmt"
	"os"
	"strconv"

	"binobj/cli"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every stored user.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := cli.DialHTTP(cmd)
		if err != nil {
			return err
		}
		users, err := client.ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString(cli.FlagFormat)
		if format == cli.FormatJSON {
			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(users)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{
			"ID",
			"First Name",
			"Second Name",
		})
		for _, user := range users {
			table.Append([]string{
				strconv.FormatFloat(user.ID, 'g', -1, 64),
				user.FirstName,
				user.SecondName,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	cmd.AddCommand(listCmd)
}
