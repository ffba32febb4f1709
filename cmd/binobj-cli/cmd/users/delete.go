package users

import (
	"fmt"
	"strconv"

	"binobj/cli"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deletes a stored user.",
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
		if err := client.DeleteUser(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted user %v.\n", id)
		return nil
	},
}

func init() {
	cmd.AddCommand(deleteCmd)
}
