package users

import (
	"fmt"
	"strconv"

	"binobj/cli"
	"binobj/record"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const flagRPC = "rpc"

var putCmd = &cobra.Command{
	Use:   "put <id> <first-name> <second-name>",
	Short: "Stores a user.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errors.Errorf("invalid id %q", args[0])
		}
		user := record.NewUser(id, args[1], args[2])

		if useRPC, _ := cmd.Flags().GetBool(flagRPC); useRPC {
			client, err := cli.DialRPC(cmd)
			if err != nil {
				return err
			}
			defer client.Close()
			if _, err := client.Put(cmd.Context(), user); err != nil {
				return err
			}
		} else {
			client, err := cli.DialHTTP(cmd)
			if err != nil {
				return err
			}
			if err := client.PutUser(cmd.Context(), user); err != nil {
				return err
			}
		}
		fmt.Printf("Stored user %v.\n", id)
		return nil
	},
}

func init() {
	putCmd.Flags().Bool(flagRPC, false, "Store over gRPC instead of HTTP.")
	cmd.AddCommand(putCmd)
}
