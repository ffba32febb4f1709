package users

import (
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "users",
	Short: "Commands related to stored users.",
}

func AddCmd(parent *cobra.Command) {
	parent.AddCommand(cmd)
}
