package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"binobj/cli"
	"binobj/record"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type entryJSON struct {
	Field   string `json:"field,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Payload string `json:"payload"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file?>",
	Short: "Lists the entries of a binary buffer.",
	Long: `Lists the entries of a binary buffer. Entries are labelled with the
user field declared at the same position.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := readBuffer(cmd, args)
		if err != nil {
			return err
		}
		codec := cli.Codec(cmd)
		entries, err := codec.Entries(buf)
		if err != nil {
			return err
		}
		descs := record.UserSchema().Descriptors()

		rows := make([]*entryJSON, len(entries))
		for i, e := range entries {
			row := &entryJSON{
				Offset:  e.Offset,
				Length:  e.Length,
				Payload: hex.EncodeToString(buf[e.Offset : e.Offset+e.Length]),
			}
			if i < len(descs) {
				row.Field = descs[i].Name
			}
			if codec.Tagged {
				row.Kind = e.Kind.String()
			} else if i < len(descs) {
				row.Kind = descs[i].Kind.String()
			}
			rows[i] = row
		}

		format, _ := cmd.Flags().GetString(cli.FlagFormat)
		if format == cli.FormatJSON {
			return printJSON(rows)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{
			"#",
			"Field",
			"Kind",
			"Offset",
			"Length",
			"Payload",
		})
		for i, row := range rows {
			table.Append([]string{
				strconv.Itoa(i),
				row.Field,
				row.Kind,
				strconv.Itoa(row.Offset),
				strconv.Itoa(row.Length),
				row.Payload,
			})
		}
		table.Render()
		fmt.Printf("%d entries, %d bytes\n", len(entries), len(buf))
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool(flagHex, false, "Read hex instead of raw bytes.")
	rootCmd.AddCommand(inspectCmd)
}
