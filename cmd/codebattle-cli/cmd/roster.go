package cmd

import (
	"fmt"

	"github.com/nfrund/codebattle/cmd/codebattle-cli/internal/format"
	"github.com/spf13/cobra"
)

var rosterOutputFormat string

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show the opponents and the player's attacks",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch rosterOutputFormat {
		case "table":
			format.RosterTable(cmd.OutOrStdout())
			return nil
		case "json":
			return format.RosterJSON(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported output format %q, use table or json", rosterOutputFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.Flags().StringVarP(&rosterOutputFormat, "format", "f", "table", "Output format (table, json)")
}
