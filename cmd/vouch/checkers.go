package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/vouch/pkg/checker"
)

var checkersFormat string

var checkersCmd = &cobra.Command{
	Use:   "checkers",
	Short: "List available checkers",
	Long:  "Display every registered checker with its secret kind and description",
	RunE:  runCheckersList,
}

func init() {
	checkersCmd.Flags().StringVar(&checkersFormat, "format", "table", "Output format: table, json")
}

func runCheckersList(cmd *cobra.Command, args []string) error {
	registry, _ := checker.NewDefaultRegistry()
	descriptors := registry.List()

	switch checkersFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(descriptors)
	case "table":
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKIND\tDESCRIPTION")
		for _, d := range descriptors {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Kind, d.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format: %s", checkersFormat)
	}
}
