package main

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/linthell/internal/parser"
	"github.com/spf13/cobra"
)

func parsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parsers",
		Short: "List the parsers available to --plugin",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			entries := parser.Describe()
			width := 0
			for _, e := range entries {
				width = max(width, len(e.Name))
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %s\n", width, e.Name, e.Description)
			}
		},
	}
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
