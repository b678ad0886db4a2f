package main

import (
	"fmt"

	"github.com/ludo-technologies/linthell/internal/version"
	"github.com/ludo-technologies/linthell/service"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()

			format, _ := cmd.Flags().GetString("output")
			switch format {
			case "json":
				return service.WriteJSON(out, info)
			case "yaml":
				return service.WriteYAML(out, info)
			case "text":
				if short, _ := cmd.Flags().GetBool("short"); short {
					fmt.Fprintln(out, info.Version)
					return nil
				}
				fmt.Fprintln(out, info.String())
				return nil
			default:
				return usageExit(fmt.Sprintf("unsupported format: %s", format))
			}
		},
	}

	cmd.Flags().Bool("short", false, "Print the version number only")
	addOutputFlag(cmd)
	return cmd
}
