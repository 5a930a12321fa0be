package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List calculators and their input fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			category := ""
			for _, d := range calculators.Kinds() {
				if d.Category != category {
					if category != "" {
						fmt.Fprintln(out)
					}
					category = d.Category
					fmt.Fprintln(out, titleStyle.Render(category))
				}
				fmt.Fprintf(out, "  %-20s %s\n", d.Kind, d.Description)
				if len(d.Required) > 0 {
					fmt.Fprintf(out, "  %-20s %s\n", "", subtitleStyle.Render(fmt.Sprintf("required: %v", d.Required)))
				}
				if len(d.Optional) > 0 {
					fmt.Fprintf(out, "  %-20s %s\n", "", subtitleStyle.Render(fmt.Sprintf("optional: %v", d.Optional)))
				}
			}
			return nil
		},
	}
}
