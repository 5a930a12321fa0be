package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/finance-engine/factory"
)

func newScenariosCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List preset example inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range factory.Scenarios() {
				fmt.Fprintf(out, "%-20s %-20s %s\n", s.ID, subtitleStyle.Render(s.Kind), s.Description)
			}
			return nil
		},
	}

	run := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := factory.FindScenario(args[0])
			if err != nil {
				return err
			}
			outcome, err := calculators.Run(s.Kind, s.Input)
			if err != nil {
				return err
			}
			return printOutcome(cmd, s.Name, outcome, asJSON)
		},
	}
	run.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")

	cmd.AddCommand(run)
	return cmd
}
