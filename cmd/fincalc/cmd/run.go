package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/finance-engine/factory"
)

func newRunCmd() *cobra.Command {
	var inputPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <kind>",
		Short: "Run a calculator on JSON input",
		Long: `Run a calculator on a JSON document read from --input, or from
stdin when --input is "-" or omitted.

Examples:
  fincalc run mortgage --input home.json
  fincalc run savings-goal --json < goal.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			desc, err := calculators.Describe(kind)
			if err != nil {
				return err
			}

			input, err := readInput(cmd, inputPath)
			if err != nil {
				return err
			}
			outcome, err := calculators.Run(kind, input)
			if err != nil {
				return err
			}
			return printOutcome(cmd, desc.Name, outcome, asJSON)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "JSON input file, or - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func printOutcome(cmd *cobra.Command, title string, outcome *factory.Outcome, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	fmt.Fprintln(out, renderFigures(title, outcome.Result.Figures()))
	return nil
}
