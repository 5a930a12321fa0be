// Package cmd implements the fincalc command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/finance-engine/factory"
)

var calculators = factory.NewCalculatorFactory()

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fincalc",
		Short: "Personal finance calculators",
		Long: `fincalc runs loan, savings and household calculators from the
command line, exports amortization schedules, and serves the HTTP API.

Calculators take JSON input, the same documents the API accepts:
  fincalc run loan-payment --input loan.json
  echo '{"amount":100,"annual_rate":3,"years":10}' | fincalc run inflation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newListCmd(),
		newRunCmd(),
		newScheduleCmd(),
		newScenariosCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
}
