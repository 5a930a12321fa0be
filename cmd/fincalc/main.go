package main

import (
	"os"

	"github.com/warp/finance-engine/cmd/fincalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
