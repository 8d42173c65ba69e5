package main

import (
	"fmt"
	"os"

	"github.com/spigell/resume-builder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cmd.ErrorLine(err))
		os.Exit(1)
	}
}
