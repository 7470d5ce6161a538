package main

import (
	"fmt"
	"os"

	"github.com/framework-learner/penrose/internal/cli"
	"github.com/framework-learner/penrose/internal/errors"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
