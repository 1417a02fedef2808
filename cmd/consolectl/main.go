package main

import (
	"fmt"
	"os"

	"github.com/Harshitk-cp/sump-console/internal/cli"
	"github.com/Harshitk-cp/sump-console/internal/config"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(config.APIURL(), os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
