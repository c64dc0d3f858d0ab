package main

import (
	"fmt"
	"os"

	"github.com/ewilliams-labs/soundcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "soundcheck:", err)
		os.Exit(1)
	}
}
