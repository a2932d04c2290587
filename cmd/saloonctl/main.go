package main

import (
	"fmt"
	"os"

	"github.com/saloonhub/saloonstore/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	os.Exit(cli.GetExitCode(err))
}
