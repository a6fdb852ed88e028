package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/tick/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	insertTop := flag.Bool("top", false, "insert new items at the top of the list")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group: *groupPending,
		Top:   *insertTop,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
