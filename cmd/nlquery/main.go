// Command nlquery answers English questions from Wikidata.
//
// Usage:
//
//	nlquery ask "Who is the president of France?"
//	nlquery repl
//	nlquery serve --addr :5000
//	nlquery grammar --strict
//	nlquery history -n 10
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/nlquery/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())

	// Commands report their own failures; anything else (unknown flags,
	// bad arguments) is printed here.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
