package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/server"
)

// Prompt is printed before each line the repl reads.
const Prompt = "Enter line: "

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Answer questions read line by line",
		Long: `Read questions from standard input, one per line, and print each plain
answer. Blank lines are skipped. End of input prints "Bye!" and exits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(rootOpts, cmd)
		},
	}
	return cmd
}

func runRepl(opts *RootOptions, cmd *cobra.Command) error {
	app, err := newApp(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeApp(app)

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ans, err := app.Engine.Ask(cmd.Context(), line)
		if engine.IsParserUnavailable(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), server.MessageParserUnavailable)
			continue
		}
		fmt.Fprintln(out, ans.Plain())
	}
	fmt.Fprintln(out, "Bye!")

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitFailure, "read input", err)
	}
	return nil
}
