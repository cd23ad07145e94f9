package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/server"
)

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer one question",
		Long: `Answer a single question and print the result.

Text format prints the plain answer; JSON format prints the raw answer with
the parse tree, planner parameters and generated SPARQL.

Example:
  nlquery ask Who is Obama
  nlquery ask --format json "Which countries are in Asia?"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(rootOpts, strings.Join(args, " "), cmd)
		},
	}
	return cmd
}

func runAsk(opts *RootOptions, question string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	app, err := newApp(opts, cmd.ErrOrStderr())
	if err != nil {
		_ = formatter.Error(GetErrorCode(err, ErrCodeConfig), err.Error(), nil)
		return err
	}
	defer closeApp(app)

	ans, err := app.Engine.Ask(cmd.Context(), question)
	if err != nil {
		if engine.IsParserUnavailable(err) {
			_ = formatter.Error(ErrCodeParser, server.MessageParserUnavailable, err.Error())
			return WrapExitError(ExitCommandError, server.MessageParserUnavailable, err)
		}
		_ = formatter.Error(ErrCodeParser, err.Error(), nil)
		return WrapExitError(ExitFailure, "parse failed", err)
	}

	formatter.VerboseLog("tree: %s", ans.Tree)
	if ans.SPARQL != "" {
		formatter.VerboseLog("sparql:\n%s", ans.SPARQL)
	}

	if opts.Format == "json" {
		return formatter.Success(ans.Raw())
	}
	return formatter.Success(ans.Plain())
}
