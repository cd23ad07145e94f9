package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nlquery/internal/grammar"
)

// GrammarOptions holds flags for the grammar command.
type GrammarOptions struct {
	*RootOptions
	Strict bool // lint issues fail the command
}

// GrammarSummary describes a compiled grammar.
type GrammarSummary struct {
	Source string          `json:"source"`
	Rules  int             `json:"rules"`
	Tables []TableSummary  `json:"tables"`
	Issues []grammar.Issue `json:"issues"`
}

// TableSummary describes one rule table.
type TableSummary struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

// String renders the summary for text output.
func (s GrammarSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "grammar %s: %d tables, %d rules\n", s.Source, len(s.Tables), s.Rules)
	for _, t := range s.Tables {
		fmt.Fprintf(&b, "  %s (%d rules)\n", t.Name, len(t.Patterns))
	}
	if len(s.Issues) == 0 {
		b.WriteString("no issues")
		return b.String()
	}
	for i, issue := range s.Issues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "warning %s", issue)
	}
	return b.String()
}

// NewGrammarCommand creates the grammar command.
func NewGrammarCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GrammarOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Compile and lint the question grammar",
		Long: `Compile the question grammar (the built-in one, or --grammar), lint it,
and print its rule tables. Verbose output lists every pattern.

Lint warnings:
  W201  table unreachable from any entry point
  W202  rule shadowed by an earlier rule
  W203  nested binding on a text capture
  W204  nested binding on an undeclared capture`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrammar(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit with failure when lint issues are found")

	return cmd
}

func runGrammar(opts *GrammarOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	g, err := loadGrammar(opts.GrammarPath)
	if err != nil {
		_ = formatter.Error(ErrCodeGrammar, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to compile grammar", err)
	}

	summary := summarize(g, opts.GrammarPath)
	for _, t := range summary.Tables {
		for i, p := range t.Patterns {
			formatter.VerboseLog("%s[%d] %s", t.Name, i, p)
		}
	}

	if err := formatter.Success(summary); err != nil {
		return err
	}
	if opts.Strict && len(summary.Issues) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("grammar has %d lint issue(s)", len(summary.Issues)))
	}
	return nil
}

func summarize(g *grammar.Grammar, path string) GrammarSummary {
	source := path
	if source == "" {
		source = "(built-in)"
	}

	summary := GrammarSummary{
		Source: source,
		Rules:  g.RuleCount(),
		Tables: []TableSummary{},
		Issues: grammar.Validate(g).Issues,
	}
	if summary.Issues == nil {
		summary.Issues = []grammar.Issue{}
	}
	for _, name := range g.TableNames() {
		table := g.Tables[name]
		ts := TableSummary{Name: name, Patterns: make([]string, 0, len(table.Rules))}
		for _, rule := range table.Rules {
			ts.Patterns = append(ts.Patterns, rule.Pattern.String())
		}
		summary.Tables = append(summary.Tables, ts)
	}
	return summary
}
