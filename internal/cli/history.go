package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nlquery/internal/ir"
	"github.com/roach88/nlquery/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string // overrides store.path
	Limit    int
	Question string // show only this question (matched by fingerprint)
}

// History is the result of the history command.
type History struct {
	Entries []store.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// String renders one line per entry.
func (h History) String() string {
	if len(h.Entries) == 0 {
		return "no queries recorded"
	}
	lines := make([]string, 0, len(h.Entries))
	for _, e := range h.Entries {
		answer := e.Plain
		if e.Empty {
			answer = "(no answer)"
		}
		lines = append(lines, fmt.Sprintf("%4d  %-12s  %s  => %s", e.Seq, e.Grammar, e.Sentence, answer))
	}
	return strings.Join(lines, "\n")
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded questions",
		Long: `List the latest questions from the query log, oldest first.

The query log is enabled by store.path in the config (or --db).

Example:
  nlquery history --limit 5
  nlquery history --question "Who is Obama?"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite query log (default from config)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "show every time this question was asked")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Database
	if path == "" {
		cfg, _, err := loadConfig(opts.RootOptions, cmd.ErrOrStderr())
		if err != nil {
			_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
			return err
		}
		path = cfg.Store.Path
	}
	if path == "" {
		_ = formatter.Error(ErrCodeStore, "no query log configured (set store.path or --db)", nil)
		return NewExitError(ExitCommandError, "no query log configured")
	}

	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open query log", err)
	}
	defer st.Close()

	var h History
	if opts.Question != "" {
		fp := ir.Fingerprint(opts.Question)
		h.Entries, err = st.ByFingerprint(cmd.Context(), fp)
		if err == nil {
			h.Count, err = st.CountByFingerprint(cmd.Context(), fp)
		}
	} else {
		h.Entries, err = st.Recent(cmd.Context(), opts.Limit)
		h.Count = len(h.Entries)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read query log", err)
	}

	return formatter.Success(h)
}
