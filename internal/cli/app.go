package cli

import (
	"io"
	"log/slog"

	"github.com/roach88/nlquery/internal/config"
	"github.com/roach88/nlquery/internal/corenlp"
	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/store"
	"github.com/roach88/nlquery/internal/wikidata"
)

// App is a fully wired question engine.
type App struct {
	Config *config.Config
	Engine *engine.Engine
	Store  *store.Store // nil when the query log is disabled
	Logger *slog.Logger
}

// Close releases the query log.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// loadConfig reads configuration and builds the logger. --verbose overrides
// the configured level.
func loadConfig(opts *RootOptions, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err).withReason(ErrCodeConfig)
	}

	level := cfg.Log.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

// loadGrammar compiles the grammar file, or the built-in grammar when path
// is empty.
func loadGrammar(path string) (*grammar.Grammar, error) {
	if path == "" {
		return grammar.LoadDefault()
	}
	return grammar.Load(path)
}

// newApp wires parser, knowledge base, grammar and query log from config.
func newApp(opts *RootOptions, stderr io.Writer) (*App, error) {
	cfg, logger, err := loadConfig(opts, stderr)
	if err != nil {
		return nil, err
	}

	g, err := loadGrammar(opts.GrammarPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load grammar", err).withReason(ErrCodeGrammar)
	}

	parser, err := corenlp.New(corenlp.Config{
		Host:       cfg.Parser.Host,
		Port:       cfg.Parser.Port,
		Timeout:    cfg.Parser.Timeout(),
		Properties: cfg.Parser.Properties,
	}, corenlp.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid parser config", err).withReason(ErrCodeConfig)
	}

	client := wikidata.NewClient(wikidata.Config{
		APIURL:            cfg.Wikidata.APIURL,
		SPARQLURL:         cfg.Wikidata.SPARQLURL,
		Language:          cfg.Wikidata.Language,
		UserAgent:         cfg.Wikidata.UserAgent,
		RequestsPerSecond: cfg.Wikidata.RequestsPerSecond,
		Timeout:           cfg.Wikidata.Timeout(),
	}, wikidata.WithClientLogger(logger))
	kb := wikidata.NewKnowledgeBase(client, wikidata.WithLogger(logger))

	app := &App{Config: cfg, Logger: logger}
	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path, store.WithLogger(logger))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open query log", err).withReason(ErrCodeStore)
		}
		app.Store = st
		engineOpts = append(engineOpts, engine.WithRecorder(st))
		logger.Debug("query log enabled", "path", cfg.Store.Path)
	}

	app.Engine = engine.New(parser, kb, g, engineOpts...)
	return app, nil
}

// closeApp closes app, logging failures.
func closeApp(app *App) {
	if err := app.Close(); err != nil {
		app.Logger.Error("error closing query log", "error", err)
	}
}
