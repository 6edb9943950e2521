package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/config"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/logger"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/normalize"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/parse"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/store"
)

const dateFormat = "2006-01-02"

// workspace is a loaded ekstre.yaml plus the directory it lives in.
type workspace struct {
	root string
	cfg  *config.Config
	log  zerolog.Logger
}

// loadWorkspace reads the config, builds the logger and attaches it to the
// command context.
func (o *rootOptions) loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	path, err := filepath.Abs(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	var log zerolog.Logger
	if cfg.Log.Console {
		log = logger.New(level)
	} else {
		log = logger.NewWithWriter(cmd.ErrOrStderr(), level)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	return &workspace{root: filepath.Dir(path), cfg: cfg, log: log}, nil
}

func (w *workspace) dbPath() string {
	return config.Resolve(w.root, w.cfg.Database.Path)
}

func (w *workspace) inbox() string {
	return config.Resolve(w.root, w.cfg.Import.Inbox)
}

// openStore opens (and migrates) the workspace database.
func (w *workspace) openStore(cmd *cobra.Command) (*store.SQLite, error) {
	db, err := store.Open(cmd.Context(), w.dbPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return db, nil
}

// pipelineOptions translates the statement section into pipeline options.
func (w *workspace) pipelineOptions() (pipeline.Options, error) {
	matchers, err := w.cfg.Matchers()
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("statement.exclude: %w", err)
	}
	tol, err := w.cfg.Tolerance()
	if err != nil {
		return pipeline.Options{}, err
	}
	st := w.cfg.Statement
	return pipeline.Options{
		Normalize: normalize.Options{
			Currencies:    st.Currencies,
			LocalCurrency: st.DefaultCurrency,
			Exclude:       matchers,
		},
		Parse: parse.Options{
			DefaultCurrency: st.DefaultCurrency,
			Currencies:      st.Currencies,
			EchoPrefixes:    st.EchoPrefixes,
		},
		Tolerance: &tol,
	}, nil
}

// dateRange parses --from/--to. Empty values are unbounded.
func dateRange(from, to string) (store.Filter, error) {
	var f store.Filter
	var err error
	if from != "" {
		if f.From, err = time.Parse(dateFormat, from); err != nil {
			return f, fmt.Errorf("parsing --from %q: %w", from, err)
		}
	}
	if to != "" {
		if f.To, err = time.Parse(dateFormat, to); err != nil {
			return f, fmt.Errorf("parsing --to %q: %w", to, err)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return f, fmt.Errorf("--from %s must be before --to %s", from, to)
	}
	return f, nil
}
