// Package cli implements the non-interactive catalog commands and the
// wiring shared with the TUI.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/studiowebux/catalog/internal/auth"
	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/history"
	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/realtime"
	"github.com/studiowebux/catalog/internal/session"
	"github.com/studiowebux/catalog/internal/tui"
	"github.com/studiowebux/catalog/internal/types"
)

// Options holds the global flags
type Options struct {
	Profile string
	Output  string // json, yaml, text
	Query   string // JMESPath over the command output
	Verbose bool
	LogFile string // empty logs to stderr
}

// Env is the loaded configuration a command runs with
type Env struct {
	opts    Options
	file    *config.File
	Session *session.Manager
	History *history.Manager
	Logger  *zap.Logger
	Out     io.Writer
	In      io.Reader
}

// Open loads the config file, the session and the history database.
// config.Initialize must have run first.
func Open(opts Options) (*Env, error) {
	var file *config.File
	if path := config.FindFile(); path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		file = f
	}

	level := ""
	if file != nil {
		level = file.Log.Level
	}
	logger, err := NewLogger(opts.Verbose, level, opts.LogFile)
	if err != nil {
		return nil, err
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if opts.Profile != "" {
		if err := mgr.SetActiveProfile(opts.Profile); err != nil {
			return nil, fmt.Errorf("failed to set profile: %w", err)
		}
	}

	hist, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	return &Env{
		opts:    opts,
		file:    file,
		Session: mgr,
		History: hist,
		Logger:  logger,
		Out:     os.Stdout,
		In:      os.Stdin,
	}, nil
}

// Close releases the history database and flushes the logger
func (e *Env) Close() {
	if e.History != nil {
		if err := e.History.Close(); err != nil {
			e.Logger.Warn("failed to close history", zap.Error(err))
		}
	}
	_ = e.Logger.Sync()
}

// NewLogger builds the production logger. Verbose wins over the configured
// level; without either only warnings are written.
func NewLogger(verbose bool, level, file string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if level != "" {
		l, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(l)
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Backend resolves the backend of a profile
func (e *Env) Backend(p types.Profile) config.Backend {
	return config.Resolve(e.file, &p)
}

// Connect builds the clients of a profile. Writes are recorded in the
// history while it is enabled.
func (e *Env) Connect(p types.Profile) (*tui.Services, error) {
	backend := e.Backend(p)
	if err := backend.Validate(); err != nil {
		return nil, err
	}

	authClient, err := auth.New(backend, e.Logger)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokenSource(authClient, e.Session)

	opts := []postgrest.Option{
		postgrest.WithTokenSource(tokens),
		postgrest.WithLogger(e.Logger),
		postgrest.WithProfile(p.Name),
		postgrest.WithHeaders(p.Headers),
	}
	if e.History != nil && e.Session.IsHistoryEnabled() {
		opts = append(opts, postgrest.WithRecorder(e.History))
	}
	client, err := postgrest.New(backend, opts...)
	if err != nil {
		return nil, err
	}

	services := &tui.Services{Store: catalog.New(client), Auth: authClient}
	if p.Realtime == nil || *p.Realtime {
		rt, err := realtime.New(backend,
			realtime.WithTokenSource(tokens),
			realtime.WithLogger(e.Logger),
		)
		if err != nil {
			return nil, err
		}
		services.Realtime = rt
	}

	e.Logger.Debug("connected", zap.String("profile", p.Name), zap.String("url", backend.URL))
	return services, nil
}

// services connects the active profile
func (e *Env) services() (*tui.Services, error) {
	return e.Connect(*e.Session.GetActiveProfile())
}

// RunTUI starts the interactive editor with the user's keybindings
func (e *Env) RunTUI() error {
	keys, err := keybinds.LoadOrDefault(filepath.Join(config.ConfigDir, keybinds.FileName))
	if err != nil {
		return err
	}
	return tui.Run(tui.Deps{
		Session:  e.Session,
		Connect:  e.Connect,
		History:  e.History,
		Keybinds: keys,
		Logger:   e.Logger,
	})
}

// errUsage marks invalid command input
var errUsage = errors.New("invalid usage")
