package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/mock"
)

// mockLogFlush keeps the server log below its cap so printed stays aligned
const mockLogFlush = 900

// MockOptions configures the local backend
type MockOptions struct {
	Seed   string // yaml or json file with port, users and table rows
	Host   string
	Port   int
	Export string // write the default seed to this file and exit
	Quiet  bool
}

// RunMock serves a seeded in-memory backend until ctx is done, printing one
// line per request
func RunMock(ctx context.Context, opts MockOptions, out io.Writer, logger *zap.Logger) error {
	if opts.Export != "" {
		if err := mock.SaveConfig(mock.DefaultConfig(), opts.Export); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "Wrote default seed to %s\n", opts.Export)
		return err
	}

	cfg := mock.DefaultConfig()
	if opts.Seed != "" {
		loaded, err := mock.LoadConfig(opts.Seed)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}

	server := mock.NewServer(cfg, logger)
	if err := server.Start(); err != nil {
		return err
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Warn("failed to stop mock server", zap.Error(err))
		}
	}()

	fmt.Fprintf(out, "Mock backend listening on %s\n", server.GetAddress())
	for _, u := range cfg.Users {
		fmt.Fprintf(out, "  user %s / %s\n", u.Email, u.Password)
	}
	fmt.Fprintf(out, "  metrics %s/metrics\n", server.GetAddress())

	printed := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopping mock backend")
			return nil
		case <-server.NotifyChannel():
			if opts.Quiet || !cfg.Logging {
				continue
			}
			logs := server.GetLogs()
			if printed > len(logs) {
				printed = 0
			}
			for _, l := range logs[printed:] {
				fmt.Fprintf(out, "%s %-6s %-30s %d %s\n",
					l.Timestamp.Format(time.TimeOnly), l.Method, l.Path, l.Status, l.Duration.Round(time.Microsecond))
			}
			printed = len(logs)
			if printed >= mockLogFlush {
				server.ClearLogs()
				printed = 0
			}
		}
	}
}
