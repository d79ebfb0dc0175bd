package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jmallek/lectern/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
// The daemon runs in the foreground until interrupted.
func (c *ServeCommand) Execute(args []string) error {
	cfg := loadConfig(c.globals)

	host := cfg.Daemon.Host
	if c.Host != "" {
		host = c.Host
	}
	port := cfg.Daemon.Port
	if c.Port != 0 {
		port = c.Port
	}

	logger, err := buildLogger(cfg.Logging.Level, c.globals != nil && c.globals.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(store, logger, c.version)
	addr := fmt.Sprintf("%s:%d", host, port)
	return srv.Run(ctx, addr)
}

// buildLogger creates the daemon's zap logger at the configured level.
func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if parsed, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(parsed)
	}
	return config.Build()
}
