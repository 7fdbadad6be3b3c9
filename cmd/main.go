package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/emsanalytics/internal/app"
	"github.com/okian/emsanalytics/internal/config"
	"github.com/okian/emsanalytics/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one analytics batch and returns the process exit code.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintf(stderr, "error: setup: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: config: %v\n", err)
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := app.NewFromConfig(cfg, log, app.WithSummaryOutput(stdout))
	if err != nil {
		fmt.Fprintf(stderr, "error: setup: %v\n", err)
		return 1
	}

	if _, err := svc.Run(ctx); err != nil {
		var stageErr *app.StageError
		if errors.As(err, &stageErr) {
			fmt.Fprintf(stderr, "error: %s: %v\n", stageErr.Stage, stageErr.Err)
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	fmt.Fprintf(stdout, "\nReports generated in %q.\n", cfg.OutputDir)
	return 0
}
