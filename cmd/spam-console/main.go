package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/mikey/spam-console/internal/adapters/console"
	"github.com/mikey/spam-console/internal/config"
	"github.com/mikey/spam-console/internal/di"
	"github.com/mikey/spam-console/internal/metrics"
	"github.com/mikey/spam-console/internal/ports"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
		os.Exit(2)
	}

	fd := os.Stdin.Fd()
	stdio := di.Stdio{
		In:         os.Stdin,
		Out:        os.Stdout,
		IsTerminal: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}

	// Build the dependency injection container
	container, err := di.BuildContainer(flags, stdio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		// Failures already rendered to the user only change the exit code
		if !errors.Is(err, console.ErrAnalysisFailed) {
			fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	recorder *metrics.Recorder,
	frontend ports.Frontend,
) error {
	defer logger.Sync()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if addr := cfg.GetMetrics().ListenAddress; addr != "" {
		go func() {
			if err := recorder.Serve(ctx, addr, logger); err != nil {
				logger.Error("Metrics listener failed", zap.Error(err))
			}
		}()
	}

	if err := frontend.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			logger.Info("Interrupted, shutting down")
			return nil
		}
		logger.Debug("Frontend finished with error", zap.Error(err))
		return err
	}

	logger.Debug("Shutdown complete")
	return nil
}
