package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-console/internal/adapters/classifier"
	"github.com/mikey/spam-console/internal/adapters/console"
	"github.com/mikey/spam-console/internal/config"
	"github.com/mikey/spam-console/internal/core"
	"github.com/mikey/spam-console/internal/factory"
	"github.com/mikey/spam-console/internal/input"
	"github.com/mikey/spam-console/internal/logging"
	"github.com/mikey/spam-console/internal/metrics"
	"github.com/mikey/spam-console/internal/ports"
	"github.com/mikey/spam-console/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer(flags *CLIFlags, stdio Stdio) (*dig.Container, error) {
	container := dig.New()

	// Register flags and terminal
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() Stdio { return stdio }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags) (*config.Config, error) {
		return config.New(flags.ConfigFile, flags.FlagSet)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(metrics.NewRecorder); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *metrics.Recorder) core.Observer { return r }); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}

	// Register text processing
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory, tp *utils.TextProcessor) *input.Reader {
		return f.CreateInputReader(tp)
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (*classifier.HTTPClient, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *classifier.HTTPClient) core.Classifier { return c }); err != nil {
		return nil, err
	}

	// Register request controller
	if err := container.Provide(core.NewController); err != nil {
		return nil, err
	}

	// Register renderer
	if err := container.Provide(func(
		controller *core.Controller,
		cfg *config.Config,
		logger *zap.Logger,
		stdio Stdio,
	) (*console.Renderer, error) {
		svc, err := cfg.GetService()
		if err != nil {
			return nil, err
		}
		return console.NewRenderer(controller, stdio.Out, logger, cfg.GetConsole(), svc.Endpoint), nil
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory, flags *CLIFlags, stdio Stdio) (ports.Frontend, error) {
		return f.CreateFrontend(factory.FrontendOptions{
			Mode:    flags.Mode(stdio.IsTerminal),
			Message: flags.Message,
			File:    flags.File,
			Stdin:   stdio.In,
			Stdout:  stdio.Out,
		})
	}); err != nil {
		return nil, err
	}

	return container, nil
}
