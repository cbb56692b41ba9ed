package factory

import (
	"fmt"
	"io"

	"github.com/mikey/spam-console/internal/adapters/classifier"
	"github.com/mikey/spam-console/internal/adapters/console"
	"github.com/mikey/spam-console/internal/config"
	"github.com/mikey/spam-console/internal/core"
	"github.com/mikey/spam-console/internal/input"
	"github.com/mikey/spam-console/internal/ports"
	"github.com/mikey/spam-console/internal/utils"
	"go.uber.org/zap"
)

// Frontend modes
const (
	ModeInteractive = "interactive"
	ModeOneShot     = "oneshot"
	ModeCheck       = "check"
)

// FrontendOptions selects and feeds a frontend
type FrontendOptions struct {
	Mode    string
	Message string
	File    string
	Stdin   io.Reader
	Stdout  io.Writer
}

// FrontendFactory creates frontends based on the selected mode
type FrontendFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	controller    *core.Controller
	client        *classifier.HTTPClient
	renderer      *console.Renderer
	reader        *input.Reader
	textProcessor *utils.TextProcessor
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	controller *core.Controller,
	client *classifier.HTTPClient,
	renderer *console.Renderer,
	reader *input.Reader,
	textProcessor *utils.TextProcessor,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:           cfg,
		logger:        logger,
		controller:    controller,
		client:        client,
		renderer:      renderer,
		reader:        reader,
		textProcessor: textProcessor,
	}
}

// CreateFrontend creates the frontend for opts.Mode
func (f *FrontendFactory) CreateFrontend(opts FrontendOptions) (ports.Frontend, error) {
	switch opts.Mode {
	case ModeInteractive:
		return console.NewInteractive(
			f.controller,
			f.renderer,
			opts.Stdin,
			f.cfg.GetConsole().Platform,
			f.logger,
		), nil
	case ModeOneShot:
		return console.NewOneShot(
			f.controller,
			f.renderer,
			f.reader,
			f.textProcessor,
			f.logger,
			opts.Message,
			opts.File,
			opts.Stdin,
		), nil
	case ModeCheck:
		return console.NewHealthCheck(f.client, opts.Stdout, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported frontend mode: %s", opts.Mode)
	}
}
