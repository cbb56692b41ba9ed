package console

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/mikey/spam-console/internal/core"
	"github.com/mikey/spam-console/internal/input"
	"github.com/mikey/spam-console/internal/utils"
	"go.uber.org/zap"
)

var (
	// ErrEmptyMessage is returned when one-shot input holds no text
	ErrEmptyMessage = errors.New("nothing to analyze: message is empty")
	// ErrAnalysisFailed is returned when the analysis ends in the failed phase
	ErrAnalysisFailed = errors.New("analysis failed")
)

const previewRunes = 500

// OneShot analyzes a single message from a flag, a file or a pipe
type OneShot struct {
	controller    *core.Controller
	renderer      *Renderer
	reader        *input.Reader
	textProcessor *utils.TextProcessor
	logger        *zap.Logger

	message string
	file    string
	stdin   io.Reader
}

// NewOneShot creates a one-shot frontend. message takes precedence over file,
// which takes precedence over stdin.
func NewOneShot(
	controller *core.Controller,
	renderer *Renderer,
	reader *input.Reader,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	message string,
	file string,
	stdin io.Reader,
) *OneShot {
	return &OneShot{
		controller:    controller,
		renderer:      renderer,
		reader:        reader,
		textProcessor: textProcessor,
		logger:        logger,
		message:       message,
		file:          file,
		stdin:         stdin,
	}
}

// Run analyzes the message and waits for the terminal phase
func (o *OneShot) Run(ctx context.Context) error {
	message, err := o.load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	o.renderer.Notice("\n=== Message ===\n%s\nLength: %d bytes\n\n",
		o.textProcessor.Preview(message, previewRunes), len(message))

	o.controller.Analyze(ctx, message)
	o.controller.Wait()

	if o.controller.State().Phase == core.PhaseFailed {
		return ErrAnalysisFailed
	}
	return nil
}

func (o *OneShot) load() (string, error) {
	switch {
	case o.message != "":
		return o.message, nil
	case o.file != "":
		return o.reader.ReadFile(o.file)
	default:
		o.logger.Debug("Reading message from stdin")
		return o.reader.Read(o.stdin)
	}
}
