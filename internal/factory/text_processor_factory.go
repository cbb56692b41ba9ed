package factory

import (
	"github.com/mikey/spam-console/internal/input"
	"github.com/mikey/spam-console/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates text processors and input readers
type TextProcessorFactory struct {
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateInputReader creates a new input reader
func (f *TextProcessorFactory) CreateInputReader(tp *utils.TextProcessor) *input.Reader {
	return input.NewReader(f.logger, tp)
}
