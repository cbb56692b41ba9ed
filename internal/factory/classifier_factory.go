package factory

import (
	"github.com/mikey/spam-console/internal/adapters/classifier"
	"github.com/mikey/spam-console/internal/config"
	"go.uber.org/zap"
)

// ClassifierFactory creates classification service clients
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates an HTTP client for the configured service
func (f *ClassifierFactory) CreateClassifier() (*classifier.HTTPClient, error) {
	svc, err := f.cfg.GetService()
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Using classification service",
		zap.String("endpoint", svc.Endpoint),
		zap.String("health_endpoint", svc.HealthEndpoint),
		zap.Duration("timeout", svc.Timeout))

	return classifier.NewHTTPClient(svc.Endpoint, svc.HealthEndpoint, svc.Timeout, f.logger), nil
}
