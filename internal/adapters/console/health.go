package console

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/spam-console/internal/adapters/classifier"
	"go.uber.org/zap"
)

// HealthChecker is implemented by classifiers exposing a health route
type HealthChecker interface {
	Health(ctx context.Context) (*classifier.HealthStatus, error)
}

// HealthCheck prints the classification service's health
type HealthCheck struct {
	checker HealthChecker
	out     io.Writer
	logger  *zap.Logger
}

// NewHealthCheck creates a new health check frontend
func NewHealthCheck(checker HealthChecker, out io.Writer, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{checker: checker, out: out, logger: logger}
}

// Run queries the service once
func (h *HealthCheck) Run(ctx context.Context) error {
	status, err := h.checker.Health(ctx)
	if err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return fmt.Errorf("classification service unhealthy: %w", err)
	}

	fmt.Fprintf(h.out, "Service status: %s\n", status.Status)
	if status.Model != "" {
		fmt.Fprintf(h.out, "Model: %s\n", status.Model)
	}
	if status.Version != "" {
		fmt.Fprintf(h.out, "Version: %s\n", status.Version)
	}
	return nil
}
