package config

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"
)

// ServiceConfig represents the classification service endpoints
type ServiceConfig struct {
	Endpoint       string
	HealthEndpoint string
	Timeout        time.Duration
}

// ConsoleConfig represents the terminal front end settings
type ConsoleConfig struct {
	Format   string
	Advanced bool
	BarWidth int
	Platform string
}

// MetricsConfig represents the Prometheus listener settings
type MetricsConfig struct {
	ListenAddress string
}

// GetService returns the validated service configuration
func (c *Config) GetService() (ServiceConfig, error) {
	endpoint := strings.TrimSpace(c.GetString("service.endpoint"))
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ServiceConfig{}, fmt.Errorf("invalid service endpoint %q", endpoint)
	}

	timeout, err := c.GetDuration("service.timeout")
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("invalid service timeout: %w", err)
	}

	health := strings.TrimSpace(c.GetString("service.health_endpoint"))
	if health == "" {
		health = deriveHealthEndpoint(u)
	}

	return ServiceConfig{
		Endpoint:       endpoint,
		HealthEndpoint: health,
		Timeout:        timeout,
	}, nil
}

// deriveHealthEndpoint swaps the last path segment of the predict URL for
// "health", the service's sibling route.
func deriveHealthEndpoint(predict *url.URL) string {
	h := *predict
	h.RawQuery = ""
	path := strings.TrimSuffix(h.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[:i]
	}
	h.Path = path + "/health"
	return h.String()
}

// GetConsole returns the console configuration
func (c *Config) GetConsole() ConsoleConfig {
	platform := c.GetString("console.platform")
	if platform == "" {
		platform = runtime.GOOS
	}
	return ConsoleConfig{
		Format:   strings.ToLower(c.GetString("console.format")),
		Advanced: c.GetBool("console.advanced"),
		BarWidth: c.GetInt("console.bar_width"),
		Platform: platform,
	}
}

// GetMetrics returns the metrics configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		ListenAddress: c.GetString("metrics.listen_address"),
	}
}
