package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	svc, err := cfg.GetService()
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	if svc.Endpoint != "http://localhost:8000/predict" {
		t.Errorf("endpoint = %q", svc.Endpoint)
	}
	if svc.HealthEndpoint != "http://localhost:8000/health" {
		t.Errorf("health endpoint = %q", svc.HealthEndpoint)
	}
	if svc.Timeout != 0 {
		t.Errorf("timeout = %v, want none", svc.Timeout)
	}

	console := cfg.GetConsole()
	if console.Format != "text" || console.Advanced || console.BarWidth != 30 || console.Platform == "" {
		t.Errorf("console = %+v", console)
	}
	if cfg.GetMetrics().ListenAddress != "" {
		t.Error("metrics listener should be disabled by default")
	}
}

func TestConfigFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`service:
  endpoint: https://spam.example.com/api/predict
  timeout: 15s
console:
  bar_width: 12
  advanced: true
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SPAM_CONSOLE_CONSOLE_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("bar-width", 30, "")
	flags.String("platform", "", "")
	if err := flags.Parse([]string{"--platform=darwin"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(path, flags)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	svc, err := cfg.GetService()
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	if svc.Endpoint != "https://spam.example.com/api/predict" {
		t.Errorf("endpoint = %q", svc.Endpoint)
	}
	if svc.HealthEndpoint != "https://spam.example.com/api/health" {
		t.Errorf("health endpoint = %q", svc.HealthEndpoint)
	}
	if svc.Timeout != 15*time.Second {
		t.Errorf("timeout = %v", svc.Timeout)
	}

	console := cfg.GetConsole()
	if console.BarWidth != 12 {
		t.Errorf("bar width = %d, unchanged flag must not override the file", console.BarWidth)
	}
	if !console.Advanced {
		t.Error("advanced should come from the file")
	}
	if console.Format != "json" {
		t.Errorf("format = %q, want json from env", console.Format)
	}
	if console.Platform != "darwin" {
		t.Errorf("platform = %q, want darwin from flag", console.Platform)
	}
}

func TestMissingExplicitConfigFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestInvalidService(t *testing.T) {
	tests := map[string]string{
		"service.endpoint": "not a url",
		"service.timeout":  "soon",
	}
	for key, value := range tests {
		v := NewEmptyViper()
		v.Set(key, value)
		if _, err := NewFromViper(v).GetService(); err == nil {
			t.Errorf("%s=%q: expected an error", key, value)
		}
	}
}

func TestExplicitHealthEndpoint(t *testing.T) {
	v := NewEmptyViper()
	v.Set("service.health_endpoint", "http://localhost:9000/status")
	svc, err := NewFromViper(v).GetService()
	if err != nil {
		t.Fatal(err)
	}
	if svc.HealthEndpoint != "http://localhost:9000/status" {
		t.Errorf("health endpoint = %q", svc.HealthEndpoint)
	}
}
