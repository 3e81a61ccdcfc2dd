package domain

import (
	"fmt"
	"time"
)

// DatabaseConfig holds the audit connection settings. The connect
// timeout is deliberately shorter than the query timeout so an absent
// database fails fast without cutting slow catalog queries short.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	Role            string `yaml:"role"`
	ConnectTimeoutS int    `yaml:"connect_timeout_seconds"`
	QueryTimeoutS   int    `yaml:"query_timeout_seconds"`
}

func (d DatabaseConfig) ConnectTimeout() time.Duration {
	return time.Duration(d.ConnectTimeoutS) * time.Second
}

func (d DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(d.QueryTimeoutS) * time.Second
}

// Config is the audit run configuration, loaded from .readycheck.yaml.
type Config struct {
	BackendURL   string         `yaml:"backend_url"`
	FrontendURL  string         `yaml:"frontend_url"`
	FrontendDir  string         `yaml:"frontend_dir"`
	Database     DatabaseConfig `yaml:"database"`
	HTTPTimeoutS int            `yaml:"http_timeout_seconds"`
	ReportPath   string         `yaml:"report_path"`
	AutoFix      bool           `yaml:"auto_fix"`
	Verbose      bool           `yaml:"verbose"`
	Phases       []string       `yaml:"phases"`

	// Test credentials for the login and authenticated-endpoint probes.
	TestEmail    string `yaml:"test_email"`
	TestPassword string `yaml:"test_password"`
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutS) * time.Second
}

// DefaultConfig returns the configuration used when no .readycheck.yaml
// exists.
func DefaultConfig() Config {
	return Config{
		BackendURL:   "http://localhost:4000",
		FrontendURL:  "http://localhost:3000",
		FrontendDir:  "./frontend",
		HTTPTimeoutS: 10,
		ReportPath:   "readycheck-report.json",
		Database: DatabaseConfig{
			Role:            "remit_app",
			ConnectTimeoutS: 5,
			QueryTimeoutS:   30,
		},
	}
}

// ValidPhaseNames lists every phase the orchestrator knows how to run.
var ValidPhaseNames = []string{
	PhaseFrontendBackend,
	PhaseDatabase,
	PhaseRealtime,
	PhaseSecurity,
	PhaseHealth,
	PhasePages,
	PhaseIntrospection,
}

// Validate rejects configurations that would make the run meaningless.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty")
	}
	if c.HTTPTimeoutS <= 0 {
		return fmt.Errorf("http_timeout_seconds must be positive, got %d", c.HTTPTimeoutS)
	}
	if c.Database.ConnectTimeoutS <= 0 || c.Database.QueryTimeoutS <= 0 {
		return fmt.Errorf("database timeouts must be positive")
	}
	if c.Database.ConnectTimeoutS > c.Database.QueryTimeoutS {
		return fmt.Errorf("database connect timeout (%ds) must not exceed query timeout (%ds)",
			c.Database.ConnectTimeoutS, c.Database.QueryTimeoutS)
	}
	for _, p := range c.Phases {
		if !knownPhase(p) {
			return fmt.Errorf("unknown phase %q (valid: %v)", p, ValidPhaseNames)
		}
	}
	return nil
}

func knownPhase(name string) bool {
	for _, p := range ValidPhaseNames {
		if p == name {
			return true
		}
	}
	return false
}
