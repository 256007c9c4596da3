// Package config holds all fundmatch configuration: one typed struct per
// concern, YAML persistence, environment overrides, and boundary
// validation. Dynamic map-shaped settings are deliberately absent; every
// knob the pipeline consumes is a named, typed field validated once
// before any work starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all fundmatch configuration.
type Config struct {
	// LLM scorer configuration
	LLM LLMConfig `yaml:"llm"`

	// Pipeline knobs consumed by the scoring core
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Fund table source
	Source SourceConfig `yaml:"source"`

	// CRM record lookup
	CRM CRMConfig `yaml:"crm"`

	// Result persistence
	Store StoreConfig `yaml:"store"`
}

// LLMConfig configures the external scoring model.
type LLMConfig struct {
	Provider string `yaml:"provider"` // anthropic, openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"` // per-call hard timeout, e.g. "120s"
}

// PipelineConfig configures batching, parallelism and selection.
type PipelineConfig struct {
	// BatchSize is the number of funds per scoring call (>= 1).
	BatchSize int `yaml:"batch_size"`

	// SurvivingPercentage is the top fraction of funds to keep, in (0, 1].
	SurvivingPercentage float64 `yaml:"surviving_percentage"`

	// MaxWorkers bounds the concurrent scoring calls (>= 1).
	MaxWorkers int `yaml:"max_workers"`

	// UseDoc enables fetching a supplementary context document.
	UseDoc bool `yaml:"use_doc"`

	// DocID identifies the supplementary document when UseDoc is set.
	DocID string `yaml:"doc_id"`
}

// SourceConfig configures where the fund table is loaded from.
type SourceConfig struct {
	// Path is a local CSV file. Takes precedence over URL when set.
	Path string `yaml:"path"`

	// URL is an HTTP CSV export endpoint (published sheet export).
	URL string `yaml:"url"`

	// DocBaseURL is the base endpoint for supplementary document fetches.
	DocBaseURL string `yaml:"doc_base_url"`

	Timeout string `yaml:"timeout"`
}

// CRMConfig configures the record-identification workflow.
type CRMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// StoreConfig configures result persistence.
type StoreConfig struct {
	// DatabasePath is the SQLite file for saved runs. Empty disables
	// persistence.
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns the default configuration. Defaults mirror the
// knobs the score command exposes: batches of 10, keep the top half, four
// workers.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "anthropic",
			Timeout:  "120s",
		},
		Pipeline: PipelineConfig{
			BatchSize:           10,
			SurvivingPercentage: 0.5,
			MaxWorkers:          4,
		},
		Source: SourceConfig{
			Timeout: "30s",
		},
		CRM: CRMConfig{
			BaseURL: "https://api.attio.com/v2",
			Timeout: "30s",
		},
		Store: StoreConfig{
			DatabasePath: "fundmatch.db",
		},
	}
}

// Load reads a config file, applies defaults for unset fields, then
// environment overrides. A missing file yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets environment variables win over file values.
// API keys in particular normally arrive through the environment.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FUNDMATCH_SOURCE_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("FUNDMATCH_DB_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("ATTIO_API_KEY"); v != "" {
		c.CRM.APIKey = v
	}
	if c.LLM.APIKey != "" {
		return
	}
	// Provider key detection order matches the scorer factory.
	for _, p := range []struct{ env, provider string }{
		{"ANTHROPIC_API_KEY", "anthropic"},
		{"OPENAI_API_KEY", "openai"},
		{"GEMINI_API_KEY", "gemini"},
	} {
		if key := os.Getenv(p.env); key != "" {
			c.LLM.APIKey = key
			if c.LLM.Provider == "" {
				c.LLM.Provider = p.provider
			}
			return
		}
	}
}

// Validate rejects invalid configuration before any work starts.
func (c *Config) Validate() error {
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("pipeline.batch_size must be >= 1, got %d", c.Pipeline.BatchSize)
	}
	if c.Pipeline.SurvivingPercentage <= 0 || c.Pipeline.SurvivingPercentage > 1 {
		return fmt.Errorf("pipeline.surviving_percentage must be in (0, 1], got %v", c.Pipeline.SurvivingPercentage)
	}
	if c.Pipeline.MaxWorkers < 1 {
		return fmt.Errorf("pipeline.max_workers must be >= 1, got %d", c.Pipeline.MaxWorkers)
	}
	if c.Pipeline.UseDoc && c.Pipeline.DocID == "" {
		return fmt.Errorf("pipeline.doc_id is required when pipeline.use_doc is set")
	}
	if c.Source.Path == "" && c.Source.URL == "" {
		return fmt.Errorf("source.path or source.url is required")
	}
	if _, err := c.LLM.TimeoutDuration(); err != nil {
		return fmt.Errorf("llm.timeout: %w", err)
	}
	if _, err := c.Source.TimeoutDuration(); err != nil {
		return fmt.Errorf("source.timeout: %w", err)
	}
	if _, err := c.CRM.TimeoutDuration(); err != nil {
		return fmt.Errorf("crm.timeout: %w", err)
	}
	return nil
}

// TimeoutDuration parses the per-call LLM timeout, defaulting to 120s.
func (c *LLMConfig) TimeoutDuration() (time.Duration, error) {
	return parseTimeout(c.Timeout, 120*time.Second)
}

// TimeoutDuration parses the source fetch timeout, defaulting to 30s.
func (c *SourceConfig) TimeoutDuration() (time.Duration, error) {
	return parseTimeout(c.Timeout, 30*time.Second)
}

// TimeoutDuration parses the CRM call timeout, defaulting to 30s.
func (c *CRMConfig) TimeoutDuration() (time.Duration, error) {
	return parseTimeout(c.Timeout, 30*time.Second)
}

func parseTimeout(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %v", d)
	}
	return d, nil
}
