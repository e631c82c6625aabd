// Package vjconfig loads and validates vibejudge.yaml configuration
// files: the recognised options named in spec §6 plus the per-model
// rate table the cost accounting layer depends on.
package vjconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ModelRate is the per-token cost constants for one model id.
type ModelRate struct {
	InputPerToken  float64 `yaml:"input"`
	OutputPerToken float64 `yaml:"output"`
}

// Config is the root vibejudge.yaml configuration document.
type Config struct {
	// MaxConcurrentSubmissions is W_subs: the ceiling for per-job
	// submission parallelism. Default 8.
	MaxConcurrentSubmissions int `yaml:"max_concurrent_submissions,omitempty"`

	// SubmissionDeadlineSeconds is D_sub: the hard per-submission
	// deadline. Default 900.
	SubmissionDeadlineSeconds int `yaml:"submission_deadline_seconds,omitempty"`

	// CloneBudgetBytes is the disk ceiling that triggers a shallow
	// clone fallback. Default 2 GiB.
	CloneBudgetBytes int64 `yaml:"clone_budget_bytes,omitempty"`

	// ModelRates maps model_id to its per-token input/output cost.
	ModelRates map[string]ModelRate `yaml:"model_rates,omitempty"`

	// DefaultTopFiles is N_files: the extractor's file cap. Default 25.
	DefaultTopFiles int `yaml:"default_top_files,omitempty"`

	// DefaultTopCommits is N_commits: the extractor's commit history
	// cap. Default 100.
	DefaultTopCommits int `yaml:"default_top_commits,omitempty"`

	// DefaultTopDiffs is the extractor's high-churn diff-summary cap.
	// Default 30.
	DefaultTopDiffs int `yaml:"default_top_diffs,omitempty"`

	// AIPolicyMode is the default ai_policy_mode applied to hackathons
	// that do not set one explicitly.
	AIPolicyMode string `yaml:"ai_policy_mode,omitempty"`

	// Etcd holds the concurrency-gate store's connection settings.
	Etcd EtcdConfig `yaml:"etcd,omitempty"`

	// Redis holds the progress-reporting channel's connection settings.
	Redis RedisConfig `yaml:"redis,omitempty"`

	// ModelEndpoint holds the judge model provider's host/port, used
	// only for healthz's reachability check (converse.Client has no
	// uniform ping call of its own).
	ModelEndpoint EndpointConfig `yaml:"model_endpoint,omitempty"`
}

// EndpointConfig is a bare host/port pair for a TCP reachability check.
type EndpointConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// EtcdConfig configures the etcd client backing the atomic
// analysis_status gate.
type EtcdConfig struct {
	Endpoints   []string `yaml:"endpoints,omitempty"`
	DialTimeout string   `yaml:"dial_timeout,omitempty"`
}

// GetDialTimeout parses DialTimeout, defaulting to 5s if unset or
// invalid.
func (e EtcdConfig) GetDialTimeout() time.Duration {
	if e.DialTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(e.DialTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// RedisConfig configures the Redis client backing the orchestrator's
// progress-reporting channel.
type RedisConfig struct {
	URL string `yaml:"url,omitempty"`
	TLS bool   `yaml:"tls,omitempty"`
}

// ApplyDefaults fills in zero-valued fields with the defaults named in
// spec §6, returning a new Config (the receiver is not mutated).
func (c Config) ApplyDefaults() Config {
	out := c
	if out.MaxConcurrentSubmissions <= 0 {
		out.MaxConcurrentSubmissions = 8
	}
	if out.SubmissionDeadlineSeconds <= 0 {
		out.SubmissionDeadlineSeconds = 900
	}
	if out.CloneBudgetBytes <= 0 {
		out.CloneBudgetBytes = 2 * 1024 * 1024 * 1024
	}
	if out.DefaultTopFiles <= 0 {
		out.DefaultTopFiles = 25
	}
	if out.DefaultTopCommits <= 0 {
		out.DefaultTopCommits = 100
	}
	if out.DefaultTopDiffs <= 0 {
		out.DefaultTopDiffs = 30
	}
	if out.AIPolicyMode == "" {
		out.AIPolicyMode = "full_vibe"
	}
	return out
}

// SubmissionDeadline returns SubmissionDeadlineSeconds as a
// time.Duration.
func (c Config) SubmissionDeadline() time.Duration {
	return time.Duration(c.SubmissionDeadlineSeconds) * time.Second
}

// Validate checks that rates are non-negative and required fields are
// present.
func (c Config) Validate() error {
	for modelID, rate := range c.ModelRates {
		if rate.InputPerToken < 0 || rate.OutputPerToken < 0 {
			return fmt.Errorf("vjconfig: model %q has a negative rate", modelID)
		}
	}
	return nil
}

// Load reads and parses a vibejudge.yaml configuration file at path,
// then applies defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("vjconfig: failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("vjconfig: failed to parse config file: %w", err)
	}

	cfg = cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
