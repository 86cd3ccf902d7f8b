// Package config loads runtime configuration from an optional YAML file and
// HABITRPG_* environment variables.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/habitrpg/internal/queue"
	"github.com/abhisek/habitrpg/internal/rewards"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "habitrpg://config.schema.json"

// Config holds all runtime configuration.
type Config struct {
	// DBPath overrides the default database location. Empty means use
	// store.DefaultDBPath.
	DBPath string `yaml:"db_path"`

	// LogMode is "development" or "production". Default: development.
	LogMode string `yaml:"log_mode"`

	Rewards rewards.Config `yaml:"rewards"`
	Queue   QueueConfig    `yaml:"queue"`
}

// QueueConfig configures Today Queue composition.
type QueueConfig struct {
	MaxItems int `yaml:"max_items"` // Default: 12
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogMode: "development",
		Rewards: rewards.DefaultConfig(),
		Queue:   QueueConfig{MaxItems: queue.DefaultMaxItems},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := validateDocument(raw); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays HABITRPG_* environment variables.
func applyEnv(cfg *Config) error {
	if p := os.Getenv("HABITRPG_DB"); p != "" {
		cfg.DBPath = p
	}
	if m := os.Getenv("HABITRPG_LOG_MODE"); m != "" {
		cfg.LogMode = m
	}
	if v := os.Getenv("HABITRPG_QUEUE_MAX_ITEMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HABITRPG_QUEUE_MAX_ITEMS: %w", err)
		}
		cfg.Queue.MaxItems = n
	}
	return nil
}

// Validate checks value ranges that the schema cannot see, such as those
// set from the environment.
func (c Config) Validate() error {
	switch c.LogMode {
	case "development", "production":
	default:
		return fmt.Errorf("unknown log mode: %q", c.LogMode)
	}
	if c.Queue.MaxItems < 1 {
		return fmt.Errorf("queue.max_items must be >= 1, got %d", c.Queue.MaxItems)
	}
	return c.Rewards.Validate()
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func configSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add config schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a YAML document against the embedded schema. The
// document is round-tripped through JSON so numbers have the types the
// validator expects.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}

	sch, err := configSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
