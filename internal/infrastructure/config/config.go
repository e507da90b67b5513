// Package config loads board.yaml: server address, AI provider settings and
// the lanes the board starts with.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "board.yaml"

// Config is the on-disk configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Lanes  []LaneConfig `yaml:"lanes,omitempty"`

	Notifications NotificationsConfig `yaml:"notifications,omitempty"`
}

// NotificationsConfig lists outgoing webhooks for board events.
type NotificationsConfig struct {
	Webhooks       []events.WebhookEndpoint `yaml:"webhooks,omitempty"`
	DeadLetterFile string                   `yaml:"dead_letter_file,omitempty"`
}

// ServerConfig controls the dashboard listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AIConfig stores provider defaults and resilience tuning.
type AIConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	MaxRetries   int    `yaml:"max_retries,omitempty"`
	RetryDelayMs int    `yaml:"retry_delay_ms,omitempty"`
	TimeoutSec   int    `yaml:"timeout_sec,omitempty"`
}

// RetryDelay converts RetryDelayMs.
func (c AIConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Timeout converts TimeoutSec.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// LaneConfig seeds one lane.
type LaneConfig struct {
	ID    string       `yaml:"id"`
	Title string       `yaml:"title"`
	Color string       `yaml:"color,omitempty"`
	Tasks []TaskConfig `yaml:"tasks,omitempty"`
}

// TaskConfig seeds one task. In YAML it may be a plain string or a mapping
// with id and content.
type TaskConfig struct {
	ID      string `yaml:"id,omitempty"`
	Content string `yaml:"content"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (t *TaskConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Content = node.Value
		return nil
	}
	type plain TaskConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TaskConfig(p)
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		AI:     AIConfig{Provider: "ollama", Model: "llama3"},
	}
	for _, l := range board.DefaultLanes() {
		lc := LaneConfig{ID: l.ID, Title: l.Title, Color: l.Color}
		for _, t := range l.Tasks {
			lc.Tasks = append(lc.Tasks, TaskConfig{ID: t.ID, Content: t.Content})
		}
		cfg.Lanes = append(cfg.Lanes, lc)
	}
	return cfg
}

// Load reads path. A missing file yields Default(); missing sections are
// filled from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	def := Default()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = def.AI.Provider
		if cfg.AI.Model == "" {
			cfg.AI.Model = def.AI.Model
		}
	}
	if len(cfg.Lanes) == 0 {
		cfg.Lanes = def.Lanes
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the lane seed and numeric ranges.
func (c *Config) Validate() error {
	if c.AI.RetryDelayMs < 0 || c.AI.TimeoutSec < 0 {
		return fmt.Errorf("ai: retry_delay_ms and timeout_sec must not be negative")
	}
	seen := make(map[string]bool, len(c.Lanes))
	for i, l := range c.Lanes {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return fmt.Errorf("lanes[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("lanes[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
	}
	for i, wh := range c.Notifications.Webhooks {
		if strings.TrimSpace(wh.URL) == "" {
			return fmt.Errorf("notifications.webhooks[%d]: url is required", i)
		}
		switch wh.Format {
		case "", events.WebhookFormatJSON, events.WebhookFormatSlack:
		default:
			return fmt.Errorf("notifications.webhooks[%d]: unknown format %q", i, wh.Format)
		}
	}
	return nil
}

// BoardLanes converts the lane seed for board.New. Lanes without a title use their ID.
func (c *Config) BoardLanes() []board.Lane {
	lanes := make([]board.Lane, 0, len(c.Lanes))
	for _, l := range c.Lanes {
		title := l.Title
		if title == "" {
			title = l.ID
		}
		lane := board.Lane{ID: l.ID, Title: title, Color: l.Color}
		for _, t := range l.Tasks {
			lane.Tasks = append(lane.Tasks, board.Task{ID: t.ID, Content: t.Content})
		}
		lanes = append(lanes, lane)
	}
	return lanes
}
