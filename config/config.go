package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Agent modes selectable with AGENT_MODE.
const (
	ModeRouter = "router"
	ModeAgent  = "agent"
)

// Config aggregates all application configuration
type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Agent      AgentConfig      `yaml:"agent"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Log        LogConfig        `yaml:"log"`
}

// AIConfig selects the LLM backend. Only the secret of the selected provider is used.
type AIConfig struct {
	Provider     string          `yaml:"provider" env:"LLM_PROVIDER" env-default:"google"`
	Model        string          `yaml:"model" env:"LLM_MODEL"`
	MaxRetries   int             `yaml:"max_retries" env:"LLM_MAX_RETRIES" env-default:"2"`
	RetryDelayMs int             `yaml:"retry_delay_ms" env:"LLM_RETRY_DELAY_MS" env-default:"500"`
	Google       GoogleConfig    `yaml:"google"`
	OpenAI       OpenAIConfig    `yaml:"openai"`
	Anthropic    AnthropicConfig `yaml:"anthropic"`
}

type GoogleConfig struct {
	APIKey string `yaml:"api_key" env:"GOOGLE_API_KEY"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	BaseURL string `yaml:"base_url" env:"ANTHROPIC_BASE_URL" env-default:"https://api.anthropic.com/v1/"`
}

// AgentConfig picks the answering strategy
type AgentConfig struct {
	Mode      string `yaml:"mode" env:"AGENT_MODE" env-default:"router"`
	MaxTurns  int    `yaml:"max_turns" env:"AGENT_MAX_TURNS" env-default:"5"`
	SessionID string `yaml:"session_id" env:"SESSION_ID"`
}

// TranscriptConfig enables persistence of the agent-mode conversation.
// Driver is sqlite, postgres, mysql or redis (DSN is then a redis:// URL).
// An empty DSN keeps the transcript in memory only.
type TranscriptConfig struct {
	Driver string `yaml:"driver" env:"TRANSCRIPT_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"TRANSCRIPT_DSN"`
	Limit  int    `yaml:"limit" env:"TRANSCRIPT_LIMIT" env-default:"50"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env, config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot express with tags.
// The provider identifier is validated by the providers package.
func (c *Config) Validate() error {
	switch c.Agent.Mode {
	case ModeRouter, ModeAgent:
	default:
		return fmt.Errorf("unsupported agent mode %q (want %q or %q)", c.Agent.Mode, ModeRouter, ModeAgent)
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must not be negative, got %d", c.AI.MaxRetries)
	}
	if c.Agent.MaxTurns <= 0 {
		return fmt.Errorf("AGENT_MAX_TURNS must be positive, got %d", c.Agent.MaxTurns)
	}
	return nil
}
