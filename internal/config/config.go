// Package config loads bloomify settings from an optional YAML file,
// BLOOMIFY_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/llm"
)

// EnvPrefix is prepended to every environment key, with dots turned into
// underscores: quiz.kind is read from BLOOMIFY_QUIZ_KIND.
const EnvPrefix = "BLOOMIFY"

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	DB      DBConfig
	Log     LogConfig
	Quiz    QuizConfig
	Session SessionConfig
	Redis   RedisConfig
	LLM     llm.Config

	// File is the config file that was read, empty when none was found.
	File string
}

type DBConfig struct {
	Path string
}

type LogConfig struct {
	Level string
	Env   string

	// File receives log output; empty means stderr.
	File string
}

type QuizConfig struct {
	QuestionsPerLevel int
	Kind              evaluator.Kind
}

type SessionConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "development")
	v.SetDefault("log.file", "")
	v.SetDefault("quiz.questions_per_level", 3)
	v.SetDefault("quiz.kind", string(evaluator.KindDescriptive))
	v.SetDefault("session.backend", SessionMemory)
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", llmDefaults.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", llmDefaults.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", llmDefaults.Retry.Multiplier)
}

// Load reads configuration. path names an explicit config file; when empty,
// bloomify.yaml is searched for in ".", "./config" and the user config
// directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bloomify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "bloomify"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DB: DBConfig{Path: v.GetString("db.path")},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			Env:   v.GetString("log.env"),
			File:  v.GetString("log.file"),
		},
		Quiz: QuizConfig{
			QuestionsPerLevel: v.GetInt("quiz.questions_per_level"),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(v.GetString("session.backend")),
			TTL:     v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: llm.Config{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Anthropic: llm.AnthropicConfig{
				APIKey: v.GetString("llm.anthropic.api_key"),
				Model:  v.GetString("llm.anthropic.model"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Gemini: llm.GeminiConfig{
				APIKey: v.GetString("llm.gemini.api_key"),
				Model:  v.GetString("llm.gemini.model"),
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
			},
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
			Timeout: v.GetDuration("llm.timeout"),
		},
		File: v.ConfigFileUsed(),
	}

	kind, err := evaluator.ParseKind(v.GetString("quiz.kind"))
	if err != nil {
		return nil, fmt.Errorf("quiz.kind: %w", err)
	}
	cfg.Quiz.Kind = kind

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that do not depend on the chosen LLM provider.
func (c *Config) Validate() error {
	if c.Quiz.QuestionsPerLevel < 1 {
		return fmt.Errorf("quiz.questions_per_level must be positive, got %d", c.Quiz.QuestionsPerLevel)
	}
	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown session.backend %q (want %s or %s)", c.Session.Backend, SessionMemory, SessionRedis)
	}
	return nil
}

// ResolveLLM returns the LLM settings to use. A configured provider wins;
// otherwise the standard vendor key variables are probed. ok is false when
// no provider is available.
func (c *Config) ResolveLLM() (llm.Config, bool) {
	if c.LLM.Provider != "" {
		return c.LLM, true
	}
	discovered, ok := llm.DiscoverConfig()
	if !ok {
		return llm.Config{}, false
	}
	// Keep configured models and retry policy; take only provider and key.
	out := c.LLM
	out.Provider = discovered.Provider
	out.Anthropic.APIKey = firstNonEmpty(out.Anthropic.APIKey, discovered.Anthropic.APIKey)
	out.OpenAI.APIKey = firstNonEmpty(out.OpenAI.APIKey, discovered.OpenAI.APIKey)
	out.Gemini.APIKey = firstNonEmpty(out.Gemini.APIKey, discovered.Gemini.APIKey)
	out.OpenRouter.APIKey = firstNonEmpty(out.OpenRouter.APIKey, discovered.OpenRouter.APIKey)
	return out, true
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
