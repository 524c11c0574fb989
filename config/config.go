// Package config loads and validates the process configuration: provider
// credentials, model selection, loop bounds and logging. Values come from the
// environment, optionally primed from a .env file. Every failure is reported
// as core.ErrConfiguration before any loop step runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	env "github.com/Netflix/go-env"
	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/logging"
	"github.com/hupe1980/reflectloop/model"
	"github.com/hupe1980/reflectloop/model/anthropic"
	"github.com/hupe1980/reflectloop/model/openai"
	"github.com/hupe1980/reflectloop/reflection"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var validate = validator.New()

// Config holds everything needed to build the role agents and the loop.
type Config struct {
	Provider        string  `env:"REFLECT_PROVIDER,default=openai" validate:"oneof=openai anthropic"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY" validate:"required_if=Provider openai"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY" validate:"required_if=Provider anthropic"`
	BaseURL         string  `env:"REFLECT_BASE_URL" validate:"omitempty,url"`
	GeneratorModel  string  `env:"REFLECT_GENERATOR_MODEL"`
	CriticModel     string  `env:"REFLECT_CRITIC_MODEL"`
	Temperature     float64 `env:"REFLECT_TEMPERATURE,default=0.7" validate:"gte=0,lte=2"`
	MaxTokens       int     `env:"REFLECT_MAX_TOKENS,default=1024" validate:"gt=0"`
	MaxMessages     int     `env:"REFLECT_MAX_MESSAGES,default=5" validate:"gte=0"`
	MaxRounds       int     `env:"REFLECT_MAX_ROUNDS,default=0" validate:"gte=0"`
	Stream          bool    `env:"REFLECT_STREAM,default=false"`
	LogLevel        string  `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn warning error"`
	LogFormat       string  `env:"LOG_FORMAT,default=text" validate:"oneof=text json"`
}

// Load reads the given .env files (".env" when none are given; missing files
// are ignored), then unmarshals and validates the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: load env file: %v", core.ErrConfiguration, err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}

	return cfg, cfg.Validate()
}

// FromMap unmarshals and validates configuration from an explicit key/value
// set instead of the process environment.
func FromMap(values map[string]string) (Config, error) {
	var cfg Config
	if err := env.Unmarshal(env.EnvSet(values), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks field constraints. The returned error wraps
// core.ErrConfiguration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	return nil
}

// GeneratorLLM builds the model backing the generator.
func (c Config) GeneratorLLM() (model.Model, error) { return c.NewModel(c.GeneratorModel) }

// CriticLLM builds the model backing the critic. It falls back to the
// generator model when no critic model is configured.
func (c Config) CriticLLM() (model.Model, error) {
	name := c.CriticModel
	if name == "" {
		name = c.GeneratorModel
	}
	return c.NewModel(name)
}

// NewModel constructs a provider model with credentials injected explicitly.
// An empty name selects the provider's default model.
func (c Config) NewModel(name string) (model.Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Provider {
	case ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if name != "" {
				o.Model = name
			}
			o.APIKey = c.OpenAIAPIKey
			o.BaseURL = c.BaseURL
			o.Temperature = c.Temperature
			o.MaxCompletionTokens = int64(c.MaxTokens)
		}), nil
	case ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if name != "" {
				o.Model = sdkanthropic.Model(name)
			}
			o.APIKey = c.AnthropicAPIKey
			o.BaseURL = c.BaseURL
			o.Temperature = c.Temperature
			o.MaxTokens = int64(c.MaxTokens)
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", core.ErrConfiguration, c.Provider)
	}
}

// StopPolicy returns the configured termination policy. A positive MaxRounds
// takes precedence over the message-count bound.
func (c Config) StopPolicy() reflection.StopPolicy {
	if c.MaxRounds > 0 {
		return reflection.MaxRounds(c.MaxRounds)
	}
	return reflection.MaxMessages(c.MaxMessages)
}

// Logger builds the structured logger described by LogLevel and LogFormat.
func (c Config) Logger() (*logging.ReflectLogger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	return logging.NewSlogLogger(level, c.LogFormat, false), nil
}
