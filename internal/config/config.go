package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"rxcheck/internal/errors"
	"rxcheck/models"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Toolkit  ToolkitConfig
	Pipeline PipelineConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// run persistence.
type DatabaseConfig struct {
	URL string
}

// AIConfig holds the diagnostic escalation settings
type AIConfig struct {
	Provider    string
	OpenAIKey   string
	OpenAIModel string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	PromptsDir  string
}

// ToolkitConfig holds the chemistry toolkit endpoint settings
type ToolkitConfig struct {
	URL     string
	Timeout time.Duration
}

// PipelineConfig holds orchestration settings
type PipelineConfig struct {
	ForwardEngineMessage bool
	BatchConcurrency     int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
	UIPort  string
}

// Overrides replaces individual environment settings, e.g. from command-line
// flags. Zero values leave the environment setting in place.
type Overrides struct {
	DiagnosticMode   string
	BatchConcurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides is Load with o applied before validation
func LoadWithOverrides(o Overrides) (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Toolkit:  loadToolkitConfig(),
		Pipeline: loadPipelineConfig(),
		Server:   loadServerConfig(),
	}
	if o.BatchConcurrency > 0 {
		config.Pipeline.BatchConcurrency = o.BatchConcurrency
	}

	mode := os.Getenv("DIAGNOSTIC_MODE")
	if o.DiagnosticMode != "" {
		mode = o.DiagnosticMode
	}
	aiConfig, err := loadAIConfig(mode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}
	config.AI = *aiConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig(mode string) (*AIConfig, error) {
	defaults := models.DefaultAIConfig()

	provider := strings.ToLower(strings.TrimSpace(mode))
	if provider == "" || provider == "llm" {
		provider = models.ProviderOpenAI
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if provider == models.ProviderOpenAI && openaiKey == "" {
		return nil, errors.ConfigInvalid("OPENAI_API_KEY is required when DIAGNOSTIC_MODE=llm")
	}

	return &AIConfig{
		Provider:    provider,
		OpenAIKey:   openaiKey,
		OpenAIModel: getEnvOrDefault("LLM_MODEL", defaults.OpenAIModel),
		BaseURL:     getEnvOrDefault("LLM_BASE_URL", defaults.BaseURL),
		MaxTokens:   getEnvIntOrDefault("LLM_MAX_TOKENS", defaults.MaxTokens),
		Temperature: getEnvFloatOrDefault("LLM_TEMPERATURE", defaults.Temperature),
		Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", defaults.Timeout),
		PromptsDir:  os.Getenv("PROMPTS_DIR"),
	}, nil
}

func loadToolkitConfig() ToolkitConfig {
	return ToolkitConfig{
		URL:     getEnvOrDefault("RDKIT_URL", "http://localhost:8000"),
		Timeout: getEnvDurationOrDefault("RDKIT_TIMEOUT", 0),
	}
}

func loadPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ForwardEngineMessage: getEnvBoolOrDefault("FORWARD_ENGINE_MESSAGE", false),
		BatchConcurrency:     getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
		UIPort:  getEnvOrDefault("UI_PORT", "8081"),
	}
}

func validateConfig(config *Config) error {
	switch config.AI.Provider {
	case models.ProviderOpenAI, models.ProviderHeuristic:
	default:
		return errors.ConfigInvalid("DIAGNOSTIC_MODE must be llm or heuristic, got " + config.AI.Provider)
	}
	if config.AI.Provider == models.ProviderOpenAI && config.AI.OpenAIModel == "" {
		return errors.ConfigInvalid("LLM_MODEL is required")
	}
	if config.Toolkit.URL == "" {
		return errors.ConfigInvalid("RDKIT_URL is required")
	}
	if config.Pipeline.BatchConcurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// EscalationConfig converts the loaded settings into the explicit config
// object the diagnostic escalation is built from.
func (c *Config) EscalationConfig() *models.AIConfig {
	out := models.DefaultAIConfig()
	out.Provider = c.AI.Provider
	out.OpenAIKey = c.AI.OpenAIKey
	out.OpenAIModel = c.AI.OpenAIModel
	out.BaseURL = c.AI.BaseURL
	out.MaxTokens = c.AI.MaxTokens
	out.Temperature = c.AI.Temperature
	out.Timeout = c.AI.Timeout
	out.PromptsDir = c.AI.PromptsDir
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
