package config

import "strings"

type Config struct {
	Provider          string                    `yaml:"provider"`
	APIKeyEnv         string                    `yaml:"api_key_env"`
	TaxonomyFile      string                    `yaml:"taxonomy_file"`
	Concurrency       int                       `yaml:"concurrency"`
	RequestTimeoutSec int                       `yaml:"request_timeout_sec"`
	RateLimitRPS      float64                   `yaml:"rate_limit_rps"`
	Output            OutputConfig              `yaml:"output"`
	Pipeline          PipelineConfig            `yaml:"pipeline"`
	Pricing           PricingConfig             `yaml:"pricing"`
	History           HistoryConfig             `yaml:"history"`
	Providers         map[string]ProviderConfig `yaml:"providers"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	Zip *bool  `yaml:"zip"`
}

type PipelineConfig struct {
	Remove   *bool `yaml:"remove"`
	Sanitize *bool `yaml:"sanitize"`
	Split    bool  `yaml:"split"`
}

type PricingConfig struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

type HistoryConfig struct {
	DSN string `yaml:"dsn"`
}

type ProviderConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type Paths struct {
	HomeDir          string
	RootDir          string
	ConfigPath       string
	TaxonomyPath     string
	EnvPath          string
	EnvExample       string
	ConfigSource     string
	ResolvedTaxonomy string
}

var defaultProviders = map[string]ProviderConfig{
	"openai":   {BaseURL: "https://api.openai.com", Model: "gpt-4.1", Temperature: 0.05, MaxTokens: 50},
	"deepseek": {BaseURL: "https://api.deepseek.com", Model: "deepseek-chat", Temperature: 0.05, MaxTokens: 50},
	"gemini":   {Model: "gemini-2.0-flash", Temperature: 0.05, MaxTokens: 50},
	"claude":   {BaseURL: "https://api.anthropic.com", Model: "claude-3-5-haiku-latest", Temperature: 0.05, MaxTokens: 50},
}

var defaultKeyEnv = map[string]string{
	"openai":   "OPENAI_API_KEY",
	"deepseek": "DEEPSEEK_API_KEY",
	"gemini":   "GEMINI_API_KEY",
	"claude":   "ANTHROPIC_API_KEY",
}

func (c *Config) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if strings.TrimSpace(c.APIKeyEnv) == "" {
		c.APIKeyEnv = DefaultKeyEnv(c.Provider)
	}
	if strings.TrimSpace(c.TaxonomyFile) == "" {
		c.TaxonomyFile = "~/.word-styler/taxonomy.yaml"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 20
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = 45
	}
	if c.RateLimitRPS < 0 {
		c.RateLimitRPS = 0
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = "output"
	}
	if c.Output.Zip == nil {
		c.Output.Zip = boolPtr(true)
	}
	if c.Pipeline.Remove == nil {
		c.Pipeline.Remove = boolPtr(true)
	}
	if c.Pipeline.Sanitize == nil {
		c.Pipeline.Sanitize = boolPtr(true)
	}
	if c.Pricing.InputPerMillion <= 0 {
		c.Pricing.InputPerMillion = 2.0
	}
	if c.Pricing.OutputPerMillion <= 0 {
		c.Pricing.OutputPerMillion = 8.0
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}
	for name, def := range defaultProviders {
		pc, ok := c.Providers[name]
		if !ok {
			c.Providers[name] = def
			continue
		}
		if strings.TrimSpace(pc.Model) == "" {
			pc.Model = def.Model
		}
		if strings.TrimSpace(pc.BaseURL) == "" {
			pc.BaseURL = def.BaseURL
		}
		if pc.MaxTokens <= 0 {
			pc.MaxTokens = def.MaxTokens
		}
		c.Providers[name] = pc
	}
}

func DefaultKeyEnv(provider string) string {
	if k, ok := defaultKeyEnv[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return k
	}
	return "OPENAI_API_KEY"
}

func boolPtr(v bool) *bool { return &v }
