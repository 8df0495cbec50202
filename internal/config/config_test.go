package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	if cfg.Provider != "openai" || cfg.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("provider defaults: %s %s", cfg.Provider, cfg.APIKeyEnv)
	}
	if cfg.Concurrency != 20 || cfg.RequestTimeoutSec != 45 {
		t.Fatalf("concurrency/timeout defaults: %d %d", cfg.Concurrency, cfg.RequestTimeoutSec)
	}
	if cfg.Pricing.InputPerMillion != 2 || cfg.Pricing.OutputPerMillion != 8 {
		t.Fatalf("pricing defaults: %+v", cfg.Pricing)
	}
	if cfg.Output.Zip == nil || !*cfg.Output.Zip || cfg.Pipeline.Remove == nil || !*cfg.Pipeline.Remove || cfg.Pipeline.Split {
		t.Fatalf("pipeline defaults: %+v %+v", cfg.Output, cfg.Pipeline)
	}
	oa, ok := cfg.Providers["openai"]
	if !ok || oa.Model != "gpt-4.1" || oa.Temperature != 0.05 || oa.MaxTokens != 50 {
		t.Fatalf("openai defaults: %+v", oa)
	}
	for _, name := range []string{"deepseek", "gemini", "claude"} {
		if _, ok := cfg.Providers[name]; !ok {
			t.Fatalf("provider %s missing", name)
		}
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Provider:  " DeepSeek ",
		Providers: map[string]ProviderConfig{"deepseek": {Model: "deepseek-reasoner", Temperature: 0.2}},
		Pipeline:  PipelineConfig{Remove: boolPtr(false)},
	}
	cfg.applyDefaults()
	if cfg.Provider != "deepseek" || cfg.APIKeyEnv != "DEEPSEEK_API_KEY" {
		t.Fatalf("provider: %s %s", cfg.Provider, cfg.APIKeyEnv)
	}
	ds := cfg.Providers["deepseek"]
	if ds.Model != "deepseek-reasoner" || ds.Temperature != 0.2 || ds.BaseURL == "" || ds.MaxTokens != 50 {
		t.Fatalf("deepseek merge: %+v", ds)
	}
	if *cfg.Pipeline.Remove {
		t.Fatalf("explicit remove=false overwritten")
	}
}

func TestDefaultKeyEnv(t *testing.T) {
	if DefaultKeyEnv("claude") != "ANTHROPIC_API_KEY" || DefaultKeyEnv("x") != "OPENAI_API_KEY" {
		t.Fatalf("DefaultKeyEnv mismatch")
	}
}
