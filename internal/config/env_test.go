package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	content := "\n# comment\nA=1\nB='two'\nC=\"three\"\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadEnvFile(p)
	if err != nil {
		t.Fatalf("LoadEnvFile error: %v", err)
	}
	if m["A"] != "1" || m["B"] != "two" || m["C"] != "three" {
		t.Fatalf("unexpected map: %#v", m)
	}
	if _, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestUpsertEnvVar(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", ".env")
	if err := UpsertEnvVar(p, "OPENAI_API_KEY", "k1"); err != nil {
		t.Fatalf("UpsertEnvVar create failed: %v", err)
	}
	if err := UpsertEnvVar(p, "OTHER", "x"); err != nil {
		t.Fatal(err)
	}
	if err := UpsertEnvVar(p, "OPENAI_API_KEY", "k2"); err != nil {
		t.Fatalf("UpsertEnvVar update failed: %v", err)
	}
	m, err := LoadEnvFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if m["OPENAI_API_KEY"] != "k2" || m["OTHER"] != "x" {
		t.Fatalf("unexpected env: %#v", m)
	}
	if err := UpsertEnvVar(p, " ", "x"); err == nil {
		t.Fatalf("expected empty key error")
	}
}

func TestResolveAPIKey(t *testing.T) {
	d := t.TempDir()
	paths := &Paths{EnvPath: filepath.Join(d, ".env")}
	t.Setenv("WS_TEST_KEY", "")
	if _, err := ResolveAPIKey(paths, "WS_TEST_KEY"); err == nil || !strings.Contains(err.Error(), "set key") {
		t.Fatalf("expected missing key hint, got %v", err)
	}
	t.Setenv("WS_TEST_KEY", "from-env")
	if k, err := ResolveAPIKey(paths, "WS_TEST_KEY"); err != nil || k != "from-env" {
		t.Fatalf("env fallback: %q %v", k, err)
	}
	if err := UpsertEnvVar(paths.EnvPath, "WS_TEST_KEY", "from-file"); err != nil {
		t.Fatal(err)
	}
	if k, err := ResolveAPIKey(paths, "WS_TEST_KEY"); err != nil || k != "from-file" {
		t.Fatalf(".env should win: %q %v", k, err)
	}
}
