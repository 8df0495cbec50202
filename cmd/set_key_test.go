package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetKeyCommandCreateAndUpdateEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out, errb bytes.Buffer
	root := NewRootCmd(&out, &errb)
	root.SetArgs([]string{"set", "key", "first-key"})
	if err := root.Execute(); err != nil {
		t.Fatalf("set key create failed: %v", err)
	}
	envPath := filepath.Join(home, ".word-styler", ".env")
	raw, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatalf("read env failed: %v", err)
	}
	if !strings.Contains(string(raw), `OPENAI_API_KEY="first-key"`) {
		t.Fatalf("missing key after create: %s", raw)
	}

	root = NewRootCmd(&out, &errb)
	root.SetArgs([]string{"set", "key", "second-key"})
	if err := root.Execute(); err != nil {
		t.Fatalf("set key update failed: %v", err)
	}
	root = NewRootCmd(&out, &errb)
	root.SetArgs([]string{"set", "key", "ds-key", "--provider", "deepseek"})
	if err := root.Execute(); err != nil {
		t.Fatalf("set key for provider failed: %v", err)
	}
	raw, err = os.ReadFile(envPath)
	if err != nil {
		t.Fatalf("read env failed: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, `OPENAI_API_KEY="second-key"`) || strings.Contains(text, "first-key") {
		t.Fatalf("key not updated correctly: %s", text)
	}
	if !strings.Contains(text, `DEEPSEEK_API_KEY="ds-key"`) {
		t.Fatalf("provider key missing: %s", text)
	}
	if out.Len() != 0 || errb.Len() != 0 {
		t.Fatalf("expected silent command, got stdout=%q stderr=%q", out.String(), errb.String())
	}
}

func TestSetKeyCommandEmptyKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var out, errb bytes.Buffer
	root := NewRootCmd(&out, &errb)
	root.SetArgs([]string{"set", "key", "   "})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "vazia") {
		t.Fatalf("expected empty key error, got %v", err)
	}
}
