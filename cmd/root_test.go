package cmd

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestFormatDurationMS(t *testing.T) {
	cases := map[int64]string{
		-1:    "0ms",
		999:   "999ms",
		1000:  "1.00s",
		60000: "1m",
		61000: "1m1.0s",
	}
	for in, want := range cases {
		if got := formatDurationMS(in); got != want {
			t.Fatalf("%d => %s, want %s", in, got, want)
		}
	}
}

func TestNormalizeArgs(t *testing.T) {
	cases := []struct {
		in, want []string
	}{
		{[]string{"a.docx"}, []string{"style", "a.docx"}},
		{[]string{"style", "a.docx"}, []string{"style", "a.docx"}},
		{[]string{"--config", "x"}, []string{"--config", "x"}},
		{[]string{"--book", "Livro", "pasta"}, []string{"style", "--book", "Livro", "pasta"}},
		{[]string{"-v"}, []string{"-v"}},
		{[]string{"set", "key", "abc"}, []string{"set", "key", "abc"}},
		{[]string{"history", "--limit", "5"}, []string{"history", "--limit", "5"}},
	}
	for _, c := range cases {
		if got := normalizeArgs(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("normalizeArgs(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestContainsPositionalSource(t *testing.T) {
	if containsPositionalSource([]string{"--config", "x", "--split"}) {
		t.Fatalf("unexpected true")
	}
	if !containsPositionalSource([]string{"--config", "x", "a.docx"}) {
		t.Fatalf("expected true")
	}
	if !containsPositionalSource([]string{"--", "a.docx"}) {
		t.Fatalf("expected true")
	}
}

func TestVersionText(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	defer func() {
		Version, Commit, BuildTime = oldV, oldC, oldB
	}()
	Version, Commit, BuildTime = "v1", "abc", "t"
	out := versionText()
	if !strings.Contains(out, "v1") || !strings.Contains(out, "abc") {
		t.Fatalf("unexpected version text: %s", out)
	}
}

func TestRootCmdVersionFlagAndNoArgsHelp(t *testing.T) {
	var out, errb bytes.Buffer
	root := NewRootCmd(&out, &errb)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute --version failed: %v", err)
	}
	if !strings.Contains(out.String(), "word-styler versão") {
		t.Fatalf("unexpected version output: %s", out.String())
	}

	out.Reset()
	root = NewRootCmd(&out, &errb)
	root.SetArgs([]string{})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute with no args failed: %v", err)
	}
	if !strings.Contains(out.String(), "--no-sanitize") {
		t.Fatalf("expected help text, got: %s", out.String())
	}
}
