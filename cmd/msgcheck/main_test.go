package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c3p0-box/msgcheck/msgfmt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{"valid", []string{"validate", "%s %d"}, "format is valid (2 arguments)\n", nil},
		{"malformed", []string{"validate", "100%"}, "format is malformed: unknown conversion character '%' at offset 3\n", errInvalid},
		{"count", []string{"validate", "%s", "--arguments", "2"}, "format argument count does not match the call: format requires 1 argument but 2 supplied\n", errInvalid},
		{"translation", []string{"validate", "%2$d causó fallo en %1$s", "--base", "%s failed with %d"}, "format is valid (2 arguments)\n", nil},
		{"message format", []string{"validate", "{0} {1}", "--notation", "message-format"}, "format is valid (2 arguments)\n", nil},
		{"spanish", []string{"validate", "%s", "--arguments", "0", "--language", "es"}, "el número de argumentos del formato no coincide con la llamada: el formato requiere 1 argumento pero se pasan 0\n", errInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if out != tt.want {
				t.Fatalf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestValidateCommandJSON(t *testing.T) {
	out, err := run(t, "validate", "{0", "--notation", "messageformat", "--json")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}

	var v msgfmt.Verdict
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if v.Valid || v.Kind != "malformed_template" || v.Format != "{0" {
		t.Fatalf("unexpected verdict %+v", v)
	}
}

func TestValidateCommandErrors(t *testing.T) {
	if _, err := run(t, "validate"); err == nil {
		t.Fatal("expected error without a template")
	}
	if _, err := run(t, "validate", "%s", "--notation", "icu"); err == nil || errors.Is(err, errInvalid) {
		t.Fatalf("expected config error, got %v", err)
	}
	if _, err := run(t, "validate", "%s", "--log-format", "xml"); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestNotationFromEnv(t *testing.T) {
	t.Setenv("MSGCHECK_NOTATION", "message-format")

	out, err := run(t, "validate", "{0} {1} {0}")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if out != "format is valid (2 arguments)\n" {
		t.Fatalf("output = %q", out)
	}

	out, err = run(t, "validate", "%s", "--notation", "printf")
	if err != nil || out != "format is valid (1 arguments)\n" {
		t.Fatalf("flag should override env, got %q (%v)", out, err)
	}
}

func writeCatalog(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"active.en.json": `{"hello": "Hello %s", "count": "%d files"}`,
		"active.es.yaml": "hello: \"Hola %s\"\ncount: \"%s archivos\"\n",
		"active.fr.toml": "hello = \"Bonjour %s\"\n",
	}
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

func TestCheckCommand(t *testing.T) {
	paths := writeCatalog(t)

	out, err := run(t, append([]string{"check"}, paths...)...)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.HasPrefix(lines[0], "es:count.other: translation arguments do not match the base format") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "checked 5 templates in 3 languages, 1 issues" {
		t.Errorf("line 1 = %q", lines[1])
	}

	out, err = run(t, append([]string{"check", "--only", "fr,de", "--json"}, paths...)...)
	if err != nil {
		t.Fatalf("checking only fr should pass, got %v", err)
	}
	var report struct {
		Languages []string `json:"languages"`
		Issues    []any    `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if strings.Join(report.Languages, ",") != "en,fr" || len(report.Issues) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestCheckCommandErrors(t *testing.T) {
	if _, err := run(t, "check"); err == nil {
		t.Fatal("expected error without files")
	}
	if _, err := run(t, "check", filepath.Join(t.TempDir(), "missing.en.json")); err == nil || errors.Is(err, errInvalid) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, err := run(t, "check", "--base-language", "not a tag", "x.json"); err == nil {
		t.Fatal("expected error for invalid base language")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Debug("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected JSON record, got %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud", "text"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Notation != msgfmt.Printf || cfg.BaseLanguage != "en" || cfg.Port != "8000" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
