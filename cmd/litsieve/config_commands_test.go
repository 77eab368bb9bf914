package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	_, configPath := newTestConfig(t)
	base := t.TempDir()

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(base, "fresh", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, configPath)
	if err == nil {
		t.Fatal("expected error when target already exists")
	}
	requireContains(t, err.Error(), "--overwrite")
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	_, configPath := newTestConfig(t)

	out, _, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "snowball.stop_mode")
	requireContains(t, out, "********")
	if strings.Contains(out, "test-key") {
		t.Fatalf("api key leaked into output: %q", out)
	}
}
