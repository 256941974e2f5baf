package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Setenv("CALC_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	if err := loadDotEnv(); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.env")
	if err := os.WriteFile(path, []byte("CALC_ADDR=:9999\nCALC_DECIMAL_SEPARATOR=.\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALC_ENV_FILE", path)
	t.Setenv("CALC_ADDR", ":8081")
	t.Setenv("CALC_DECIMAL_SEPARATOR", "")
	os.Unsetenv("CALC_DECIMAL_SEPARATOR")

	if err := loadDotEnv(); err != nil {
		t.Fatalf("loading env file: %v", err)
	}

	if got := os.Getenv("CALC_ADDR"); got != ":8081" {
		t.Fatalf("expected process value to win, got %q", got)
	}
	if got := os.Getenv("CALC_DECIMAL_SEPARATOR"); got != "." {
		t.Fatalf("expected value from file, got %q", got)
	}
}
