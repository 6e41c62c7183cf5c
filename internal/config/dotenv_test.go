package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DotEnvQuoting(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_ADDR='127.0.0.1:9090'\nMC_CONFIDENCE=\"95\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Register cleanup for the variables godotenv is about to set.
	for _, key := range []string{"HTTP_ADDR", "MC_CONFIDENCE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("DATA_PATH", dir)
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.HTTPAddr != "127.0.0.1:9090" {
		t.Errorf("Expected quoted value to be unwrapped, got %q", cfg.HTTPAddr)
	}
	if cfg.Simulation.Confidence != 95 {
		t.Errorf("Expected confidence 95 from .env, got %v", cfg.Simulation.Confidence)
	}
}
