package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFindsManifestInParentDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested", "deeper")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	manifest := "[build]\noutput = \"build/out.s\"\noptimize = false\n"
	if err := os.WriteFile(filepath.Join(root, "syc.toml"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cfg, ok, err := Load(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if cfg.Build.Output != "build/out.s" || cfg.Build.Optimize {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadDefaultsOptimizeToTrueWhenKeyAbsent(t *testing.T) {
	root := t.TempDir()
	manifest := "[build]\noutput = \"build/out.s\"\n"
	if err := os.WriteFile(filepath.Join(root, "syc.toml"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cfg, ok, err := Load(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if !cfg.Build.Optimize {
		t.Fatalf("expected optimize to default to true when absent from the manifest, got: %+v", cfg)
	}
}

func TestLoadReturnsFalseWhenNoManifestExists(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest to be found in an empty directory tree")
	}
}
