package snap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should default, got %v", err)
	}
	if !cfg.Enabled || !cfg.Kinds.Corner {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.yaml")
	src := `enabled: true
tolerances:
  contact: 8
  wall: 25
kinds:
  contact: true
  align: false
  t_joint: true
  wall: true
  corner: true
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tolerances.Contact != 8 || cfg.Tolerances.Wall != 25 {
		t.Errorf("tolerances = %+v", cfg.Tolerances)
	}
	if cfg.Kinds.Align {
		t.Error("align should be disabled")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.yaml")
	if err := os.WriteFile(path, []byte("enabled: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
