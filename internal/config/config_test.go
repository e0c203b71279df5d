package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, path, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no file, got %q", path)
	}
	if cfg.Run.Scenario != "mixed" || cfg.Run.Iterations != 100 {
		t.Fatalf("unexpected defaults: %+v", cfg.Run)
	}
	if cfg.Trace.Level != "off" || cfg.Trace.RingSize != 4096 {
		t.Fatalf("unexpected trace defaults: %+v", cfg.Trace)
	}
	if cfg.Color != "auto" {
		t.Fatalf("color default = %q, want auto", cfg.Color)
	}
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
color = "off"

[trace]
level = "op"
heartbeat = "2s"

[run]
scenario = "shared-fanout"
iterations = 7
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, path, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if path == "" {
		t.Fatal("expected the file to be found")
	}
	if cfg.Color != "off" {
		t.Fatalf("color = %q, want off", cfg.Color)
	}
	if cfg.Trace.Level != "op" {
		t.Fatalf("trace level = %q, want op", cfg.Trace.Level)
	}
	if cfg.Run.Scenario != "shared-fanout" || cfg.Run.Iterations != 7 {
		t.Fatalf("unexpected run config: %+v", cfg.Run)
	}
	// Values absent from the file keep their defaults.
	if cfg.Run.Aliases != 8 {
		t.Fatalf("aliases = %d, want default 8", cfg.Run.Aliases)
	}
	if cfg.Trace.Mode != "ring" {
		t.Fatalf("mode = %q, want default ring", cfg.Trace.Mode)
	}

	hb, err := cfg.Trace.HeartbeatInterval()
	if err != nil {
		t.Fatalf("heartbeat parse failed: %v", err)
	}
	if hb != 2*time.Second {
		t.Fatalf("heartbeat = %v, want 2s", hb)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	want := filepath.Join(root, FileName)
	if err := os.WriteFile(want, []byte("color = \"on\"\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !ok {
		t.Fatal("expected to find the config")
	}
	if got != want {
		t.Fatalf("found %q, want %q", got, want)
	}
}

func TestHeartbeatInvalid(t *testing.T) {
	tc := TraceConfig{Heartbeat: "soon"}
	if _, err := tc.HeartbeatInterval(); err == nil {
		t.Fatal("expected an error for a bad duration")
	}
}

func TestHeartbeatEmptyDisables(t *testing.T) {
	var tc TraceConfig
	d, err := tc.HeartbeatInterval()
	if err != nil || d != 0 {
		t.Fatalf("empty heartbeat: d=%v err=%v", d, err)
	}
}
