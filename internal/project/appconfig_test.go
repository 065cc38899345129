package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PageFit/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultImageWidth = 10.0
	cfg.Theme = "dark"
	cfg.Workers = 4
	cfg.OversizePolicy = model.OversizeReject
	cfg.RecentProjects = []string{"/tmp/a.pagefit", "/tmp/b.pagefit"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultImageWidth != 10.0 {
		t.Errorf("expected DefaultImageWidth=10.0, got %f", loaded.DefaultImageWidth)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.Workers != 4 || loaded.OversizePolicy != model.OversizeReject {
		t.Errorf("unexpected engine settings %+v", loaded)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.DefaultImageWidth != model.DefaultAppConfig().DefaultImageWidth {
		t.Errorf("expected default width, got %f", cfg.DefaultImageWidth)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"light","recent_projects":null}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected theme=light, got %s", cfg.Theme)
	}
	if cfg.OversizePolicy != model.OversizeForce || cfg.Workers != 1 {
		t.Errorf("missing fields should keep defaults, got %+v", cfg)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" || filepath.Base(filepath.Dir(path)) != ".pagefit" {
		t.Errorf("unexpected config path %s", path)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PAGEFIT_OVERSIZE", "Reject")
	t.Setenv("PAGEFIT_ALGORITHM", "genetic")
	t.Setenv("PAGEFIT_STRATEGY_SET", "extended")
	t.Setenv("PAGEFIT_WORKERS", "3")
	t.Setenv("PAGEFIT_DEFAULT_WIDTH", "6.5")
	t.Setenv("PAGEFIT_EMBED_QR", "true")
	t.Setenv("PAGEFIT_DRAW_PRINT_AREA", "1")
	t.Setenv("PAGEFIT_LISTEN_ADDR", "127.0.0.1:9000")

	cfg, err := ApplyEnv(model.DefaultAppConfig())
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.OversizePolicy != model.OversizeReject {
		t.Errorf("expected reject, got %s", cfg.OversizePolicy)
	}
	if cfg.Algorithm != model.AlgorithmGenetic || cfg.StrategySet != model.StrategySetExtended {
		t.Errorf("unexpected search settings %+v", cfg)
	}
	if cfg.Workers != 3 || cfg.DefaultImageWidth != 6.5 {
		t.Errorf("unexpected numeric settings %+v", cfg)
	}
	if !cfg.EmbedManifestQR || !cfg.DrawPrintArea {
		t.Errorf("expected export flags set, got %+v", cfg)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("unexpected listen addr %s", cfg.ListenAddr)
	}
}

func TestApplyEnvUnsetKeepsConfig(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.Workers = 7
	got, err := ApplyEnv(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got.Workers != 7 {
		t.Errorf("expected workers to stay 7, got %d", got.Workers)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"oversize", "OVERSIZE", "shrink"},
		{"algorithm", "ALGORITHM", "annealing"},
		{"strategy set", "STRATEGY_SET", "all"},
		{"workers", "WORKERS", "0"},
		{"width", "DEFAULT_WIDTH", "wide"},
		{"nan width", "DEFAULT_WIDTH", "NaN"},
		{"inf width", "DEFAULT_WIDTH", "+Inf"},
		{"qr", "EMBED_QR", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvPrefix+tt.key, tt.value)
			_, err := ApplyEnv(model.DefaultAppConfig())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), EnvPrefix+tt.key) {
				t.Errorf("error should name the variable, got %v", err)
			}
		})
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg = AddRecentProject(cfg, "a")
	cfg = AddRecentProject(cfg, "b")
	cfg = AddRecentProject(cfg, "a")
	if strings.Join(cfg.RecentProjects, ",") != "a,b" {
		t.Errorf("expected a,b got %v", cfg.RecentProjects)
	}

	for i := 0; i < 20; i++ {
		cfg = AddRecentProject(cfg, fmt.Sprintf("p%d", i))
	}
	if len(cfg.RecentProjects) != maxRecentProjects || cfg.RecentProjects[0] != "p19" {
		t.Errorf("unexpected recent list %v", cfg.RecentProjects)
	}
}
