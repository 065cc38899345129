package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PageFit/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultImageWidth = 12.5
	cfg.Theme = "dark"
	proj := testProject(true)

	if err := ExportAllData(path, cfg, &proj); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != backupVersion {
		t.Errorf("expected version %s, got %s", backupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultImageWidth != 12.5 || backup.Config.Theme != "dark" {
		t.Errorf("unexpected config %+v", backup.Config)
	}
	if backup.Project == nil || backup.Project.Layout == nil {
		t.Fatal("manual project with layout should round-trip")
	}
}

func TestExportAllDataWithoutProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "backup.json")
	if err := ExportAllData(path, model.DefaultAppConfig(), nil); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatal(err)
	}
	if backup.Project != nil {
		t.Error("expected no project")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config":{"theme":"dark"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataNilRecentProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_projects":null},
		"project":{"name":"p","images":[],"layout":{"pages":[]},"manual":false}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after import")
	}
	if backup.Project == nil || backup.Project.Layout != nil {
		t.Error("layout of an automatic project should be dropped")
	}
	if backup.Config.Workers != 1 {
		t.Errorf("missing config fields should default, got workers=%d", backup.Config.Workers)
	}
}
