package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PageFit/internal/model"
)

func testProject(manual bool) model.Project {
	img := model.Image{ID: "a", Label: "Cat", Width: 10, Height: 15}
	layout := model.Layout{Pages: []model.Page{{Index: 0, Images: []model.PlacedImage{model.Place(img, 1, 2, false)}}}}
	return model.Project{Name: "Album", Images: []model.Image{img}, Layout: &layout, Manual: manual}
}

func TestSaveAndLoadManualProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "album"+FileExtension)
	if err := Save(path, testProject(true)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Name != "Album" || len(loaded.Images) != 1 {
		t.Errorf("unexpected project %+v", loaded)
	}
	if loaded.Layout == nil || loaded.Layout.Pages[0].Images[0].X != 1 {
		t.Fatalf("manual layout should survive, got %+v", loaded.Layout)
	}
}

func TestSaveAutomaticProjectDropsLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto"+FileExtension)
	if err := Save(path, testProject(false)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Layout != nil {
		t.Error("automatic layouts are recomputed, not stored")
	}
}

func TestLoadDropsLayoutOfAutomaticProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	data := []byte(`{"name":"x","images":[{"id":"a","label":"A","width":2.004,"height":3}],
		"layout":{"pages":[{"index":0,"images":[]}]},"manual":false}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Layout != nil {
		t.Error("stored layout should be discarded")
	}
	if loaded.Images[0].Width != 2 {
		t.Errorf("expected normalized width 2, got %v", loaded.Images[0].Width)
	}
}

func TestLoadRejectsInvalidImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(path, []byte(`{"images":[{"id":"a","width":0,"height":3}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.pagefit")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.pagefit")
	if err := os.WriteFile(bad, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadDefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(path, []byte(`{"images":null}`), 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "Untitled" || loaded.Images == nil {
		t.Errorf("unexpected project %+v", loaded)
	}
}
