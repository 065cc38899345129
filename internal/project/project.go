package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PageFit/internal/model"
)

// FileExtension is appended to saved projects.
const FileExtension = ".pagefit"

// Save writes the project as indented JSON. A layout is stored only when it
// was edited by hand.
func Save(path string, proj model.Project) error {
	if !proj.Manual {
		proj.Layout = nil
	}
	if proj.Images == nil {
		proj.Images = []model.Image{}
	}
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project. Dimensions are normalized; a stored layout of a
// project that was not edited by hand is dropped so the caller recomputes it.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	var proj model.Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}

	if proj.Images == nil {
		proj.Images = []model.Image{}
	}
	for i, img := range proj.Images {
		proj.Images[i] = model.Normalize(img)
		if err := model.Validate(proj.Images[i]); err != nil {
			return model.Project{}, fmt.Errorf("image %d: %w", i+1, err)
		}
	}
	if !proj.Manual {
		proj.Layout = nil
	}
	if proj.Name == "" {
		proj.Name = "Untitled"
	}
	return proj, nil
}
