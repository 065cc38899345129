package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PageFit/internal/model"
)

// entry is one line of an image list before it is expanded into images.
type entry struct {
	Label  string  `yaml:"label" json:"label"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Copies int     `yaml:"copies,omitempty" json:"copies,omitempty"`
	Source string  `yaml:"source,omitempty" json:"source,omitempty"`

	where string
}

// Manifest is the YAML/JSON document format:
//
//	images:
//	  - label: Holiday
//	    width: 10
//	    height: 15
//	    copies: 2
//	    source: photos/holiday.jpg
type Manifest struct {
	Images []entry `yaml:"images" json:"images"`
}

// ImportManifest reads a YAML or JSON manifest. JSON is accepted because it is
// valid YAML.
func ImportManifest(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest bytes.
func ParseManifest(data []byte) ImportResult {
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot parse manifest: %v", err)}}
	}

	result := ImportResult{}
	entries := make([]entry, 0, len(m.Images))
	for i, e := range m.Images {
		label := fmt.Sprintf("Entry %d", i+1)
		if e.Copies < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid copies %d", label, e.Copies))
			continue
		}
		if e.Copies == 0 {
			e.Copies = 1
		}
		if e.Copies > maxCopies {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %d copies capped at %d", label, e.Copies, maxCopies))
			e.Copies = maxCopies
		}
		if e.Label == "" {
			e.Label = fmt.Sprintf("Image %d", i+1)
		}
		e.where = label
		entries = append(entries, e)
	}

	result.appendEntries(entries)
	if len(result.Images) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No valid images found")
	}
	return result
}

// appendEntries validates entries and expands them into images, one per copy.
func (r *ImportResult) appendEntries(entries []entry) {
	for _, e := range entries {
		img := model.NewImage(e.Label, e.Width, e.Height)
		if err := model.Validate(img); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: Width and height must be positive", e.where))
			continue
		}
		img.Source = e.Source

		copies := max(e.Copies, 1)
		for c := 0; c < copies; c++ {
			cp := img
			if c > 0 {
				cp = model.NewImage(e.Label, e.Width, e.Height)
				cp.Source = e.Source
			}
			r.Images = append(r.Images, cp)
		}
	}
}
