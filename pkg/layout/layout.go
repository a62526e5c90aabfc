// Package layout reads the root radii produced by a layout engine.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recera/graphview/pkg/validation"
)

// Frame is one layout pass: the radius of the circle bounding the whole
// graph and whether the view should animate to it
type Frame struct {
	Radius  float64 `yaml:"radius" json:"radius" validate:"gte=0"`
	Animate bool    `yaml:"animate" json:"animate"`
}

// File is the layout file format
type File struct {
	Frames []Frame `yaml:"frames" validate:"required,min=1,dive"`
}

// Parse decodes and validates a layout file
func Parse(data []byte) ([]Frame, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := validation.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return f.Frames, nil
}

// Load reads a layout file from disk
func Load(path string) ([]Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	return Parse(data)
}

// Validate checks a single frame
func (f Frame) Validate() error {
	return validation.Struct(&f)
}
