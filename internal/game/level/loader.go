package level

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlLevelFile struct {
	Level yamlLevel `yaml:"level"`
}

type yamlLevel struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	StartArea string     `yaml:"start_area"`
	Areas     []yamlArea `yaml:"areas"`
}

type yamlArea struct {
	ID      string          `yaml:"id"`
	Title   string          `yaml:"title"`
	Pickups []yamlPlacement `yaml:"pickups"`
}

type yamlPlacement struct {
	Pickup string `yaml:"pickup"`
	Count  int    `yaml:"count"`
}

// LoadFromFile reads and validates a level YAML file.
//
// Precondition: path must point to a valid YAML level file.
// Postcondition: Returns a validated Level or a non-nil error.
func LoadFromFile(path string, knownPickup func(string) bool) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file %s: %w", path, err)
	}
	return LoadFromBytes(data, knownPickup)
}

// LoadFromBytes parses and validates a level from YAML bytes. A placement
// without a count places one pickup.
func LoadFromBytes(data []byte, knownPickup func(string) bool) (*Level, error) {
	var file yamlLevelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing level YAML: %w", err)
	}
	lvl, err := convert(file.Level)
	if err != nil {
		return nil, err
	}
	if err := lvl.Validate(knownPickup); err != nil {
		return nil, fmt.Errorf("validating level: %w", err)
	}
	return lvl, nil
}

func convert(yl yamlLevel) (*Level, error) {
	lvl := &Level{
		ID:        yl.ID,
		Name:      yl.Name,
		StartArea: yl.StartArea,
		Areas:     make(map[string]*Area, len(yl.Areas)),
	}
	for _, ya := range yl.Areas {
		if ya.ID == "" {
			return nil, fmt.Errorf("level %q: area ID must not be empty", yl.ID)
		}
		if _, dup := lvl.Areas[ya.ID]; dup {
			return nil, fmt.Errorf("level %q: duplicate area ID %q", yl.ID, ya.ID)
		}
		area := &Area{ID: ya.ID, Title: strings.TrimSpace(ya.Title)}
		for _, yp := range ya.Pickups {
			count := yp.Count
			if count == 0 {
				count = 1
			}
			area.Pickups = append(area.Pickups, Placement{Pickup: yp.Pickup, Count: count})
		}
		lvl.Areas[area.ID] = area
		lvl.order = append(lvl.order, area.ID)
	}
	return lvl, nil
}
