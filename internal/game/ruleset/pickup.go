package ruleset

import "fmt"

// PickupDef defines a health pickup placed in the level.
type PickupDef struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	HealValue float64 `yaml:"heal_value"`
	// Effect is played on the healed character. Optional; a missing effect
	// is tolerated at runtime with a warning.
	Effect string `yaml:"effect"`
}

// Validate checks the pickup's fields.
func (p *PickupDef) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pickup id must not be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("pickup %q: name must not be empty", p.ID)
	}
	if !inUnit(p.HealValue) {
		return fmt.Errorf("pickup %q: heal_value must be in [0, 1], got %v", p.ID, p.HealValue)
	}
	return nil
}

// LoadPickups reads all .yaml files in dir and parses each as a PickupDef.
func LoadPickups(dir string) ([]*PickupDef, error) {
	return loadDir[PickupDef](dir, "pickup")
}
