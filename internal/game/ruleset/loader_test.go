package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const healSpellYAML = `
id: heal_1h
name: "One-Handed Heal"
mana_cost: 0.15
heal_amount: 0.15
cast_duration: 2.2
effect: heal_burst
`

const eveYAML = `
id: eve
name: "Eve"
description: "Battle mage."
health:
  start: 0.5
  regen_rate: 0.01
  regen_interval: 1.0
mana:
  start: 0.75
  regen_rate: 0.01
  regen_interval: 1.0
spell: heal_1h
`

const orbYAML = `
id: health_orb
name: "Health Orb"
heal_value: 0.25
effect: orb_burst
`

func contentDirs(t *testing.T) (archetypes, spells, pickups string) {
	t.Helper()
	root := t.TempDir()
	archetypes = filepath.Join(root, "archetypes")
	spells = filepath.Join(root, "spells")
	pickups = filepath.Join(root, "pickups")
	for _, d := range []string{archetypes, spells, pickups} {
		require.NoError(t, os.Mkdir(d, 0755))
	}
	return archetypes, spells, pickups
}

func TestLoadArchetypes_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "eve.yaml"), eveYAML)
	archetypes, err := ruleset.LoadArchetypes(dir)
	require.NoError(t, err)
	require.Len(t, archetypes, 1)
	a := archetypes[0]
	assert.Equal(t, "eve", a.ID)
	assert.Equal(t, "Eve", a.Name)
	assert.Equal(t, 0.5, a.Health.Start)
	assert.Equal(t, 0.75, a.Mana.Start)
	assert.Equal(t, 1.0, a.Mana.RegenInterval)
	assert.Equal(t, "heal_1h", a.Spell)
}

func TestLoadSpells_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "heal.yml"), healSpellYAML)
	spells, err := ruleset.LoadSpells(dir)
	require.NoError(t, err)
	require.Len(t, spells, 1)
	s := spells[0]
	assert.Equal(t, "heal_1h", s.ID)
	assert.Equal(t, 0.15, s.ManaCost)
	assert.Equal(t, 2.2, s.CastDuration)
	assert.Equal(t, "heal_burst", s.Effect)
	assert.Empty(t, s.Hook)
}

func TestLoadPickups_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "orb.yaml"), orbYAML+"\nparticles: sparkle\n")
	_, err := ruleset.LoadPickups(dir)
	assert.Error(t, err)
}

func TestLoadArchetypes_EmptyDir(t *testing.T) {
	archetypes, err := ruleset.LoadArchetypes(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, archetypes)
}

func TestLoadArchetypes_MissingDir(t *testing.T) {
	_, err := ruleset.LoadArchetypes(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadRegistry_Valid(t *testing.T) {
	archDir, spellDir, pickupDir := contentDirs(t)
	writeFile(t, filepath.Join(archDir, "eve.yaml"), eveYAML)
	writeFile(t, filepath.Join(spellDir, "heal.yaml"), healSpellYAML)
	writeFile(t, filepath.Join(pickupDir, "orb.yaml"), orbYAML)

	reg, err := ruleset.LoadRegistry(archDir, spellDir, pickupDir)
	require.NoError(t, err)
	a, s, p := reg.Counts()
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, p)

	eve, ok := reg.Archetype("eve")
	require.True(t, ok)
	spell, ok := reg.Spell(eve.Spell)
	require.True(t, ok)
	st := eve.NewStats(spell)
	assert.Equal(t, 0.5, st.Health.Value)
	assert.Equal(t, 0.75, st.Mana.Value)
	assert.Equal(t, 0.15, st.Cast.ManaCost)
	assert.False(t, st.Cast.Casting)
}

func TestLoadRegistry_UnknownSpellReference(t *testing.T) {
	archDir, spellDir, pickupDir := contentDirs(t)
	writeFile(t, filepath.Join(archDir, "eve.yaml"), eveYAML)
	_, err := ruleset.LoadRegistry(archDir, spellDir, pickupDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown spell "heal_1h"`)
}

func TestRegistry_DuplicateIDs(t *testing.T) {
	reg := ruleset.NewRegistry()
	orb := &ruleset.PickupDef{ID: "orb", Name: "Orb", HealValue: 0.1}
	require.NoError(t, reg.RegisterPickup(orb))
	assert.Error(t, reg.RegisterPickup(orb))
}

func TestSpell_Validate_Rejects(t *testing.T) {
	cases := map[string]ruleset.Spell{
		"empty id":      {Name: "x", CastDuration: 1},
		"cost above 1":  {ID: "s", Name: "x", ManaCost: 1.5, CastDuration: 1},
		"negative heal": {ID: "s", Name: "x", HealAmount: -0.1, CastDuration: 1},
		"zero duration": {ID: "s", Name: "x"},
	}
	for name, s := range cases {
		s := s
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Validate())
		})
	}
}

func TestArchetype_Validate_RejectsZeroInterval(t *testing.T) {
	a := &ruleset.Archetype{
		ID: "eve", Name: "Eve", Spell: "heal",
		Health: ruleset.AttributeDef{Start: 0.5, RegenRate: 0.01, RegenInterval: 0},
		Mana:   ruleset.AttributeDef{Start: 0.5, RegenRate: 0.01, RegenInterval: 1},
	}
	assert.Error(t, a.Validate())
}

func TestPropertyAttributeDef_ValidateAcceptsUnitValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := ruleset.AttributeDef{
			Start:         rapid.Float64Range(0, 1).Draw(t, "start"),
			RegenRate:     rapid.Float64Range(0, 1).Draw(t, "rate"),
			RegenInterval: rapid.Float64Range(0.001, 60).Draw(t, "interval"),
		}
		assert.NoError(t, d.Validate("health"))
		a := d.Attribute()
		assert.Equal(t, d.Start, a.Value)
	})
}
