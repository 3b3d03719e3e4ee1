// Package unit maps a robot's unique id to the wiring quirks of that
// physical unit.
package unit

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/linesumo/pkg/drive"
)

// Unit is one physical robot.
type Unit struct {
	ID     string       `yaml:"id"`
	Name   string       `yaml:"name"`
	Quirks drive.Quirks `yaml:",inline"`
}

// Table is the list of known units.
type Table struct {
	Units []Unit `yaml:"units"`
}

// NormalizeID lower cases id and removes separators.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.NewReplacer(":", "", "-", "", " ", "").Replace(id)
}

// Load reads a table from a YAML file and validates it.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a table from YAML and validates it. Unknown fields are
// rejected.
func Parse(data []byte) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("unit table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks ids are hex strings and ids and names are unique.
func (t *Table) Validate() error {
	ids := make(map[string]string)
	names := make(map[string]bool)
	for n, u := range t.Units {
		id := NormalizeID(u.ID)
		if id == "" {
			return fmt.Errorf("unit %d: id required", n)
		}
		if _, err := hex.DecodeString(id); err != nil {
			return fmt.Errorf("unit %d: id %q is not hex", n, u.ID)
		}
		if other, dup := ids[id]; dup {
			return fmt.Errorf("unit %q: id already used by %q", u.Name, other)
		}
		ids[id] = u.Name
		if u.Name != "" {
			if names[u.Name] {
				return fmt.Errorf("unit %q: duplicated name", u.Name)
			}
			names[u.Name] = true
		}
	}
	return nil
}

// Lookup finds the unit with id.
func (t *Table) Lookup(id string) (Unit, bool) {
	id = NormalizeID(id)
	for _, u := range t.Units {
		if NormalizeID(u.ID) == id {
			return u, true
		}
	}
	return Unit{}, false
}

// Quirks returns the quirks of id, none for unknown units.
func (t *Table) Quirks(id string) drive.Quirks {
	u, _ := t.Lookup(id)
	return u.Quirks
}

// Marshal encodes the table as YAML.
func (t *Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
