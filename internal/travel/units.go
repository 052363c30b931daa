package travel

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var unitsYAML []byte

// Unit is a troop type and its base speed in fields per hour.
type Unit struct {
	Tribe   string   `json:"tribe" yaml:"-"`
	Name    string   `json:"name" yaml:"name"`
	Speed   float64  `json:"speed" yaml:"speed"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases"`

	tribeAliases []string
}

// Key identifies a unit across tribes, e.g. "Teuton - Ram".
func (u Unit) Key() string {
	return u.Tribe + " - " + u.Name
}

type unitCatalog struct {
	Tribes []struct {
		Name    string   `yaml:"name"`
		Aliases []string `yaml:"aliases"`
		Units   []Unit   `yaml:"units"`
	} `yaml:"tribes"`
}

var (
	loadUnitsOnce sync.Once
	units         []Unit
	unitsErr      error
)

func loadUnits() {
	var catalog unitCatalog
	if err := yaml.Unmarshal(unitsYAML, &catalog); err != nil {
		unitsErr = fmt.Errorf("failed to parse unit catalog: %w", err)
		return
	}

	for _, tribe := range catalog.Tribes {
		for _, u := range tribe.Units {
			if u.Speed <= 0 {
				unitsErr = fmt.Errorf("unit %s - %s has non-positive speed %v", tribe.Name, u.Name, u.Speed)
				return
			}
			u.Tribe = tribe.Name
			u.tribeAliases = tribe.Aliases
			units = append(units, u)
		}
	}

	sort.SliceStable(units, func(i, j int) bool {
		if units[i].Tribe == units[j].Tribe {
			return units[i].Name < units[j].Name
		}
		return units[i].Tribe < units[j].Tribe
	})
}

// Units returns the catalog sorted by tribe, then name.
func Units() ([]Unit, error) {
	loadUnitsOnce.Do(loadUnits)
	if unitsErr != nil {
		return nil, unitsErr
	}
	out := make([]Unit, len(units))
	copy(out, units)
	return out, nil
}

// LookupUnit resolves a unit by its key ("Tribe - Name") or, when the name is
// unique across tribes, by name alone. Tribe and unit aliases are accepted in
// place of the names, and a translation after " / " is ignored, so
// "Teuton - Clubman / Sopacı" finds the Clubswinger. Matching ignores case.
func LookupUnit(name string) (Unit, bool) {
	all, err := Units()
	if err != nil {
		return Unit{}, false
	}

	needle, _, _ := strings.Cut(name, " / ")
	needle = strings.ToLower(strings.TrimSpace(needle))

	var match Unit
	matches := 0
	for _, u := range all {
		for _, key := range u.keys() {
			if key == needle {
				return u, true
			}
		}
		for _, n := range u.names() {
			if strings.ToLower(n) == needle {
				match = u
				matches++
				break
			}
		}
	}
	return match, matches == 1
}

func (u Unit) names() []string {
	return append([]string{u.Name}, u.Aliases...)
}

// keys lists every lower-cased "tribe - name" spelling of u.
func (u Unit) keys() []string {
	tribes := append([]string{u.Tribe}, u.tribeAliases...)
	var keys []string
	for _, tribe := range tribes {
		for _, n := range u.names() {
			keys = append(keys, strings.ToLower(tribe+" - "+n))
		}
	}
	return keys
}
