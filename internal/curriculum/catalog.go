// Package curriculum holds the study catalog (curriculum, subject, unit,
// achievement standard) and the selection cascade over it.
package curriculum

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// CatalogEnv names the environment variable that overrides the embedded
// catalog with a file on disk.
const CatalogEnv = "STUDYMATE_CATALOG"

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

//go:embed catalog.yaml
var embeddedCatalog []byte

// Standard is a single achievement standard, the leaf of the catalog.
type Standard struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// Unit groups standards within a subject.
type Unit struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Standards []Standard `yaml:"standards"`
}

// Subject groups units within a curriculum.
type Subject struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Units []Unit `yaml:"units"`
}

// Curriculum is the top level of the catalog.
type Curriculum struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Subjects []Subject `yaml:"subjects"`
}

// Catalog is the full, validated study catalog.
type Catalog struct {
	Version   string       `yaml:"version"`
	Curricula []Curriculum `yaml:"curricula"`
}

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which can only happen through a broken build.
func Default() *Catalog {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load returns the catalog at STUDYMATE_CATALOG when set, else the embedded one.
func Load() (*Catalog, error) {
	path := strings.TrimSpace(os.Getenv(CatalogEnv))
	if path == "" {
		return Parse(embeddedCatalog)
	}
	return LoadFile(path)
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog version and structure. All problems are
// reported together.
func (c *Catalog) Validate() error {
	var errs []string

	switch {
	case !semver.IsValid(c.Version):
		errs = append(errs, fmt.Sprintf("invalid catalog version %q", c.Version))
	case semver.Major(c.Version) != SupportedMajor:
		errs = append(errs, fmt.Sprintf("unsupported catalog version %s (want %s.x)", c.Version, SupportedMajor))
	}

	if len(c.Curricula) == 0 {
		errs = append(errs, "catalog has no curricula")
	}

	curIDs := make(map[string]bool)
	for _, cur := range c.Curricula {
		if cur.ID == "" {
			errs = append(errs, fmt.Sprintf("curriculum %q has empty ID", cur.Name))
		} else if curIDs[cur.ID] {
			errs = append(errs, fmt.Sprintf("duplicate curriculum ID: %q", cur.ID))
		}
		curIDs[cur.ID] = true

		subIDs := make(map[string]bool)
		for _, sub := range cur.Subjects {
			prefix := cur.ID + "/" + sub.ID
			if sub.ID == "" {
				errs = append(errs, fmt.Sprintf("subject %q in %q has empty ID", sub.Name, cur.ID))
			} else if subIDs[sub.ID] {
				errs = append(errs, fmt.Sprintf("duplicate subject ID: %q", prefix))
			}
			subIDs[sub.ID] = true

			unitIDs := make(map[string]bool)
			for _, u := range sub.Units {
				if u.ID == "" {
					errs = append(errs, fmt.Sprintf("unit %q in %q has empty ID", u.Name, prefix))
				} else if unitIDs[u.ID] {
					errs = append(errs, fmt.Sprintf("duplicate unit ID: %q", prefix+"/"+u.ID))
				}
				unitIDs[u.ID] = true

				if len(u.Standards) == 0 {
					errs = append(errs, fmt.Sprintf("unit %q has no standards", prefix+"/"+u.ID))
				}
				codes := make(map[string]bool)
				for _, s := range u.Standards {
					if s.Code == "" {
						errs = append(errs, fmt.Sprintf("standard in %q has empty code", prefix+"/"+u.ID))
					} else if codes[s.Code] {
						errs = append(errs, fmt.Sprintf("duplicate standard code: %q", s.Code))
					}
					codes[s.Code] = true
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Curriculum looks up a curriculum by ID.
func (c *Catalog) Curriculum(id string) (*Curriculum, bool) {
	for i := range c.Curricula {
		if c.Curricula[i].ID == id {
			return &c.Curricula[i], true
		}
	}
	return nil, false
}

// Subject looks up a subject by ID.
func (c *Curriculum) Subject(id string) (*Subject, bool) {
	for i := range c.Subjects {
		if c.Subjects[i].ID == id {
			return &c.Subjects[i], true
		}
	}
	return nil, false
}

// Unit looks up a unit by ID.
func (s *Subject) Unit(id string) (*Unit, bool) {
	for i := range s.Units {
		if s.Units[i].ID == id {
			return &s.Units[i], true
		}
	}
	return nil, false
}

// Standard looks up a standard by code.
func (u *Unit) Standard(code string) (*Standard, bool) {
	for i := range u.Standards {
		if u.Standards[i].Code == code {
			return &u.Standards[i], true
		}
	}
	return nil, false
}
