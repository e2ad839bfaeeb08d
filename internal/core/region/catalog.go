package region

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultCatalogYAML []byte

// Catalog is a read-only lookup of regions, preserving definition order.
type Catalog struct {
	regions []Region
	byID    map[string]int
}

type catalogFile struct {
	Regions []Region `yaml:"regions"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded region catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML region catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse region catalog: %w", err)
	}
	return New(file.Regions)
}

// New builds a catalog from region definitions after validating each of them.
func New(regions []Region) (*Catalog, error) {
	c := &Catalog{
		regions: make([]Region, 0, len(regions)),
		byID:    make(map[string]int, len(regions)),
	}
	for _, r := range regions {
		if err := Validate(r); err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate region id %q", r.ID)
		}
		c.byID[r.ID] = len(c.regions)
		c.regions = append(c.regions, r.clone())
	}
	return c, nil
}

// Validate checks a single region definition.
func Validate(r Region) error {
	if r.ID == "" {
		return fmt.Errorf("region id must not be empty")
	}
	if r.RecommendedLevel < 0 {
		return fmt.Errorf("region %s: recommended level must be >= 0, got %d", r.ID, r.RecommendedLevel)
	}
	if len(r.DurationOptions) == 0 {
		return fmt.Errorf("region %s: at least one duration option is required", r.ID)
	}
	for _, d := range r.DurationOptions {
		if d <= 0 {
			return fmt.Errorf("region %s: duration options must be positive, got %d", r.ID, d)
		}
	}
	for i, e := range r.Rewards {
		if e.MaterialID == "" {
			return fmt.Errorf("region %s: reward %d has no material id", r.ID, i)
		}
		if e.Min < 0 || e.Min > e.Max {
			return fmt.Errorf("region %s: reward %s must satisfy 0 <= min <= max (min=%d, max=%d)", r.ID, e.MaterialID, e.Min, e.Max)
		}
		if e.Chance <= 0 || e.Chance > 1 {
			return fmt.Errorf("region %s: reward %s chance must be in (0, 1], got %v", r.ID, e.MaterialID, e.Chance)
		}
	}
	return nil
}

// FindRegion looks up a region by id.
func (c *Catalog) FindRegion(id string) (Region, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Region{}, false
	}
	return c.regions[i].clone(), true
}

// Regions returns every region in catalog order.
func (c *Catalog) Regions() []Region {
	out := make([]Region, len(c.regions))
	for i, r := range c.regions {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of regions.
func (c *Catalog) Len() int {
	return len(c.regions)
}
