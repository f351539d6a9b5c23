package subscription

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan describes a subscription plan. Plans are configuration, not data:
// they ship with the binary as a YAML catalog and are never stored per
// tenant.
type Plan struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	TrialDays   int      `yaml:"trial_days"`
	PriceCents  int64    `yaml:"price_cents"`
	Interval    string   `yaml:"interval"`
	Public      bool     `yaml:"public"`
	Features    []string `yaml:"features"`
}

// TrialEndsAt calculates when the trial period ends. Returns startedAt
// unchanged when the plan carries no trial.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays).UTC()
}

// Catalog is the set of known plans, keyed by plan id.
type Catalog struct {
	DefaultPlanID string `yaml:"default_plan"`
	Plans         []Plan `yaml:"plans"`

	byID map[string]Plan
}

// LoadCatalog reads a plan catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog parses a plan catalog from YAML bytes.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	if len(c.Plans) == 0 {
		return nil, ErrInvalidCatalog
	}

	c.byID = make(map[string]Plan, len(c.Plans))
	for _, p := range c.Plans {
		if p.ID == "" {
			return nil, ErrInvalidCatalog
		}
		c.byID[p.ID] = p
	}
	if _, ok := c.byID[c.DefaultPlanID]; c.DefaultPlanID != "" && !ok {
		return nil, ErrInvalidCatalog
	}
	return &c, nil
}

// Get returns the plan with the given id.
func (c *Catalog) Get(id string) (Plan, error) {
	p, ok := c.byID[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

// Default returns the catalog's default plan, falling back to the first
// listed plan when no default is configured.
func (c *Catalog) Default() Plan {
	if p, ok := c.byID[c.DefaultPlanID]; ok {
		return p
	}
	return c.Plans[0]
}
