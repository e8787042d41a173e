// Package catalog provides the read-only reference data used for skill extraction and scoring:
// the skill vocabulary, the role catalog, skill-strength dimensions, and the canned
// recommendations and insights.
// The default catalog is embedded at compile time and parsed once.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Metric names usable by insight slots.
const (
	MetricFitScore        = "fit_score"
	MetricSkillsCount     = "skills_count"
	MetricExperienceCount = "experience_count"
)

// Catalog is the full set of reference data. A loaded Catalog must not be mutated.
type Catalog struct {
	Vocabulary      []string            `yaml:"vocabulary" validate:"required,min=1,dive,required"`
	SkillCategories map[string][]string `yaml:"skill_categories"`
	Roles           []Role              `yaml:"roles" validate:"required,min=1,dive"`
	FallbackSummary string              `yaml:"fallback_summary" validate:"required"`
	Strengths       []StrengthDimension `yaml:"skill_strengths" validate:"len=4,dive"`
	NextActions     []ActionSlot        `yaml:"next_actions" validate:"len=3,dive"`
	Insights        []InsightSlot       `yaml:"insights" validate:"len=3,dive"`
}

// Role is a target job role with the skills it asks for.
type Role struct {
	Name            string   `yaml:"name" json:"name" validate:"required"`
	RequiredSkills  []string `yaml:"required_skills" json:"required_skills" validate:"dive,required"`
	PreferredSkills []string `yaml:"preferred_skills" json:"preferred_skills" validate:"dive,required"`
	BaseScore       int      `yaml:"base_score" json:"base_score" validate:"gte=0,lte=100"`
	Summary         string   `yaml:"summary" json:"summary,omitempty"`
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min" validate:"gte=0,lte=100"`
	Max int `yaml:"max" validate:"gtefield=Min,lte=100"`
}

// StrengthDimension is a tracked skill with the level ranges used when any
// trigger skill is present or absent.
type StrengthDimension struct {
	Name     string   `yaml:"name" validate:"required"`
	Triggers []string `yaml:"triggers" validate:"required,min=1,dive,required"`
	Present  Range    `yaml:"present"`
	Absent   Range    `yaml:"absent"`
}

// Recommendation is a canned title/description pair.
type Recommendation struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description" validate:"required"`
}

// ActionSlot picks one of two recommendations depending on whether any skill in AnyOf is present.
type ActionSlot struct {
	AnyOf       []string       `yaml:"any_of" validate:"required,min=1,dive,required"`
	WhenPresent Recommendation `yaml:"when_present"`
	WhenAbsent  Recommendation `yaml:"when_absent"`
}

// InsightSlot picks one of two sentences depending on a metric threshold.
type InsightSlot struct {
	Metric    string `yaml:"metric" validate:"oneof=fit_score skills_count experience_count"`
	Threshold int    `yaml:"threshold" validate:"gte=0"`
	AtOrAbove string `yaml:"at_or_above" validate:"required"`
	Below     string `yaml:"below" validate:"required"`
}

// Default returns the embedded catalog. It panics if the embedded data is invalid,
// which can only happen through a broken build.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Parse(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("failed to load embedded catalog: %v", err))
		}
		defaultCat = cat
	})
	return defaultCat
}

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return cat, nil
}

// LoadOrDefault loads the catalog at path, or returns the embedded one when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML catalog data, normalizes skill names to lower case and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	cat.normalize()

	if err := validator.New().Struct(&cat); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	return &cat, nil
}

// normalize lower-cases every skill name so lookups can compare directly.
func (c *Catalog) normalize() {
	c.Vocabulary = lowerAll(c.Vocabulary)
	for name, skills := range c.SkillCategories {
		c.SkillCategories[name] = lowerAll(skills)
	}
	for i := range c.Roles {
		c.Roles[i].RequiredSkills = lowerAll(c.Roles[i].RequiredSkills)
		c.Roles[i].PreferredSkills = lowerAll(c.Roles[i].PreferredSkills)
	}
	for i := range c.Strengths {
		c.Strengths[i].Triggers = lowerAll(c.Strengths[i].Triggers)
	}
	for i := range c.NextActions {
		c.NextActions[i].AnyOf = lowerAll(c.NextActions[i].AnyOf)
	}
}

// SummaryFor returns the summary of the named role, or the fallback summary.
func (c *Catalog) SummaryFor(roleName string) string {
	for _, role := range c.Roles {
		if role.Name == roleName && role.Summary != "" {
			return role.Summary
		}
	}
	return c.FallbackSummary
}

// Category returns the skill category a skill belongs to, or "" if it has none.
// A skill listed under several categories resolves to the alphabetically first.
func (c *Catalog) Category(skill string) string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	names := make([]string, 0, len(c.SkillCategories))
	for name := range c.SkillCategories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if slices.Contains(c.SkillCategories[name], skill) {
			return name
		}
	}
	return ""
}

// Focus returns the distinct categories of a role's required skills, in first-seen order.
func (c *Catalog) Focus(role Role) []string {
	focus := make([]string, 0)
	for _, skill := range role.RequiredSkills {
		category := c.Category(skill)
		if category == "" || slices.Contains(focus, category) {
			continue
		}
		focus = append(focus, category)
	}
	return focus
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
