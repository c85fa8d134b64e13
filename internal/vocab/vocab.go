// Package vocab externalizes the keyword groups used to classify free-text
// source labels into the closed event and milestone taxonomies. The tables
// are versioned and loadable from YAML so vocabulary changes ship as data,
// with the in-code defaults acting as the baseline table.
package vocab

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is one versioned set of keyword groups. All matching is
// case-insensitive substring matching on the canonical tokens; exact string
// equality is deliberately avoided because source wording varies per record.
type Table struct {
	Version string `yaml:"version"`

	// Denylist rejects transaction rows outright: assessment/tax vocabulary
	// that masquerades as price data.
	Denylist []string `yaml:"denylist"`

	// Transaction-event groups, checked in order.
	Sale        []string `yaml:"sale"`
	Listing     []string `yaml:"listing"`
	PriceChange []string `yaml:"price_change"`

	// Milestone groups. Order matters: completion is checked before approval
	// so "CofO issued" never reads as an approval, and approval before
	// submission so "plan check approved" never reads as a submission.
	Completed []string `yaml:"completed"`
	Approved  []string `yaml:"approved"`
	Submitted []string `yaml:"submitted"`
}

// Default returns the baseline vocabulary table.
func Default() *Table {
	return &Table{
		Version: "2024-06",

		Denylist: []string{"tax", "assessment", "assessed"},

		Sale:        []string{"sold", "transferred"},
		Listing:     []string{"listed", "for sale"},
		PriceChange: []string{"price changed", "price change"},

		Completed: []string{
			"cofo", "c of o", "certificate of occupancy",
			"occupancy", "finaled", "final inspection",
		},
		Approved: []string{
			"approved", "approval", "ready to issue",
		},
		Submitted: []string{
			"application", "submitted", "filed", "applied",
			"plan check started",
		},
	}
}

// Load reads a table from a YAML file.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse vocab %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("vocab %s: %w", path, err)
	}
	return &t, nil
}

// Validate checks that no group required for classification is empty.
func (t *Table) Validate() error {
	if t.Version == "" {
		return fmt.Errorf("missing version")
	}
	groups := map[string][]string{
		"denylist":     t.Denylist,
		"sale":         t.Sale,
		"listing":      t.Listing,
		"price_change": t.PriceChange,
		"completed":    t.Completed,
		"approved":     t.Approved,
		"submitted":    t.Submitted,
	}
	for name, g := range groups {
		if len(g) == 0 {
			return fmt.Errorf("empty keyword group %q", name)
		}
	}
	return nil
}

// Denylisted reports whether the label carries any denylisted token.
func (t *Table) Denylisted(label string) bool {
	return matchAny(label, t.Denylist)
}

// EventGroup resolves a transaction label to its keyword group: "sale",
// "listing", or "price_change". Groups are checked in declaration order and
// the first match wins.
func (t *Table) EventGroup(label string) (string, bool) {
	switch {
	case matchAny(label, t.Sale):
		return "sale", true
	case matchAny(label, t.Listing):
		return "listing", true
	case matchAny(label, t.PriceChange):
		return "price_change", true
	}
	return "", false
}

// MilestoneGroup resolves a status-history label to "completed", "approved",
// or "submitted". A label matches at most one group; precedence is
// completed > approved > submitted.
func (t *Table) MilestoneGroup(label string) (string, bool) {
	switch {
	case matchAny(label, t.Completed):
		return "completed", true
	case matchAny(label, t.Approved):
		return "approved", true
	case matchAny(label, t.Submitted):
		return "submitted", true
	}
	return "", false
}

func matchAny(label string, tokens []string) bool {
	l := strings.ToLower(label)
	for _, tok := range tokens {
		if tok != "" && strings.Contains(l, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}
