package models

import (
	"strings"
	"time"
)

// CatalogExercise is a reusable exercise definition the planner picks from.
type CatalogExercise struct {
	ID         string    `json:"id"`
	UserID     int       `json:"user_id,omitempty"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	FocusAreas []string  `json:"focus_areas"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// Normalize trims the name, canonicalizes the category and guarantees a
// non-nil focus area list.
func (c *CatalogExercise) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Category = NormalizeCategory(c.Category)
	if c.FocusAreas == nil {
		c.FocusAreas = []string{}
	}
}
