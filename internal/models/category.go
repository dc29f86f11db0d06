package models

import "strings"

// categoryMap maps lowercased category spellings seen in exported data and
// catalog entries to their canonical names.
var categoryMap = map[string]string{
	"compound":     CategoryCompound,
	"isolation":    CategoryIsolation,
	"bodyweight":   CategoryBodyweight,
	"body weight":  CategoryBodyweight,
	"calisthenics": CategoryBodyweight,
	"cardio":       CategoryCardio,
	"conditioning": CategoryCardio,
	"flexibility":  CategoryFlexibility,
	"mobility":     CategoryFlexibility,
	"stretching":   CategoryFlexibility,
	"custom":       CategoryCustom,
}

// NormalizeCategory maps a category spelling to its canonical name.
// Unknown and empty categories become custom.
func NormalizeCategory(raw string) string {
	if canonical, ok := LookupCategory(raw); ok {
		return canonical
	}
	return CategoryCustom
}

// LookupCategory returns the canonical category and true if recognized,
// or the original string and false if unknown.
func LookupCategory(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := categoryMap[lower]; ok {
		return canonical, true
	}
	return raw, false
}

var workoutTypes = map[string]bool{
	TypeHypertrophy: true,
	TypePower:       true,
	TypeStrength:    true,
	TypeEndurance:   true,
}

// NormalizeWorkoutType lowercases t and falls back to hypertrophy.
func NormalizeWorkoutType(t string) string {
	lower := strings.ToLower(strings.TrimSpace(t))
	if workoutTypes[lower] {
		return lower
	}
	return TypeHypertrophy
}
