package models

import "strings"

// DietaryLabels is the fixed enumeration shared by recipes and user profiles.
var DietaryLabels = []string{
	"vegetarian",
	"vegan",
	"keto",
	"paleo",
	"gluten-free",
	"dairy-free",
	"low-carb",
	"high-protein",
	"sugar-free",
	"organic",
	"raw",
	"mediterranean",
	"low-fat",
}

// Cuisines enumerates the cuisine preferences a profile may hold.
var Cuisines = []string{
	"indian",
	"italian",
	"chinese",
	"mexican",
	"thai",
	"japanese",
	"french",
	"mediterranean",
	"american",
	"korean",
	"vietnamese",
	"middle-eastern",
	"british",
	"spanish",
	"german",
	"greek",
}

// Allergens enumerates the allergens a profile may declare.
var Allergens = []string{
	"peanuts",
	"tree nuts",
	"milk",
	"egg",
	"wheat",
	"soy",
	"fish",
	"shellfish",
	"sesame",
	"mustard",
	"celery",
	"lupin",
	"sulfites",
	"molluscs",
	"corn",
}

// IsDietaryLabel reports whether label is part of the enumeration
func IsDietaryLabel(label string) bool {
	return contains(DietaryLabels, label)
}

// IsCuisine reports whether cuisine is a known profile cuisine
func IsCuisine(cuisine string) bool {
	return contains(Cuisines, cuisine)
}

// IsAllergen reports whether allergen is a known allergen
func IsAllergen(allergen string) bool {
	return contains(Allergens, allergen)
}

// NormalizeLabels trims and lower-cases labels and drops blanks and duplicates
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
