package catalog

import (
	"strings"

	"github.com/thegioirubik/lubestation-service/models"
)

// SubCategoryAll is the filter chip that disables sub-category filtering.
const SubCategoryAll = "All"

type rule struct {
	match func(name string) bool
	label string
}

func containsAny(subs ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

// Rules are evaluated top to bottom; the first match wins.
var (
	cubicleRules = []rule{
		{containsAny("Labs"), "Cubicle Labs"},
		{containsAny("Compound"), "Angstrom Research"},
		{containsAny("Weight"), "Silicone Weights"},
		{containsAny("FZ"), "FZ Series"},
		{containsAny("DNM", "Lubicle"), "Water-Based Lubes"},
	}
	scsRules = []rule{
		// Speed Lube precedes the Cosmic family even when both words appear.
		{containsAny("Speed Lube"), "Speed Lube (Weights)"},
		{containsAny("Cosmic", "Lunar", "Martian", "Galaxy"), "Cosmic Lube"},
		{containsAny("Adheron"), "Adheron"},
	}
)

const (
	cubicleFallback = "TheCubicle Lube"
	scsFallback     = "SCS Lube"
	otherLabel      = "Other"
)

// Classify derives the sub-category label of a product from its name.
func Classify(productName, category string) string {
	var rules []rule
	var fallback string
	switch category {
	case models.CategoryCubicle:
		rules, fallback = cubicleRules, cubicleFallback
	case models.CategorySCS:
		rules, fallback = scsRules, scsFallback
	default:
		return otherLabel
	}
	for _, r := range rules {
		if r.match(productName) {
			return r.label
		}
	}
	return fallback
}

// SubCategories are the filter chips offered per brand.
var SubCategories = map[string][]string{
	models.CategoryCubicle: {
		SubCategoryAll,
		"FZ Series",
		"Water-Based Lubes",
		"Silicone Weights",
		"Cubicle Labs",
		"Angstrom Research",
	},
	models.CategorySCS: {
		SubCategoryAll,
		"Cosmic Lube",
		"Speed Lube (Weights)",
	},
}
