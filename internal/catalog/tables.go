package catalog

import (
	"strings"

	"github.com/mcoot/gamehub/internal/model"
)

// liveCategories maps Gamezop category names, matched exactly
var liveCategories = map[string]model.Category{
	"Action":          model.CategoryAction,
	"Adventure":       model.CategoryAdventure,
	"Arcade":          model.CategoryArcade,
	"Puzzle & Logic":  model.CategoryPuzzle,
	"Sports & Racing": model.CategorySports,
	"Strategy":        model.CategoryStrategy,
	"Casual":          model.CategoryCasual,
}

// demoCategories maps backend category names, matched lower-cased
var demoCategories = map[string]model.Category{
	"action":    model.CategoryAction,
	"adventure": model.CategoryAdventure,
	"arcade":    model.CategoryArcade,
	"puzzle":    model.CategoryPuzzle,
	"sports":    model.CategorySports,
	"racing":    model.CategoryRacing,
	"strategy":  model.CategoryStrategy,
	"casual":    model.CategoryCasual,
}

// LiveCategory maps a Gamezop category, defaulting to Arcade
func LiveCategory(name string) model.Category {
	if c, ok := liveCategories[strings.TrimSpace(name)]; ok {
		return c
	}
	return model.DefaultCategory
}

// DemoCategory maps a backend category, defaulting to Arcade
func DemoCategory(name string) model.Category {
	if c, ok := demoCategories[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return model.DefaultCategory
}

// CategoryQuery returns the backend's lower-case name for c
func CategoryQuery(c model.Category) string {
	return strings.ToLower(string(c))
}
