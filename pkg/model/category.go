package model

import (
	"fmt"
	"strings"
)

// Category labels a qualifying event. The zero value means "no category".
type Category string

const (
	CategoryNone      Category = ""
	CategoryFreeThrow Category = "freethrow"
	CategoryThree     Category = "3points shooting"
	CategoryTwo       Category = "2points shooting"
)

// Categories lists every valid category in a stable order.
var Categories = []Category{CategoryFreeThrow, CategoryThree, CategoryTwo}

// Slug is the category with spaces replaced, safe for file names.
func (c Category) Slug() string {
	return strings.ReplaceAll(string(c), " ", "_")
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts either the label ("3points shooting") or its slug ("3points_shooting").
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if s == string(c) || s == c.Slug() {
			return c, nil
		}
	}
	return CategoryNone, fmt.Errorf("unknown category %q", s)
}
