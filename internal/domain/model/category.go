package model

import "strings"

// Category is a taxonomy bucket for opportunities and target roles.
type Category string

// Taxonomy values.
const (
	CategoryMobile     Category = "Mobile Development"
	CategoryBackend    Category = "Backend Development"
	CategoryDataAI     Category = "Data & AI"
	CategoryFrontend   Category = "Frontend & UI/UX"
	CategoryFullStack  Category = "Full Stack"
	CategoryBlockchain Category = "Blockchain"
	CategoryProduct    Category = "Product"
	CategoryOther      Category = "Other"
)

// Categories lists the taxonomy in display order.
var Categories = []Category{
	CategoryMobile,
	CategoryBackend,
	CategoryDataAI,
	CategoryFrontend,
	CategoryFullStack,
	CategoryBlockchain,
	CategoryProduct,
	CategoryOther,
}

// ParseCategory maps a stored category string onto the taxonomy.
// Unknown values resolve to CategoryOther.
func ParseCategory(s string) Category {
	if c, ok := LookupCategory(s); ok {
		return c
	}
	return CategoryOther
}

// LookupCategory reports the taxonomy value named by s, ignoring case and
// surrounding space.
func LookupCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

func (c Category) String() string { return string(c) }
