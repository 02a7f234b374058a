// Package category resolves free-text target roles onto the opportunity taxonomy.
package category

import (
	"strings"

	"github.com/okian/internsim/internal/domain/model"
)

// Rule maps a predicate over the lowercased role to a category.
type Rule struct {
	Match    func(role string) bool
	Category model.Category
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules    []Rule
	fallback model.Category
}

// New builds a Classifier over rules, falling back to Other.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules, fallback: model.CategoryOther}
}

// Default returns the classifier with the standard rule table.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify returns the category of the first matching rule.
func (c *Classifier) Classify(role string) model.Category {
	r := strings.ToLower(role)
	for _, rule := range c.rules {
		if rule.Match(r) {
			return rule.Category
		}
	}
	return c.fallback
}

// ContainsAny matches when the role contains any of the needles.
func ContainsAny(needles ...string) func(string) bool {
	return func(role string) bool {
		for _, n := range needles {
			if strings.Contains(role, n) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the ordered rule table. Checks are plain substrings, so
// "blockchain" lands in Data & AI through "ai".
func DefaultRules() []Rule {
	return []Rule{
		{ContainsAny("mobile", "android", "flutter", "ios"), model.CategoryMobile},
		{ContainsAny("backend", "python", "node", "cloud", "devops", "cyber"), model.CategoryBackend},
		{ContainsAny("data", "ml", "machine", "ai", "scientist"), model.CategoryDataAI},
		{ContainsAny("frontend", "react", "ui", "ux", "design"), model.CategoryFrontend},
		{ContainsAny("full stack", "mern", "software engineer", "sde"), model.CategoryFullStack},
		{ContainsAny("blockchain", "web3"), model.CategoryBlockchain},
		{ContainsAny("product", "management"), model.CategoryProduct},
		{ContainsAny("qa", "test"), model.CategoryOther},
	}
}

// Roles is the curated list of target roles offered to clients, sorted.
var Roles = []string{
	"AI Researcher",
	"Backend Developer",
	"Blockchain Developer",
	"Cloud Engineer (DevOps)",
	"Cybersecurity Analyst",
	"Data Analyst",
	"Data Scientist",
	"Frontend Developer",
	"Full Stack Developer",
	"Machine Learning Engineer",
	"Mobile App Developer",
	"Product Manager",
	"QA / Testing Engineer",
	"Software Engineer (General)",
	"UI/UX Designer",
}
