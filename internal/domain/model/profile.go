// Package model contains domain models passed between layers.
package model

import (
	"math"
	"sort"
)

// Skill levels are integers on a 0-10 scale.
const (
	MinSkillLevel    = 0
	MaxSkillLevel    = 10
	StrongSkillLevel = 6
)

// SkillKey pairs a canonical skill name with its wire key.
type SkillKey struct {
	Name string // e.g. "System Design"
	Key  string // e.g. "systemDesign"
}

// CanonicalSkills is the fixed skill vocabulary of a candidate profile.
var CanonicalSkills = []SkillKey{
	{Name: "DSA", Key: "dsa"},
	{Name: "Algorithms", Key: "algorithms"},
	{Name: "System Design", Key: "systemDesign"},
	{Name: "React", Key: "react"},
	{Name: "Node", Key: "node"},
	{Name: "Python", Key: "python"},
	{Name: "SQL", Key: "sql"},
	{Name: "ML", Key: "ml"},
	{Name: "Data Analysis", Key: "dataAnalysis"},
	{Name: "Embedded", Key: "embedded"},
}

// CandidateProfile is the input of one simulation. It is never mutated.
type CandidateProfile struct {
	Skills      map[string]int // canonical name -> level
	SkillAvg    float64        // 0-100
	Projects    int
	Internships int
	CGPA        float64 // 0-10
	Role        string
	Tier        string
	RemotePref  string
}

// StrongSkills returns the canonical names with level >= StrongSkillLevel,
// in vocabulary order followed by any extra names sorted.
func (p CandidateProfile) StrongSkills() []string {
	var out []string
	seen := make(map[string]bool, len(p.Skills))
	for _, sk := range CanonicalSkills {
		seen[sk.Name] = true
		if p.Skills[sk.Name] >= StrongSkillLevel {
			out = append(out, sk.Name)
		}
	}
	var extra []string
	for name, lvl := range p.Skills {
		if !seen[name] && lvl >= StrongSkillLevel {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// SkillAverage returns the mean skill level scaled to 0-100, or NaN when
// no skills are set.
func (p CandidateProfile) SkillAverage() float64 {
	if len(p.Skills) == 0 {
		return math.NaN()
	}
	sum := 0
	for _, lvl := range p.Skills {
		sum += lvl
	}
	return float64(sum) / float64(len(p.Skills)) * 10
}
