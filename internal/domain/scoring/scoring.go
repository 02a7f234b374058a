// Package scoring holds the pure numeric primitives of the readiness engine.
//
// Every function is deterministic and side-effect free. Percentages are
// rounded half up and clamped to their documented range. Degenerate numeric
// input (NaN) collapses to a documented fallback instead of propagating.
package scoring

import "math"

// Fallbacks and bounds.
const (
	NeutralReadiness   = 50
	FallbackAcceptance = 5

	AcceptanceFloor   = 5
	AcceptanceCeiling = 95
	ReadinessCeiling  = 95

	DefaultRoleMatch = 80

	maxScore = 100

	projectSaturation    = 3
	internshipSaturation = 2
	weakMatchThreshold   = 30
	weakMatchPenalty     = 10
)

// Readiness weights.
const (
	wSkill       = 0.4
	wProjects    = 0.2
	wInternships = 0.2
	wCGPA        = 0.1
	wRoleMatch   = 0.1
)

// ReadinessInput holds the candidate features used by Readiness.
type ReadinessInput struct {
	SkillAvg    float64 // 0-100
	Projects    int
	Internships int
	CGPA        float64 // 0-10
	RoleMatch   float64 // 0-100
}

// Readiness computes the base market-readiness score in [0,100].
func Readiness(in ReadinessInput) int {
	v := wSkill*in.SkillAvg +
		wProjects*ProjectStrength(in.Projects) +
		wInternships*ExperienceFactor(in.Internships) +
		wCGPA*NormalizeTo100(in.CGPA, 10) +
		wRoleMatch*in.RoleMatch
	if math.IsNaN(v) {
		return NeutralReadiness
	}
	return Clamp(Round(v), 0, maxScore)
}

// AcceptanceInput holds the features used by AcceptanceProbability.
type AcceptanceInput struct {
	Readiness        float64
	CompetitionIndex float64
	ExperienceFactor float64
	RoleMatch        float64
}

// AcceptanceProbability is the unorchestrated acceptance estimate in [0,100].
func AcceptanceProbability(in AcceptanceInput) int {
	v := 0.5*in.Readiness - 0.3*in.CompetitionIndex + 0.1*in.ExperienceFactor + 0.1*in.RoleMatch
	if math.IsNaN(v) {
		return FallbackAcceptance
	}
	return Clamp(Round(v), 0, maxScore)
}

// MarketAcceptance is the acceptance estimate used by the simulation
// pipeline, bounded to [AcceptanceFloor, AcceptanceCeiling].
func MarketAcceptance(finalReadiness, competitionIndex float64) int {
	v := finalReadiness - 0.6*competitionIndex + 5
	if math.IsNaN(v) {
		return FallbackAcceptance
	}
	return Clamp(Round(v), AcceptanceFloor, AcceptanceCeiling)
}

// ApplyMatchPenalty lowers p when the best match is weak, never below the floor.
func ApplyMatchPenalty(p, bestMatch int) int {
	if bestMatch >= weakMatchThreshold {
		return p
	}
	return max(AcceptanceFloor, p-weakMatchPenalty)
}

// BoostedReadiness adds the demand boost to base readiness, capped at ReadinessCeiling.
func BoostedReadiness(base int, boost float64) int {
	v := float64(base) + boost
	if math.IsNaN(v) {
		return NeutralReadiness
	}
	return min(Round(v), ReadinessCeiling)
}

// GrowthInput holds offer growth factors on a 1-5 scale.
type GrowthInput struct {
	Learning  int
	Brand     int
	TechStack int
	Network   int
}

// GrowthIndex scores an offer's long-term growth value in [0,100].
func GrowthIndex(in GrowthInput) int {
	weighted := 0.4*float64(in.Learning) + 0.3*float64(in.Brand) + 0.2*float64(in.TechStack) + 0.1*float64(in.Network)
	return Round(weighted / 5 * maxScore)
}

// ProjectStrength saturates at three projects.
func ProjectStrength(projects int) float64 {
	return math.Min(float64(projects)/projectSaturation, 1) * maxScore
}

// ExperienceFactor saturates at two internships.
func ExperienceFactor(internships int) float64 {
	return math.Min(float64(internships)/internshipSaturation, 1) * maxScore
}

// NormalizeTo100 maps value on [0,scale] onto [0,100].
func NormalizeTo100(value, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return value / scale * maxScore
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
