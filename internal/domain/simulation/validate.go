package simulation

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/internsim/internal/domain/model"
)

// Validate checks a candidate profile. Errors wrap ErrValidation.
func Validate(p model.CandidateProfile) error {
	switch {
	case math.IsNaN(p.SkillAvg):
		return fmt.Errorf("%w: skill data is required", ErrValidation)
	case p.SkillAvg < 0 || p.SkillAvg > 100:
		return fmt.Errorf("%w: skillAvg must be between 0 and 100", ErrValidation)
	case strings.TrimSpace(p.Role) == "":
		return fmt.Errorf("%w: valid target role is required", ErrValidation)
	case strings.TrimSpace(p.Tier) == "":
		return fmt.Errorf("%w: valid company tier is required", ErrValidation)
	case math.IsNaN(p.CGPA) || p.CGPA < 0 || p.CGPA > 10:
		return fmt.Errorf("%w: CGPA must be between 0 and 10", ErrValidation)
	case p.Projects < 0:
		return fmt.Errorf("%w: projects count cannot be negative", ErrValidation)
	case p.Internships < 0:
		return fmt.Errorf("%w: internships count cannot be negative", ErrValidation)
	}
	for name, lvl := range p.Skills {
		if lvl < model.MinSkillLevel || lvl > model.MaxSkillLevel {
			return fmt.Errorf("%w: skill %q must be between %d and %d", ErrValidation, name, model.MinSkillLevel, model.MaxSkillLevel)
		}
	}
	return nil
}

// Offer growth factors are rated 1-5.
const (
	minOfferRating = 1
	maxOfferRating = 5
)

func validateOffer(label string, o OfferInput) error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"learning", o.Learning},
		{"brand", o.Brand},
		{"techStack", o.TechStack},
		{"network", o.Network},
	} {
		if f.v < minOfferRating || f.v > maxOfferRating {
			return fmt.Errorf("%w: %s.%s must be between %d and %d", ErrValidation, label, f.name, minOfferRating, maxOfferRating)
		}
	}
	return nil
}
