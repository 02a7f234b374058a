package model_test

import (
	"math"
	"testing"

	model "github.com/okian/internsim/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseCategory(t *testing.T) {
	convey.Convey("Given stored category strings", t, func() {
		convey.Convey("Then taxonomy values resolve case-insensitively", func() {
			convey.So(model.ParseCategory("Data & AI"), convey.ShouldEqual, model.CategoryDataAI)
			convey.So(model.ParseCategory(" backend development "), convey.ShouldEqual, model.CategoryBackend)
		})

		convey.Convey("Then unknown values resolve to Other", func() {
			convey.So(model.ParseCategory("Gardening"), convey.ShouldEqual, model.CategoryOther)
			convey.So(model.ParseCategory(""), convey.ShouldEqual, model.CategoryOther)
		})

		convey.Convey("Then lookups report whether the value is in the taxonomy", func() {
			c, ok := model.LookupCategory("full stack")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(c, convey.ShouldEqual, model.CategoryFullStack)

			_, ok = model.LookupCategory("Gardening")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestCandidateProfile(t *testing.T) {
	convey.Convey("Given a candidate profile", t, func() {
		p := model.CandidateProfile{Skills: map[string]int{
			"React":  8,
			"Python": 5,
			"SQL":    6,
			"Go":     9,
		}}

		convey.Convey("Then strong skills follow vocabulary order with extras last", func() {
			convey.So(p.StrongSkills(), convey.ShouldResemble, []string{"React", "SQL", "Go"})
		})

		convey.Convey("Then the skill average is scaled to 0-100", func() {
			convey.So(p.SkillAverage(), convey.ShouldAlmostEqual, 70.0)
		})

		convey.Convey("When the profile has no skills", func() {
			empty := model.CandidateProfile{}
			convey.So(empty.StrongSkills(), convey.ShouldBeEmpty)
			convey.So(math.IsNaN(empty.SkillAverage()), convey.ShouldBeTrue)
		})
	})
}

func TestOpportunityRecord(t *testing.T) {
	convey.Convey("Given a record with a stipend range", t, func() {
		r := model.OpportunityRecord{StipendMin: 10000, StipendMax: 15000}
		convey.So(r.MidStipend(), convey.ShouldEqual, 12500.0)
	})
}
