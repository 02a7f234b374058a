package types_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/internsim/internal/domain/model"
	types "github.com/okian/internsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulateRequest(t *testing.T) {
	Convey("Given a simulate request", t, func() {
		avg := 70.0
		req := types.SimulateRequest{
			SkillAvg:     &avg,
			Projects:     3,
			Internships:  1,
			CGPA:         8.5,
			Role:         "Backend Developer",
			Tier:         "MNC",
			RemoteType:   "Hybrid",
			SystemDesign: 7,
			DataAnalysis: 4,
		}

		Convey("When converting to a profile", func() {
			p := req.ToProfile()

			Convey("Then camelCase keys map onto canonical names", func() {
				So(p.Skills["System Design"], ShouldEqual, 7)
				So(p.Skills["Data Analysis"], ShouldEqual, 4)
				So(p.Skills, ShouldHaveLength, len(model.CanonicalSkills))
				So(p.SkillAvg, ShouldEqual, 70.0)
				So(p.RemotePref, ShouldEqual, "Hybrid")
			})
		})

		Convey("When skillAvg is absent it becomes NaN", func() {
			req.SkillAvg = nil
			So(math.IsNaN(req.ToProfile().SkillAvg), ShouldBeTrue)
		})
	})
}

func TestFromReport(t *testing.T) {
	Convey("Given a report with one match", t, func() {
		now := time.Now()
		r := model.ScoreReport{
			ID:              "r-1",
			Category:        model.CategoryBackend,
			Readiness:       80,
			ConfidenceLevel: model.ConfidenceHigh,
			TopMatches: []model.Match{{
				Record:     model.OpportunityRecord{ID: "o-1", Category: model.CategoryBackend},
				MatchScore: 90,
			}},
			CreatedAt: now,
		}

		resp := types.FromReport(r)

		Convey("Then the wire form carries every field", func() {
			So(resp.Category, ShouldEqual, "Backend Development")
			So(resp.ConfidenceLevel, ShouldEqual, "High")
			So(resp.TopMatches, ShouldHaveLength, 1)
			So(resp.TopMatches[0].ID, ShouldEqual, "o-1")
			So(resp.TopMatches[0].MatchScore, ShouldEqual, 90)
			So(resp.TopMatches[0].Skills, ShouldNotBeNil)
		})
	})
}

func TestOpportunityRecordConversion(t *testing.T) {
	Convey("Given a wire opportunity with an unknown category", t, func() {
		o := types.Opportunity{ID: "x", Category: "Gardening", Skills: []string{"Go"}}

		Convey("Then the record falls back to Other", func() {
			So(o.ToRecord().Category, ShouldEqual, model.CategoryOther)
		})
	})
}

func TestMarketSnapshotConversion(t *testing.T) {
	Convey("Given a market snapshot", t, func() {
		s := model.MarketSnapshot{
			TopSkills:            []model.NamedCount{{Name: "React", Count: 4}},
			TopCategories:        []model.NamedCount{{Name: "Full Stack", Count: 9}},
			AvgStipendByCategory: []model.NamedValue{{Name: "Full Stack", Value: 12000}},
			RemoteRatio:          40,
			OnsiteRatio:          60,
			TotalCount:           9,
		}

		Convey("Then it survives the wire form", func() {
			So(types.FromSnapshot(s).ToSnapshot(), ShouldResemble, s)
		})
	})
}

func TestNewBatchItem(t *testing.T) {
	Convey("Given batch outcomes", t, func() {
		Convey("A scored candidate carries its report", func() {
			item := types.NewBatchItem(2, &model.ScoreReport{ID: "r-2", Category: model.CategoryProduct}, nil)
			So(item.Index, ShouldEqual, 2)
			So(item.Error, ShouldBeBlank)
			So(item.Report, ShouldNotBeNil)
			So(item.Report.Category, ShouldEqual, "Product")
		})

		Convey("A failed candidate carries only its error", func() {
			item := types.NewBatchItem(0, nil, errors.New("tier is required"))
			So(item.Report, ShouldBeNil)
			So(item.Error, ShouldEqual, "tier is required")
		})
	})
}
