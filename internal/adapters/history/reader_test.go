package history

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/internsim/internal/domain/model"
)

func TestMemorySinkReader(t *testing.T) {
	Convey("Given a memory sink with three runs by u1", t, func() {
		ctx := context.Background()
		s := NewMemorySink()
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		for i, r := range []struct {
			readiness, acceptance int
			role                  string
		}{{60, 20, "Backend Developer"}, {71, 45, "Backend Developer"}, {80, 30, "Data Analyst"}} {
			So(s.AppendReport(ctx, model.ScoreReport{
				ID: string(rune('a' + i)), UserID: "u1", Role: r.role,
				Readiness: r.readiness, AcceptanceProbability: r.acceptance,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}), ShouldBeNil)
		}
		So(s.AppendReport(ctx, model.ScoreReport{ID: "z", UserID: "u2", Role: "ML Engineer", CreatedAt: base}), ShouldBeNil)
		So(s.AppendAudit(ctx, model.AuditEvent{ID: "e1", Type: model.AuditSimulationRun, CreatedAt: base}), ShouldBeNil)
		So(s.AppendAudit(ctx, model.AuditEvent{ID: "e2", Type: model.AuditOfferCompare, CreatedAt: base.Add(time.Hour)}), ShouldBeNil)

		Convey("ListReports pages newest first", func() {
			page, err := s.ListReports(ctx, "u1", 2, 0)
			So(err, ShouldBeNil)
			So(page, ShouldHaveLength, 2)
			So(page[0].ID, ShouldEqual, "c")
			So(page[1].ID, ShouldEqual, "b")

			page, err = s.ListReports(ctx, "u1", 2, 2)
			So(err, ShouldBeNil)
			So(page, ShouldHaveLength, 1)
			So(page[0].ID, ShouldEqual, "a")

			page, err = s.ListReports(ctx, "u1", 2, 10)
			So(err, ShouldBeNil)
			So(page, ShouldBeEmpty)
		})

		Convey("Summary rounds the mean readiness and keeps the peak acceptance", func() {
			sum, err := s.Summary(ctx, "u1")
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, Summary{TotalRuns: 3, AvgReadiness: 70, PeakAcceptance: 45})
		})

		Convey("Summary of a caller without runs is zero", func() {
			sum, err := s.Summary(ctx, "nobody")
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, Summary{})
		})

		Convey("Overview counts everything and orders roles by runs", func() {
			o, err := s.Overview(ctx, 1, 2)
			So(err, ShouldBeNil)
			So(o.TotalSimulations, ShouldEqual, 4)
			So(o.TotalEvents, ShouldEqual, 2)
			So(o.DistinctUsers, ShouldEqual, 2)
			So(o.TopRoles, ShouldResemble, []model.NamedCount{
				{Name: "Backend Developer", Count: 2},
				{Name: "Data Analyst", Count: 1},
			})
			So(o.RecentEvents, ShouldHaveLength, 1)
			So(o.RecentEvents[0].ID, ShouldEqual, "e2")
		})
	})
}

var reportColumns = []string{
	"id", "user_id", "role", "tier", "category", "base_readiness", "demand_boost",
	"readiness", "competition_index", "acceptance_probability", "confidence_level",
	"market_percentile", "top_matches", "created_at",
}

func TestPostgresSinkReader(t *testing.T) {
	Convey("Given a postgres sink over sqlmock", t, func() {
		db, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		defer db.Close()
		ctx := context.Background()
		sink := NewPostgresSink(db)
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

		Convey("ListReports decodes rows and their matches", func() {
			matches := `[{"id":"o1","company":"Acme","role":"Backend Intern","category":"Backend Development",` +
				`"location":"Pune","remoteMode":"Remote","stipendMin":10000,"stipendMax":20000,` +
				`"durationMonths":6,"skills":["Go","SQL"],"matchScore":64}]`
			rows := sqlmock.NewRows(reportColumns).AddRow(
				"r1", "u1", "Backend Developer", "Tier 2", "Backend Development", 70, 1.5,
				72, 40, 37, "Moderate", 72, []byte(matches), created,
			)
			mock.ExpectQuery(regexp.QuoteMeta("FROM simulations WHERE user_id = $1")).
				WithArgs("u1", 6, 12).
				WillReturnRows(rows)

			reports, err := sink.ListReports(ctx, "u1", 6, 12)
			So(err, ShouldBeNil)
			So(reports, ShouldHaveLength, 1)
			r := reports[0]
			So(r.ID, ShouldEqual, "r1")
			So(r.UserID, ShouldEqual, "u1")
			So(r.Category, ShouldEqual, model.CategoryBackend)
			So(r.ConfidenceLevel, ShouldEqual, model.ConfidenceModerate)
			So(r.CreatedAt.Equal(created), ShouldBeTrue)
			So(r.TopMatches, ShouldHaveLength, 1)
			So(r.TopMatches[0].MatchScore, ShouldEqual, 64)
			So(r.TopMatches[0].Record.Company, ShouldEqual, "Acme")
			So(r.TopMatches[0].Record.Skills, ShouldResemble, []string{"Go", "SQL"})
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("ListReports surfaces query failures", func() {
			mock.ExpectQuery("FROM simulations").WillReturnError(errors.New("connection reset"))

			_, err := sink.ListReports(ctx, "u1", 6, 0)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "query simulations")
		})

		Convey("Summary scans the aggregate row", func() {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(ROUND(AVG(readiness)), 0)::int")).
				WithArgs("u1").
				WillReturnRows(sqlmock.NewRows([]string{"count", "avg", "max"}).AddRow(3, 70, 45))

			sum, err := sink.Summary(ctx, "u1")
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, Summary{TotalRuns: 3, AvgReadiness: 70, PeakAcceptance: 45})
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("Overview runs totals, top roles and recent events", func() {
			mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(DISTINCT user_id) FROM simulations)")).
				WillReturnRows(sqlmock.NewRows([]string{"s", "e", "u"}).AddRow(12, 30, 4))
			mock.ExpectQuery(regexp.QuoteMeta("GROUP BY role")).
				WithArgs(3).
				WillReturnRows(sqlmock.NewRows([]string{"role", "runs"}).
					AddRow("Backend Developer", 7).
					AddRow("Data Analyst", 5))
			mock.ExpectQuery(regexp.QuoteMeta("FROM audit_events ORDER BY created_at DESC")).
				WithArgs(50).
				WillReturnRows(sqlmock.NewRows([]string{"id", "type", "user_id", "metadata", "created_at"}).
					AddRow("e1", "OFFER_COMPARE", nil, []byte(`{"growthA":80}`), created).
					AddRow("e2", "SIMULATION_RUN", "u1", []byte(`{}`), created.Add(-time.Minute)))

			o, err := sink.Overview(ctx, 50, 3)
			So(err, ShouldBeNil)
			So(o.TotalSimulations, ShouldEqual, 12)
			So(o.TotalEvents, ShouldEqual, 30)
			So(o.DistinctUsers, ShouldEqual, 4)
			So(o.TopRoles, ShouldResemble, []model.NamedCount{
				{Name: "Backend Developer", Count: 7},
				{Name: "Data Analyst", Count: 5},
			})
			So(o.RecentEvents, ShouldHaveLength, 2)
			So(o.RecentEvents[0].Type, ShouldEqual, model.AuditOfferCompare)
			So(o.RecentEvents[0].UserID, ShouldBeEmpty)
			So(o.RecentEvents[0].Metadata["growthA"], ShouldEqual, 80.0)
			So(o.RecentEvents[1].UserID, ShouldEqual, "u1")
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("Overview stops at a failed totals query", func() {
			mock.ExpectQuery("SELECT").WillReturnError(driver.ErrBadConn)

			_, err := sink.Overview(ctx, 50, 3)
			So(errors.Is(err, driver.ErrBadConn), ShouldBeTrue)
		})
	})
}
