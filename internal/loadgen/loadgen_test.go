package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/domain/category"
	"github.com/okian/internsim/internal/domain/types"
	"github.com/okian/internsim/pkg/logger"
)

func validReport() types.SimulateResponse {
	return types.SimulateResponse{
		ID:                    "r-1",
		Category:              "Backend",
		Readiness:             64,
		CompetitionIndex:      48,
		AcceptanceProbability: 40,
		ConfidenceLevel:       "Medium",
		MarketPercentile:      53,
		TopMatches:            []types.MatchEntry{{Opportunity: types.Opportunity{ID: "o-1"}, MatchScore: 77}},
	}
}

// fakeService answers /simulate with handler and counts calls.
func fakeService(handler http.HandlerFunc) (*httptest.Server, *int64) {
	var calls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/simulate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	})
	return httptest.NewServer(mux), &calls
}

func TestGenerateProfiles(t *testing.T) {
	Convey("Generated profiles are well formed", t, func() {
		profiles := GenerateProfiles(200)
		So(profiles, ShouldHaveLength, 200)

		ids := map[string]bool{}
		for _, p := range profiles {
			ids[p.UserID] = true
			So(p.Request.SkillAvg, ShouldNotBeNil)
			So(*p.Request.SkillAvg, ShouldBeBetweenOrEqual, 0, 100)
			So(*p.Request.SkillAvg, ShouldAlmostEqual, p.Request.ToProfile().SkillAverage())
			So(p.Request.CGPA, ShouldBeBetweenOrEqual, 5, 10)
			So(p.Request.Projects, ShouldBeBetweenOrEqual, 0, 10)
			So(p.Request.DSA, ShouldBeBetweenOrEqual, 0, 10)
			So(category.Roles, ShouldContain, p.Request.Role)
			So(p.Request.Tier, ShouldNotBeBlank)
		}
		So(ids, ShouldHaveLength, 200)
	})
}

func TestVerifyReport(t *testing.T) {
	Convey("Report verification", t, func() {
		So(verifyReport(validReport()), ShouldBeNil)

		r := validReport()
		r.AcceptanceProbability = 2
		So(verifyReport(r), ShouldNotBeNil)

		r = validReport()
		r.ID = ""
		So(verifyReport(r), ShouldNotBeNil)

		r = validReport()
		r.TopMatches[0].MatchScore = 140
		So(verifyReport(r), ShouldNotBeNil)

		r = validReport()
		r.MarketPercentile = 120
		So(verifyReport(r), ShouldNotBeNil)
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	Convey("Given a healthy service", t, func() {
		Convey("every valid report counts as successful", func() {
			var sawUser int64
			srv, calls := fakeService(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get(identity.HeaderUserID) != "" {
					atomic.AddInt64(&sawUser, 1)
				}
				_ = json.NewEncoder(w).Encode(validReport())
			})
			defer srv.Close()

			stats, err := Run(ctx, &Config{BaseURL: srv.URL, Requests: 40, Workers: 4, Timeout: time.Second}, log)
			So(err, ShouldBeNil)
			So(stats.Generated, ShouldEqual, 40)
			So(stats.Submitted, ShouldEqual, 40)
			So(stats.Successful, ShouldEqual, 40)
			So(stats.SuccessRate(), ShouldEqual, 100)
			So(stats.MaxLatency, ShouldBeGreaterThanOrEqualTo, stats.MeanLatency())
			So(atomic.LoadInt64(calls), ShouldEqual, 40)
			So(atomic.LoadInt64(&sawUser), ShouldEqual, 40)
		})

		Convey("a bearer token replaces the user header", func() {
			var bearer int64
			srv, _ := fakeService(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") == "Bearer tok" && r.Header.Get(identity.HeaderUserID) == "" {
					atomic.AddInt64(&bearer, 1)
				}
				_ = json.NewEncoder(w).Encode(validReport())
			})
			defer srv.Close()

			_, err := Run(ctx, &Config{BaseURL: srv.URL, Requests: 5, Workers: 2, Token: "tok"}, log)
			So(err, ShouldBeNil)
			So(atomic.LoadInt64(&bearer), ShouldEqual, 5)
		})

		Convey("responses are classified by status and content", func() {
			var n int64
			srv, _ := fakeService(func(w http.ResponseWriter, _ *http.Request) {
				switch atomic.AddInt64(&n, 1) % 3 {
				case 0:
					w.WriteHeader(http.StatusBadRequest)
				case 1:
					w.WriteHeader(http.StatusInternalServerError)
				default:
					bad := validReport()
					bad.Readiness = -1
					_ = json.NewEncoder(w).Encode(bad)
				}
			})
			defer srv.Close()

			stats, err := Run(ctx, &Config{BaseURL: srv.URL, Requests: 30, Workers: 1, Verbose: true}, log)
			So(err, ShouldBeNil)
			So(stats.Successful, ShouldEqual, 0)
			So(stats.Rejected, ShouldEqual, 10)
			So(stats.Failed, ShouldEqual, 10)
			So(stats.Invalid, ShouldEqual, 10)
		})
	})

	Convey("An unhealthy service aborts the run", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := Run(ctx, &Config{BaseURL: srv.URL, Requests: 1}, log)
		So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
	})

	Convey("A non-positive request count is rejected", t, func() {
		_, err := Run(ctx, &Config{BaseURL: "http://127.0.0.1:1", Requests: 0}, log)
		So(err, ShouldNotBeNil)
	})
}
