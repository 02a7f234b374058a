package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				So(m.RecordSimulation(OutcomeOK, 3), ShouldBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_engine_simulations_total"], ShouldBeTrue)
				So(names["test_engine_simulation_latency_milliseconds"], ShouldBeTrue)
			})
		})
	})
}

func TestRecordSimulation(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("Known outcomes are counted per label", func() {
			So(m.RecordSimulation(OutcomeOK, 1), ShouldBeNil)
			So(m.RecordSimulation(OutcomeOK, 2), ShouldBeNil)
			So(m.RecordSimulation(OutcomeInvalid, 1), ShouldBeNil)

			So(testutil.ToFloat64(m.simulations.WithLabelValues(OutcomeOK)), ShouldEqual, float64(2))
			So(testutil.ToFloat64(m.simulations.WithLabelValues(OutcomeInvalid)), ShouldEqual, float64(1))
		})

		Convey("Unknown outcomes are rejected", func() {
			err := m.RecordSimulation("weird", 1)
			So(errors.Is(err, ErrUnknownOutcome), ShouldBeTrue)
		})
	})
}

func TestHistoryAndCacheMetrics(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("History counters and gauges track updates", func() {
			m.UpdateHistoryQueueSize(7)
			m.RecordHistoryDropped()
			m.RecordHistoryPersisted("report")
			m.RecordHistoryFailure("audit")

			So(testutil.ToFloat64(m.historyQueueSize), ShouldEqual, float64(7))
			So(testutil.ToFloat64(m.historyDropped), ShouldEqual, float64(1))
			So(testutil.ToFloat64(m.historyPersisted.WithLabelValues("report")), ShouldEqual, float64(1))
			So(testutil.ToFloat64(m.historyFailures.WithLabelValues("audit")), ShouldEqual, float64(1))
		})

		Convey("Cache lookups and corpus loads are recorded", func() {
			m.RecordMarketCache(CacheHit)
			m.RecordMarketCache(CacheMiss)
			m.RecordMarketCache(CacheMiss)
			m.RecordCorpusLoad(12, 340)

			So(testutil.ToFloat64(m.marketCache.WithLabelValues(CacheMiss)), ShouldEqual, float64(2))
			So(testutil.ToFloat64(m.corpusRecords), ShouldEqual, float64(340))
		})
	})
}

func TestDisabledManager(t *testing.T) {
	Convey("A disabled manager records nothing", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
		So(m.RecordSimulation("anything", 1), ShouldBeNil)
		m.RecordHistoryDropped()
		So(testutil.ToFloat64(m.historyDropped), ShouldEqual, float64(0))
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Package helpers write to the custom registry", t, func() {
		So(func() {
			_ = RecordSimulation(OutcomeOK, 1)
			ObserveReadiness(80)
			ObserveBatchSize(3)
			RecordOfferComparison()
			RecordHTTPRequest("/simulate", "POST", "200", 0.01)
			RecordErrorByComponent("api", "bad_request")
		}, ShouldNotPanic)
		So(GetRegistry(), ShouldNotBeNil)
	})
}
