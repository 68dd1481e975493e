package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "simumatch")
				So(manager.subsystem, ShouldEqual, "matcher")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.profilesSummarized.Inc()

			Convey("Then metrics carry the configured names and labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_profiles_summarized_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When options carry empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "simumatch")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording recommendations", func() {
			before := testutil.ToFloat64(globalManager.recommendationsServed.WithLabelValues("rule"))
			RecordRecommendation("rule")
			RecordScoringLatency("rule", 1.5)

			Convey("Then the strategy counter grows", func() {
				So(testutil.ToFloat64(globalManager.recommendationsServed.WithLabelValues("rule")), ShouldEqual, before+1)
			})
		})

		Convey("When recording profile summaries", func() {
			before := testutil.ToFloat64(globalManager.profilesSummarized)
			RecordProfileSummary(12)

			Convey("Then the counter grows", func() {
				So(testutil.ToFloat64(globalManager.profilesSummarized), ShouldEqual, before+1)
			})
		})

		Convey("When recording schema mismatches and resolutions", func() {
			mismatches := testutil.ToFloat64(globalManager.schemaMismatches)
			notFound := testutil.ToFloat64(globalManager.athleteResolutions.WithLabelValues("not_found"))
			RecordSchemaMismatch()
			RecordAthleteResolution("not_found")

			Convey("Then both counters grow", func() {
				So(testutil.ToFloat64(globalManager.schemaMismatches), ShouldEqual, mismatches+1)
				So(testutil.ToFloat64(globalManager.athleteResolutions.WithLabelValues("not_found")), ShouldEqual, notFound+1)
			})
		})

		Convey("When setting context gauges", func() {
			UpdateCatalogSize(6)
			UpdateModelLoaded(true)
			UpdateEmbeddingRows("event", 40)
			UpdateBreakerState("postgres", 2)

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(globalManager.catalogSize), ShouldEqual, 6)
				So(testutil.ToFloat64(globalManager.modelLoaded), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.embeddingRows.WithLabelValues("event")), ShouldEqual, 40)
				So(testutil.ToFloat64(globalManager.breakerState.WithLabelValues("postgres")), ShouldEqual, 2)
			})

			Convey("And the model gauge drops back to zero", func() {
				UpdateModelLoaded(false)
				So(testutil.ToFloat64(globalManager.modelLoaded), ShouldEqual, 0)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			before := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/recommend", "POST", "200"))

			Convey("Then nothing panics and the request counter grows", func() {
				So(func() {
					RecordHTTPRequest("/recommend", "POST", "200")
					RecordHTTPRequestDuration("/recommend", "POST", "200", 0.01)
					RecordErrorByComponent("ranking", "invalid_top_k")
					RecordErrorByEndpoint("/recommend", "POST", "bad_request")
					RecordRepositoryQueryLatency("memory", "load_catalog", 0.2)
				}, ShouldNotPanic)
				So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/recommend", "POST", "200")), ShouldEqual, before+1)
			})
		})

		Convey("When recording system metrics", func() {
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(12)

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, 1024)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
				So(func() { RecordSystemGCPauseTime(0.3) }, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("Then it exposes the service metrics", func() {
			RecordProfileSummary(1)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
