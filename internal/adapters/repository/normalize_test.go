package repository_test

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/okian/simumatch/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func nf(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func TestUnits(t *testing.T) {
	Convey("Given stored units", t, func() {
		Convey("Then conversions are explicit", func() {
			So(repository.Meters(5000).Km(), ShouldEqual, 5.0)
			So(repository.MetersPerSecond(2.5).Kph(), ShouldEqual, 9.0)
			So(repository.Seconds(27000).Hours(), ShouldEqual, 7.5)
		})
	})
}

func TestNormalizeDaily(t *testing.T) {
	morning := time.Date(2025, 4, 2, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 4, 2, 18, 30, 0, 0, time.UTC)
	dayBefore := time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)

	Convey("Given two activities on the same day and one the day before", t, func() {
		src := repository.Sources{
			Activities: []repository.ActivityRow{
				{StartDate: evening, DistanceMeters: nf(4000), AvgSpeedMPS: nf(2.5)},
				{StartDate: morning, DistanceMeters: nf(6000), AvgSpeedMPS: nf(3.0)},
				{StartDate: dayBefore, DistanceMeters: nf(10000)},
			},
			Readiness: []repository.ReadinessRow{
				{Day: morning, Score: nf(120)},
				{Day: dayBefore, Score: sql.NullFloat64{}},
			},
			Sleep: []repository.SleepRow{
				{Day: morning, DurationSeconds: nf(21600)},
				{Day: morning, DurationSeconds: nf(3600)},
			},
			Mood: []repository.MoodRow{{Day: dayBefore, Score: nf(math.NaN())}},
		}

		Convey("When normalizing", func() {
			out := repository.NormalizeDaily(src)

			Convey("Then there is one record per day, oldest first", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Date, ShouldEqual, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
				So(out[1].Date, ShouldEqual, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
			})

			Convey("And same-day distances are summed and speeds averaged", func() {
				So(*out[1].DistanceKm, ShouldAlmostEqual, 10.0, 1e-12)
				So(*out[1].AvgSpeedKph, ShouldAlmostEqual, (9.0+10.8)/2, 1e-9)
			})

			Convey("And readiness is clamped and sleep sessions summed", func() {
				So(*out[1].Readiness, ShouldEqual, 100.0)
				So(*out[1].SleepHours, ShouldAlmostEqual, 7.0, 1e-12)
			})

			Convey("And unmeasured values stay missing", func() {
				So(out[0].AvgSpeedKph, ShouldBeNil)
				So(out[0].Readiness, ShouldBeNil)
				So(out[0].SleepHours, ShouldBeNil)
				So(out[0].MoodScore, ShouldBeNil)
			})
		})
	})

	Convey("Given a run and a stationary activity on the same day", t, func() {
		src := repository.Sources{
			Activities: []repository.ActivityRow{
				{StartDate: morning, DistanceMeters: nf(10000), AvgSpeedMPS: nf(10 / 3.6)},
				{StartDate: evening, DistanceMeters: nf(0), AvgSpeedMPS: nf(0)},
			},
		}

		Convey("Then the zero speed does not pull the day average down", func() {
			out := repository.NormalizeDaily(src)
			So(out, ShouldHaveLength, 1)
			So(*out[0].AvgSpeedKph, ShouldAlmostEqual, 10.0, 1e-9)
		})
	})

	Convey("Given only stationary activities", t, func() {
		src := repository.Sources{
			Activities: []repository.ActivityRow{{StartDate: morning, DistanceMeters: nf(0), AvgSpeedMPS: nf(0)}},
		}

		Convey("Then the day speed stays missing", func() {
			out := repository.NormalizeDaily(src)
			So(out, ShouldHaveLength, 1)
			So(out[0].AvgSpeedKph, ShouldBeNil)
		})
	})

	Convey("Given no rows", t, func() {
		Convey("Then nothing is produced", func() {
			So(repository.NormalizeDaily(repository.Sources{}), ShouldBeEmpty)
		})
	})
}
