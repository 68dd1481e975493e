package profile_test

import (
	"testing"
	"time"

	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimateVDOT(t *testing.T) {
	Convey("Given a 5K run in 20 minutes", t, func() {
		v, err := profile.EstimateVDOT(5, 20*time.Minute)

		Convey("Then the estimate matches the published table", func() {
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 49.8, 0.1)
		})
	})

	Convey("Given a faster effort over the same distance", t, func() {
		slow, _ := profile.EstimateVDOT(5, 25*time.Minute)
		fast, _ := profile.EstimateVDOT(5, 18*time.Minute)

		Convey("Then it rates higher", func() {
			So(fast, ShouldBeGreaterThan, slow)
		})
	})

	Convey("Given an invalid effort", t, func() {
		_, errDist := profile.EstimateVDOT(0, time.Hour)
		_, errTime := profile.EstimateVDOT(10, 0)

		Convey("Then it is rejected", func() {
			So(errDist, ShouldEqual, profile.ErrInvalidEffort)
			So(errTime, ShouldEqual, profile.ErrInvalidEffort)
		})
	})
}

func TestVDOTFromProfile(t *testing.T) {
	Convey("Given a profile with a long run and pace", t, func() {
		p := model.FitnessProfile{LongRunMaxKm: 5, AvgPaceMinPerKm: model.Float(4)}

		Convey("Then the estimate equals the effort-based one", func() {
			v, ok := profile.VDOTFromProfile(p)
			want, _ := profile.EstimateVDOT(5, 20*time.Minute)
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, want, 1e-9)
		})
	})

	Convey("Given a profile without pace", t, func() {
		p := model.FitnessProfile{LongRunMaxKm: 12}

		Convey("Then no estimate is produced", func() {
			_, ok := profile.VDOTFromProfile(p)
			So(ok, ShouldBeFalse)
		})
	})
}
