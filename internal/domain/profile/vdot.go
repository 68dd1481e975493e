package profile

import (
	"math"
	"time"

	"github.com/okian/simumatch/internal/domain/model"
)

// Daniels–Gilbert oxygen cost and drop-dead curve coefficients.
const (
	vo2Intercept = -4.60
	vo2Linear    = 0.182258
	vo2Quadratic = 0.000104

	pctBase    = 0.8
	pctFastAmp = 0.1894393
	pctFastK   = 0.012778
	pctSlowAmp = 0.2989558
	pctSlowK   = 0.1932605

	metersPerKm = 1000.0
)

// EstimateVDOT returns the VDOT fitness estimate for covering distanceKm in
// the given time.
func EstimateVDOT(distanceKm float64, elapsed time.Duration) (float64, error) {
	minutes := elapsed.Minutes()
	if distanceKm <= 0 || minutes <= 0 {
		return 0, ErrInvalidEffort
	}
	velocity := distanceKm * metersPerKm / minutes // m/min
	vo2 := vo2Intercept + vo2Linear*velocity + vo2Quadratic*velocity*velocity
	pctMax := pctBase + pctFastAmp*math.Exp(-pctFastK*minutes) + pctSlowAmp*math.Exp(-pctSlowK*minutes)
	return vo2 / pctMax, nil
}

// VDOTFromProfile estimates VDOT from the longest run in the window held at
// the average pace. It reports false when the profile lacks either.
func VDOTFromProfile(p model.FitnessProfile) (float64, bool) {
	if p.AvgPaceMinPerKm == nil || p.LongRunMaxKm <= 0 {
		return 0, false
	}
	elapsed := time.Duration(p.LongRunMaxKm * *p.AvgPaceMinPerKm * float64(time.Minute))
	v, err := EstimateVDOT(p.LongRunMaxKm, elapsed)
	if err != nil {
		return 0, false
	}
	return v, true
}
