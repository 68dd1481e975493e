// Package profile reduces daily activity records into a fitness profile.
//
// Missing measurements propagate as nil all the way into the profile. The
// neutral defaults used when scoring live in the scoring package, not here.
package profile

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/simumatch/internal/domain/model"
)

// DefaultWindow is the trailing window, in days, used when none is given.
const DefaultWindow = 28

const (
	daysPerWeek    = 7.0
	minutesPerHour = 60.0
	day            = 24 * time.Hour
	maxReadiness   = 100.0
)

// mean accumulates a running average over present values only. The
// incremental form stays finite for any finite inputs.
type mean struct {
	avg float64
	n   int
}

func (m *mean) add(v *float64) {
	if !usable(v) {
		return
	}
	m.n++
	m.avg += (*v - m.avg) / float64(m.n)
}

// value returns nil when nothing was observed.
func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.avg
	return &v
}

func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Summarize builds a FitnessProfile from the records dated within windowDays
// of the latest record. Record order does not matter.
func Summarize(records []model.RawActivityRecord, windowDays int) (model.FitnessProfile, error) {
	if len(records) == 0 {
		return model.FitnessProfile{}, ErrEmptyInput
	}
	if windowDays <= 0 {
		return model.FitnessProfile{}, ErrInvalidWindow
	}

	maxDate := records[0].Date
	for _, r := range records[1:] {
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	cutoff := maxDate.Add(-time.Duration(windowDays) * day)

	var (
		totalKm   float64
		longest   float64
		speed     mean
		readiness mean
		sleep     mean
		inWindow  int
	)
	for _, r := range records {
		if r.Date.Before(cutoff) {
			continue
		}
		inWindow++

		if usable(r.DistanceKm) && *r.DistanceKm > 0 {
			totalKm += *r.DistanceKm
			longest = math.Max(longest, *r.DistanceKm)
		}
		if usable(r.AvgSpeedKph) && *r.AvgSpeedKph > 0 {
			speed.add(r.AvgSpeedKph)
		}
		readiness.add(clampReadiness(r.Readiness))
		sleep.add(r.SleepHours)
	}

	p := model.FitnessProfile{
		WeeklyKm:      totalKm / (float64(windowDays) / daysPerWeek),
		LongRunMaxKm:  longest,
		AvgReadiness:  readiness.value(),
		AvgSleepHours: sleep.value(),
		WindowDays:    windowDays,
		RecordCount:   inWindow,
		AsOf:          maxDate,
	}
	if math.IsInf(p.WeeklyKm, 0) {
		return model.FitnessProfile{}, fmt.Errorf("%w: weekly distance overflows", ErrOutOfRange)
	}
	if avg := speed.value(); avg != nil {
		pace := minutesPerHour / *avg
		if math.IsInf(pace, 0) || pace <= 0 {
			return model.FitnessProfile{}, fmt.Errorf("%w: pace from %g kph", ErrOutOfRange, *avg)
		}
		p.AvgPaceMinPerKm = &pace
	}
	return p, nil
}

// clampReadiness keeps readiness inside its 0-100 scale.
func clampReadiness(v *float64) *float64 {
	if !usable(v) {
		return nil
	}
	c := math.Min(maxReadiness, math.Max(0, *v))
	return &c
}
