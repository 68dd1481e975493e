// Package model contains domain models passed between layers.
package model

import "time"

// RawActivityRecord is one athlete-day of activity and biometric data.
// Nil fields were not measured that day; they are never the same as zero.
type RawActivityRecord struct {
	Date        time.Time `json:"date"`
	DistanceKm  *float64  `json:"distance_km,omitempty"`
	AvgSpeedKph *float64  `json:"avg_speed_kph,omitempty"`
	Readiness   *float64  `json:"readiness,omitempty"` // 0-100
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	MoodScore   *float64  `json:"mood_score,omitempty"`
}

// FitnessProfile is the summary of a trailing window of activity records.
// It is recomputed per request and never stored as a source of truth.
type FitnessProfile struct {
	WeeklyKm        float64   `json:"weekly_km"`
	LongRunMaxKm    float64   `json:"long_run_max_km"`
	AvgPaceMinPerKm *float64  `json:"avg_pace_min_per_km"`
	AvgReadiness    *float64  `json:"avg_readiness"`
	AvgSleepHours   *float64  `json:"avg_sleep_hours"`
	WindowDays      int       `json:"window_days"`
	RecordCount     int       `json:"record_count"`
	AsOf            time.Time `json:"as_of"`
}

// Float returns a pointer to v. Handy for building records and profiles.
func Float(v float64) *float64 { return &v }
