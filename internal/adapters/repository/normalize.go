package repository

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/okian/simumatch/internal/domain/model"
)

// Units as stored by the upstream trackers. Conversions are explicit; no
// magnitude guessing.
type (
	Meters          float64
	MetersPerSecond float64
	Seconds         float64
)

// Km converts to kilometres.
func (m Meters) Km() float64 { return float64(m) / 1000 }

// Kph converts to kilometres per hour.
func (v MetersPerSecond) Kph() float64 { return float64(v) * 3.6 }

// Hours converts to hours.
func (s Seconds) Hours() float64 { return float64(s) / 3600 }

// ActivityRow is one tracked activity. Several may fall on one day.
type ActivityRow struct {
	StartDate      time.Time       `db:"start_date"`
	DistanceMeters sql.NullFloat64 `db:"distance_m"`
	AvgSpeedMPS    sql.NullFloat64 `db:"average_speed_mps"`
}

// ReadinessRow is one daily readiness score on a 0-100 scale.
type ReadinessRow struct {
	Day   time.Time       `db:"day"`
	Score sql.NullFloat64 `db:"score"`
}

// SleepRow is one sleep session, attributed to the day it ends on.
type SleepRow struct {
	Day             time.Time       `db:"day"`
	DurationSeconds sql.NullFloat64 `db:"duration_s"`
}

// MoodRow is one self-reported mood score.
type MoodRow struct {
	Day   time.Time       `db:"day"`
	Score sql.NullFloat64 `db:"score"`
}

// Sources groups the raw rows of one athlete.
type Sources struct {
	Activities []ActivityRow
	Readiness  []ReadinessRow
	Sleep      []SleepRow
	Mood       []MoodRow
}

// daily accumulates one calendar day.
type daily struct {
	distance    float64
	hasDistance bool
	speed       acc
	readiness   acc
	sleepHours  float64
	hasSleep    bool
	mood        acc
}

type acc struct {
	sum float64
	n   int
}

func (a *acc) add(v float64) {
	a.sum += v
	a.n++
}

func (a acc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	return model.Float(a.sum / float64(a.n))
}

// finite drops SQL NULLs, NaN and infinities.
func finite(v sql.NullFloat64) (float64, bool) {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return 0, false
	}
	return v.Float64, true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDaily merges raw rows into one record per UTC day, oldest first.
// Distances on the same day are summed, speeds and scores averaged, sleep
// sessions summed. Readiness is clamped into 0-100. Values never measured
// stay nil.
func NormalizeDaily(src Sources) []model.RawActivityRecord {
	days := make(map[time.Time]*daily)
	get := func(t time.Time) *daily {
		k := dayOf(t)
		d, ok := days[k]
		if !ok {
			d = &daily{}
			days[k] = d
		}
		return d
	}

	for _, a := range src.Activities {
		d := get(a.StartDate)
		if v, ok := finite(a.DistanceMeters); ok && v >= 0 {
			d.distance += Meters(v).Km()
			d.hasDistance = true
		}
		if v, ok := finite(a.AvgSpeedMPS); ok && v > 0 {
			d.speed.add(MetersPerSecond(v).Kph())
		}
	}
	for _, r := range src.Readiness {
		d := get(r.Day)
		if v, ok := finite(r.Score); ok {
			d.readiness.add(math.Min(100, math.Max(0, v)))
		}
	}
	for _, s := range src.Sleep {
		d := get(s.Day)
		if v, ok := finite(s.DurationSeconds); ok && v >= 0 {
			d.sleepHours += Seconds(v).Hours()
			d.hasSleep = true
		}
	}
	for _, m := range src.Mood {
		d := get(m.Day)
		if v, ok := finite(m.Score); ok {
			d.mood.add(v)
		}
	}

	out := make([]model.RawActivityRecord, 0, len(days))
	for date, d := range days {
		r := model.RawActivityRecord{
			Date:        date,
			AvgSpeedKph: d.speed.mean(),
			Readiness:   d.readiness.mean(),
			MoodScore:   d.mood.mean(),
		}
		if d.hasDistance {
			r.DistanceKm = model.Float(d.distance)
		}
		if d.hasSleep {
			r.SleepHours = model.Float(d.sleepHours)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
