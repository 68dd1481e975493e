package model

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EventProfile is a static catalog entry describing what an event demands.
type EventProfile struct {
	EventID            string   `json:"event_id" koanf:"event_id" validate:"required"`
	Name               string   `json:"name" koanf:"name" validate:"required"`
	DistanceKm         float64  `json:"distance_km" koanf:"distance_km" validate:"gte=0"`
	TargetPaceMinPerKm *float64 `json:"target_pace_min_per_km,omitempty" koanf:"target_pace_min_per_km" validate:"omitempty,gt=0"`
	ElevationGainM     float64  `json:"elevation_gain_m" koanf:"elevation_gain_m" validate:"gte=0"`
	EnduranceWeight    float64  `json:"endurance_weight" koanf:"endurance_weight" validate:"gte=0,lte=1"`
	SpeedWeight        float64  `json:"speed_weight" koanf:"speed_weight" validate:"gte=0,lte=1"`
	ExpectedWeeklyKm   float64  `json:"expected_weekly_km" koanf:"expected_weekly_km" validate:"gt=0"`
	Category           string   `json:"category" koanf:"category"`
	Description        string   `json:"description,omitempty" koanf:"description"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the catalog invariants: weights in [0,1] and a positive
// expected weekly volume.
func (e EventProfile) Validate() error {
	if err := Validator().Struct(e); err != nil {
		return fmt.Errorf("event %q: %w", e.EventID, err)
	}
	return nil
}

// Athlete holds the static attributes the learned scorer consumes.
type Athlete struct {
	Age        int     `json:"age" validate:"gte=0,lte=120"`
	Gender     string  `json:"gender" validate:"required"`
	AvgRunPace float64 `json:"avg_run_pace" validate:"gt=0"`
	VDOT       float64 `json:"vdot_est" validate:"gte=0"`
	NumEvents  int     `json:"num_events" validate:"gte=0"`
}
