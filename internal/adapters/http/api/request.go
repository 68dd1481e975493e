package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	service "github.com/okian/simumatch/internal/app"
	"github.com/okian/simumatch/internal/domain/model"
)

// maxBodyBytes caps request bodies; a year of daily records fits easily.
const maxBodyBytes = 4 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// recordRequest is one day of activity. Date accepts YYYY-MM-DD or RFC3339.
// The upper bounds sit far above any human effort and keep window totals finite.
type recordRequest struct {
	Date        string   `json:"date" validate:"required"`
	DistanceKm  *float64 `json:"distance_km" validate:"omitempty,gte=0,lte=1000"`
	AvgSpeedKph *float64 `json:"avg_speed_kph" validate:"omitempty,gte=0,lte=100"`
	Readiness   *float64 `json:"readiness"`
	SleepHours  *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	MoodScore   *float64 `json:"mood_score"`
}

func (rr recordRequest) toModel() (model.RawActivityRecord, error) {
	date, err := time.Parse(time.DateOnly, rr.Date)
	if err != nil {
		date, err = time.Parse(time.RFC3339, rr.Date)
		if err != nil {
			return model.RawActivityRecord{}, fmt.Errorf("%w: invalid date %q; must be YYYY-MM-DD or RFC3339", ErrBadRequest, rr.Date)
		}
	}
	return model.RawActivityRecord{
		Date:        date.UTC(),
		DistanceKm:  rr.DistanceKm,
		AvgSpeedKph: rr.AvgSpeedKph,
		Readiness:   rr.Readiness,
		SleepHours:  rr.SleepHours,
		MoodScore:   rr.MoodScore,
	}, nil
}

// profileRequest mirrors the body of POST /profile.
type profileRequest struct {
	Records    []recordRequest `json:"records" validate:"dive"`
	WindowDays int             `json:"window_days"`
}

// recommendRequest mirrors the body of POST /recommend.
type recommendRequest struct {
	Records    []recordRequest       `json:"records" validate:"dive"`
	WindowDays int                   `json:"window_days"`
	TopK       *int                  `json:"top_k"`
	Strategy   string                `json:"strategy" validate:"omitempty,oneof=rule learned"`
	Athlete    *service.AthleteInput `json:"athlete"`
}

func (req recommendRequest) toInput() (service.RecommendInput, error) {
	records, err := toRecords(req.Records)
	if err != nil {
		return service.RecommendInput{}, err
	}
	return service.RecommendInput{
		Records:    records,
		WindowDays: req.WindowDays,
		TopK:       req.TopK,
		Strategy:   model.Strategy(req.Strategy),
		Athlete:    req.Athlete,
	}, nil
}

func toRecords(in []recordRequest) ([]model.RawActivityRecord, error) {
	out := make([]model.RawActivityRecord, 0, len(in))
	for _, rr := range in {
		rec, err := rr.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
	}
	return &v, nil
}
