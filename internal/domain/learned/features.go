package learned

import (
	"fmt"
	"strings"

	"github.com/okian/simumatch/internal/domain/model"
)

// BuildRows encodes one row per event following schema. Missing values are
// never substituted: an event without a target pace, or a category the
// schema does not know, fails with ErrFeatureSchemaMismatch.
func BuildRows(schema Schema, athlete model.Athlete, events []model.EventProfile) ([][]float64, error) {
	width := schema.Width()
	rows := make([][]float64, 0, len(events))
	for _, e := range events {
		row := make([]float64, 0, width)
		for _, f := range schema.Features {
			switch f.Kind {
			case KindNumeric:
				v, err := numeric(f.Name, athlete, e)
				if err != nil {
					return nil, fmt.Errorf("event %q: %w", e.EventID, err)
				}
				row = append(row, v)
			case KindCategorical:
				onehot, err := categorical(f, athlete)
				if err != nil {
					return nil, fmt.Errorf("event %q: %w", e.EventID, err)
				}
				row = append(row, onehot...)
			default:
				return nil, fmt.Errorf("%w: feature %q has unknown kind %q", ErrFeatureSchemaMismatch, f.Name, f.Kind)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func numeric(name string, a model.Athlete, e model.EventProfile) (float64, error) {
	switch name {
	case FeatureAge:
		return float64(a.Age), nil
	case FeatureAvgRunPace:
		return a.AvgRunPace, nil
	case FeatureVDOT:
		return a.VDOT, nil
	case FeatureNumEvents:
		return float64(a.NumEvents), nil
	case FeatureDistanceKm:
		return e.DistanceKm, nil
	case FeatureTargetPace:
		if e.TargetPaceMinPerKm == nil {
			return 0, fmt.Errorf("%w: %s is missing", ErrFeatureSchemaMismatch, name)
		}
		return *e.TargetPaceMinPerKm, nil
	case FeatureDiffPace:
		if e.TargetPaceMinPerKm == nil {
			return 0, fmt.Errorf("%w: %s needs target_pace", ErrFeatureSchemaMismatch, name)
		}
		return a.AvgRunPace - *e.TargetPaceMinPerKm, nil
	case FeatureElevationGainM:
		return e.ElevationGainM, nil
	default:
		return 0, fmt.Errorf("%w: unknown numeric feature %q", ErrFeatureSchemaMismatch, name)
	}
}

func categorical(f Feature, a model.Athlete) ([]float64, error) {
	var value string
	switch f.Name {
	case FeatureGender:
		value = strings.ToUpper(strings.TrimSpace(a.Gender))
	default:
		return nil, fmt.Errorf("%w: unknown categorical feature %q", ErrFeatureSchemaMismatch, f.Name)
	}
	out := make([]float64, len(f.Categories))
	for i, c := range f.Categories {
		if c == value {
			out[i] = 1
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q is not one of %v", ErrFeatureSchemaMismatch, f.Name, value, f.Categories)
}
