package learned

import (
	"fmt"

	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/internal/domain/profile"
)

// ScoreBatch scores every event for the athlete with m, checked against the
// default serving schema.
func ScoreBatch(athlete model.Athlete, events []model.EventProfile, m Regressor) ([]float64, error) {
	return ScoreBatchWithSchema(DefaultSchema(), athlete, events, m)
}

// ScoreBatchWithSchema is ScoreBatch against an explicit serving schema.
// Scores are returned in event order and are not bounded.
func ScoreBatchWithSchema(serving Schema, athlete model.Athlete, events []model.EventProfile, m Regressor) ([]float64, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	if got := m.Schema(); !serving.Equal(got) {
		return nil, fmt.Errorf("%w: model schema %q does not match serving schema %q",
			ErrFeatureSchemaMismatch, got.Version, serving.Version)
	}
	if len(events) == 0 {
		return []float64{}, nil
	}

	rows, err := BuildRows(serving, athlete, events)
	if err != nil {
		return nil, err
	}
	scores, err := m.Predict(rows)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(scores) != len(events) {
		return nil, fmt.Errorf("%w: %d predictions for %d events", ErrFeatureSchemaMismatch, len(scores), len(events))
	}
	return scores, nil
}

// AthleteFromProfile fills the learned-model attributes an athlete record
// does not carry (pace and VDOT) from a fitness profile.
func AthleteFromProfile(p model.FitnessProfile, age int, gender string, numEvents int) (model.Athlete, error) {
	if p.AvgPaceMinPerKm == nil {
		return model.Athlete{}, fmt.Errorf("%w: %s is missing from the profile", ErrFeatureSchemaMismatch, FeatureAvgRunPace)
	}
	vdot, ok := profile.VDOTFromProfile(p)
	if !ok {
		return model.Athlete{}, fmt.Errorf("%w: %s cannot be estimated from the profile", ErrFeatureSchemaMismatch, FeatureVDOT)
	}
	return model.Athlete{
		Age:        age,
		Gender:     gender,
		AvgRunPace: *p.AvgPaceMinPerKm,
		VDOT:       vdot,
		NumEvents:  numEvents,
	}, nil
}
