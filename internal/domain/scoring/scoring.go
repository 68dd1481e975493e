// Package scoring defines the deterministic rule-based compatibility model.
package scoring

import (
	"math"

	"github.com/okian/simumatch/internal/domain/model"
)

// Default rule model constants.
const (
	DefaultEnduranceWeight  = 0.5
	DefaultSpeedWeight      = 0.4
	DefaultRecoveryWeight   = 0.1
	DefaultBaselinePace     = 6.0 // min/km at which the speed score reaches zero
	DefaultRecoveryTarget   = 85.0
	DefaultNeutralReadiness = 50.0
)

// Option applies a configuration option to the RuleScorer.
type Option func(*RuleScorer)

// WithWeights sets the blend coefficients of the three sub-scores.
// Negative values are ignored.
func WithWeights(endurance, speed, recovery float64) Option {
	return func(s *RuleScorer) {
		if endurance < 0 || speed < 0 || recovery < 0 {
			return
		}
		s.enduranceWeight = endurance
		s.speedWeight = speed
		s.recoveryWeight = recovery
	}
}

// WithBaselinePace sets the pace (min/km) that maps to a zero speed score.
func WithBaselinePace(pace float64) Option {
	return func(s *RuleScorer) {
		if pace > 0 {
			s.baselinePace = pace
		}
	}
}

// WithRecoveryTarget sets the readiness that maps to a full recovery score.
func WithRecoveryTarget(target float64) Option {
	return func(s *RuleScorer) {
		if target > 0 {
			s.recoveryTarget = target
		}
	}
}

// WithNeutralReadiness sets the readiness assumed when none was measured.
func WithNeutralReadiness(readiness float64) Option {
	return func(s *RuleScorer) {
		if readiness >= 0 {
			s.neutralReadiness = readiness
		}
	}
}

// Scorer computes the compatibility of one profile with one event.
type Scorer interface {
	// Score is pure: equal inputs always yield equal outputs.
	Score(p model.FitnessProfile, e model.EventProfile) model.CompatibilityScore
}

// RuleScorer implements Scorer with the weighted endurance/speed/recovery blend.
type RuleScorer struct {
	enduranceWeight  float64
	speedWeight      float64
	recoveryWeight   float64
	baselinePace     float64
	recoveryTarget   float64
	neutralReadiness float64
}

// NewRuleScorer creates a rule scorer with configuration options.
func NewRuleScorer(opts ...Option) *RuleScorer {
	s := &RuleScorer{
		enduranceWeight:  DefaultEnduranceWeight,
		speedWeight:      DefaultSpeedWeight,
		recoveryWeight:   DefaultRecoveryWeight,
		baselinePace:     DefaultBaselinePace,
		recoveryTarget:   DefaultRecoveryTarget,
		neutralReadiness: DefaultNeutralReadiness,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the sub-scores and their blend for the given pair.
func (s *RuleScorer) Score(p model.FitnessProfile, e model.EventProfile) model.CompatibilityScore {
	endurance := s.EnduranceMatch(p, e)
	speed := s.SpeedScore(p)
	recovery := s.Recovery(p)

	combined := s.enduranceWeight*endurance*e.EnduranceWeight +
		s.speedWeight*speed*e.SpeedWeight +
		s.recoveryWeight*recovery

	return model.CompatibilityScore{
		EventID:        e.EventID,
		EventName:      e.Name,
		Combined:       combined,
		EnduranceMatch: endurance,
		SpeedScore:     speed,
		Recovery:       recovery,
		Strategy:       model.StrategyRule,
	}
}

// EnduranceMatch is weekly volume relative to what the event expects, capped at 1.
func (s *RuleScorer) EnduranceMatch(p model.FitnessProfile, e model.EventProfile) float64 {
	if e.ExpectedWeeklyKm <= 0 || p.WeeklyKm <= 0 {
		return 0
	}
	return math.Min(1, p.WeeklyKm/e.ExpectedWeeklyKm)
}

// SpeedScore is zero when pace is unknown.
func (s *RuleScorer) SpeedScore(p model.FitnessProfile) float64 {
	if p.AvgPaceMinPerKm == nil {
		return 0
	}
	return math.Max(0, 1-*p.AvgPaceMinPerKm/s.baselinePace)
}

// Recovery applies the neutral readiness when none was measured.
func (s *RuleScorer) Recovery(p model.FitnessProfile) float64 {
	readiness := s.neutralReadiness
	if p.AvgReadiness != nil {
		readiness = *p.AvgReadiness
	}
	return math.Min(1, math.Max(0, readiness)/s.recoveryTarget)
}
