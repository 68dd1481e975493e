package model

import (
	"fmt"
	"strings"
)

// Strategy selects which scorer ranks the catalog.
type Strategy string

const (
	StrategyRule    Strategy = "rule"
	StrategyLearned Strategy = "learned"
)

// ParseStrategy maps a case-insensitive name to a Strategy. Empty means rule.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRule:
		return StrategyRule, nil
	case StrategyLearned:
		return StrategyLearned, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// CompatibilityScore is the fit between one athlete profile and one event.
// Combined is in [0,1] for the rule strategy and an unbounded regression
// output for the learned strategy; the sub-scores always come from the rule
// model so every result stays explainable.
type CompatibilityScore struct {
	EventID        string   `json:"event_id"`
	EventName      string   `json:"event_name,omitempty"`
	Combined       float64  `json:"combined"`
	EnduranceMatch float64  `json:"endurance_match"`
	SpeedScore     float64  `json:"speed_score"`
	Recovery       float64  `json:"recovery"`
	Strategy       Strategy `json:"strategy"`
}
