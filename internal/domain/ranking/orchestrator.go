package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/simumatch/internal/domain/learned"
	"github.com/okian/simumatch/internal/domain/model"
)

// Request asks for the best TopK events for one profile.
type Request struct {
	Profile  model.FitnessProfile
	Athlete  *model.Athlete // required by the learned strategy only
	TopK     int
	Strategy model.Strategy
}

// Orchestrator scores the catalog with the requested strategy and ranks it.
type Orchestrator struct {
	ctx *Context
}

// NewOrchestrator creates an orchestrator reading from c.
func NewOrchestrator(c *Context) *Orchestrator {
	return &Orchestrator{ctx: c}
}

// Context returns the bundle the orchestrator reads.
func (o *Orchestrator) Context() *Context { return o.ctx }

// Less orders scores by Combined descending, then EventID ascending.
func Less(a, b model.CompatibilityScore) bool {
	if a.Combined != b.Combined {
		return a.Combined > b.Combined
	}
	return a.EventID < b.EventID
}

// Recommend returns at most TopK scores ranked by Less. Every event appears
// at most once and the result does not depend on catalog order.
func (o *Orchestrator) Recommend(req Request) ([]model.CompatibilityScore, error) {
	if req.TopK <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, req.TopK)
	}

	var (
		scores []model.CompatibilityScore
		err    error
	)
	switch req.Strategy {
	case "", model.StrategyRule:
		scores = o.ruleScores(req.Profile)
	case model.StrategyLearned:
		scores, err = o.learnedScores(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(scores, func(i, j int) bool { return Less(scores[i], scores[j]) })
	if len(scores) > req.TopK {
		scores = scores[:req.TopK]
	}
	return scores, nil
}

func (o *Orchestrator) ruleScores(p model.FitnessProfile) []model.CompatibilityScore {
	out := make([]model.CompatibilityScore, 0, len(o.ctx.catalog))
	for _, e := range o.ctx.catalog {
		out = append(out, o.ctx.scorer.Score(p, e))
	}
	return out
}

// learnedScores keeps the rule sub-scores for explanation and replaces
// Combined with the model output.
func (o *Orchestrator) learnedScores(req Request) ([]model.CompatibilityScore, error) {
	if o.ctx.model == nil {
		return nil, ErrModelUnavailable
	}
	if req.Athlete == nil {
		return nil, ErrAthleteRequired
	}

	predicted, err := learned.ScoreBatch(*req.Athlete, o.ctx.catalog, o.ctx.model)
	if err != nil {
		return nil, err
	}
	out := o.ruleScores(req.Profile)
	for i := range out {
		out[i].Combined = predicted[i]
		out[i].Strategy = model.StrategyLearned
	}
	return out, nil
}
