// Package ranking orders the event catalog for one athlete.
package ranking

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/simumatch/internal/domain/learned"
	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/internal/domain/scoring"
)

// Option applies a configuration option to a Context.
type Option func(*Context)

// WithCatalog sets the candidate events. The slice is copied.
func WithCatalog(events []model.EventProfile) Option {
	return func(c *Context) {
		c.catalog = slices.Clone(events)
	}
}

// WithScorer replaces the default rule scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(c *Context) {
		if s != nil {
			c.scorer = s
		}
	}
}

// WithModel enables the learned strategy.
func WithModel(m learned.Regressor) Option {
	return func(c *Context) {
		c.model = m
	}
}

// Context bundles everything a recommendation reads. It is built once and
// never mutated, so it can be shared by concurrent callers.
type Context struct {
	catalog []model.EventProfile
	scorer  scoring.Scorer
	model   learned.Regressor
}

// NewContext validates the catalog and freezes it in event id order.
func NewContext(opts ...Option) (*Context, error) {
	c := &Context{scorer: scoring.NewRuleScorer()}
	for _, opt := range opts {
		opt(c)
	}

	seen := make(map[string]struct{}, len(c.catalog))
	for _, e := range c.catalog {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[e.EventID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEvent, e.EventID)
		}
		seen[e.EventID] = struct{}{}
	}
	slices.SortFunc(c.catalog, func(a, b model.EventProfile) int {
		return strings.Compare(a.EventID, b.EventID)
	})
	return c, nil
}

// Catalog returns a copy of the events in id order.
func (c *Context) Catalog() []model.EventProfile {
	return slices.Clone(c.catalog)
}

// HasModel reports whether the learned strategy can be served.
func (c *Context) HasModel() bool { return c.model != nil }
