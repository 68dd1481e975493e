package embedding

import "fmt"

// Matcher pairs an athlete table with an event table of the same width.
type Matcher struct {
	Athletes *Table
	Events   *Table
}

// NewMatcher checks that both tables share a vector width.
func NewMatcher(athletes, events *Table) (*Matcher, error) {
	if athletes == nil || events == nil {
		return nil, fmt.Errorf("%w: missing table", ErrMisaligned)
	}
	if athletes.Dim() != events.Dim() {
		return nil, fmt.Errorf("%w: athletes %d, events %d", ErrDimensionMismatch, athletes.Dim(), events.Dim())
	}
	return &Matcher{Athletes: athletes, Events: events}, nil
}

// Match is the result of Similar: the resolved athlete and its nearest events.
type Match struct {
	Athlete string     `json:"athlete"`
	Events  []Neighbor `json:"events"`
}

// Similar resolves query to an athlete and returns its topK nearest events
// with their labels.
func (m *Matcher) Similar(query string, topK int) (Match, error) {
	idx, err := ResolveAthlete(query, m.Athletes)
	if err != nil {
		return Match{}, fmt.Errorf("resolve %q: %w", query, err)
	}
	neighbors, err := NearestEvents(m.Athletes.Vectors[idx], m.Events.Vectors, topK)
	if err != nil {
		return Match{}, err
	}
	for i := range neighbors {
		neighbors[i].Label = m.Events.Labels[neighbors[i].Index]
	}
	return Match{Athlete: m.Athletes.Labels[idx], Events: neighbors}, nil
}
