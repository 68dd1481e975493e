package learned

import (
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"
)

// Artifact is the persisted form of a LinearModel.
type Artifact struct {
	Schema       Schema    `json:"schema"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LinearModel standardizes numeric columns, passes one-hot columns through
// unchanged and applies a linear layer.
type LinearModel struct {
	schema    Schema
	mean      []float64
	scale     []float64
	coef      []float64
	intercept float64
}

var _ Regressor = (*LinearModel)(nil)

// NewLinearModel validates an artifact and builds the model from it.
// Mean and Scale carry one entry per numeric feature; Coefficients carry one
// entry per encoded column.
func NewLinearModel(a Artifact) (*LinearModel, error) {
	if len(a.Schema.Features) == 0 {
		return nil, fmt.Errorf("%w: empty schema", ErrInvalidArtifact)
	}
	numeric := a.Schema.NumericCount()
	if len(a.Mean) != numeric || len(a.Scale) != numeric {
		return nil, fmt.Errorf("%w: scaler has %d/%d entries, schema has %d numeric features",
			ErrInvalidArtifact, len(a.Mean), len(a.Scale), numeric)
	}
	if width := a.Schema.Width(); len(a.Coefficients) != width {
		return nil, fmt.Errorf("%w: %d coefficients for %d columns", ErrInvalidArtifact, len(a.Coefficients), width)
	}
	for _, v := range append(append(append([]float64{}, a.Mean...), a.Scale...), a.Coefficients...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite parameter", ErrInvalidArtifact)
		}
	}

	m := &LinearModel{
		schema:    a.Schema,
		mean:      append([]float64(nil), a.Mean...),
		scale:     make([]float64, numeric),
		coef:      append([]float64(nil), a.Coefficients...),
		intercept: a.Intercept,
	}
	// A zero scale means a constant training column; leave it unscaled.
	for i, s := range a.Scale {
		if s == 0 {
			s = 1
		}
		m.scale[i] = s
	}
	return m, nil
}

// LoadArtifact decodes a JSON artifact and builds the model from it.
func LoadArtifact(r io.Reader) (*LinearModel, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return NewLinearModel(a)
}

// Schema returns the schema the model was trained with.
func (m *LinearModel) Schema() Schema { return m.schema }

// Predict applies the model to each row.
func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	width := len(m.coef)
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrFeatureSchemaMismatch, i, len(row), width)
		}
		y := m.intercept
		col, num := 0, 0
		for _, f := range m.schema.Features {
			if f.Kind == KindNumeric {
				y += m.coef[col] * (row[col] - m.mean[num]) / m.scale[num]
				col++
				num++
				continue
			}
			for range f.Categories {
				y += m.coef[col] * row[col]
				col++
			}
		}
		out[i] = y
	}
	return out, nil
}
