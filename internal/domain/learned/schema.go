// Package learned scores athlete/event pairs with a trained regression model.
//
// Training and serving share one versioned Schema; a model whose schema is
// not equal to the serving schema is refused before any row is built.
package learned

import "slices"

// Kind is the encoding of a feature column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Feature names understood by BuildRows.
const (
	FeatureAge            = "age"
	FeatureAvgRunPace     = "avg_run_pace"
	FeatureVDOT           = "vdot_est"
	FeatureNumEvents      = "num_events"
	FeatureDistanceKm     = "distance_km"
	FeatureTargetPace     = "target_pace"
	FeatureDiffPace       = "diff_pace"
	FeatureElevationGainM = "elevation_gain_m"
	FeatureGender         = "gender"
)

// SchemaV1 is the version tag of DefaultSchema.
const SchemaV1 = "v1"

// Feature is one named column. Categorical features expand into one column
// per category, in the declared order.
type Feature struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	Categories []string `json:"categories,omitempty"`
}

// Schema is an ordered, versioned feature list.
type Schema struct {
	Version  string    `json:"version"`
	Features []Feature `json:"features"`
}

// DefaultSchema returns the serving schema.
func DefaultSchema() Schema {
	return Schema{
		Version: SchemaV1,
		Features: []Feature{
			{Name: FeatureAge, Kind: KindNumeric},
			{Name: FeatureAvgRunPace, Kind: KindNumeric},
			{Name: FeatureVDOT, Kind: KindNumeric},
			{Name: FeatureNumEvents, Kind: KindNumeric},
			{Name: FeatureDistanceKm, Kind: KindNumeric},
			{Name: FeatureTargetPace, Kind: KindNumeric},
			{Name: FeatureDiffPace, Kind: KindNumeric},
			{Name: FeatureElevationGainM, Kind: KindNumeric},
			{Name: FeatureGender, Kind: KindCategorical, Categories: []string{"F", "M"}},
		},
	}
}

// Equal reports whether both schemas have the same version and the same
// ordered features.
func (s Schema) Equal(o Schema) bool {
	if s.Version != o.Version || len(s.Features) != len(o.Features) {
		return false
	}
	for i, f := range s.Features {
		g := o.Features[i]
		if f.Name != g.Name || f.Kind != g.Kind || !slices.Equal(f.Categories, g.Categories) {
			return false
		}
	}
	return true
}

// Width is the number of encoded columns.
func (s Schema) Width() int {
	w := 0
	for _, f := range s.Features {
		w += f.width()
	}
	return w
}

// NumericCount is the number of numeric features.
func (s Schema) NumericCount() int {
	n := 0
	for _, f := range s.Features {
		if f.Kind == KindNumeric {
			n++
		}
	}
	return n
}

func (f Feature) width() int {
	if f.Kind == KindCategorical {
		return len(f.Categories)
	}
	return 1
}
