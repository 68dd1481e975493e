package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/simumatch/internal/domain/embedding"
	. "github.com/smartystreets/goconvey/convey"
)

func mustTable(labels []string, vectors [][]float32) *embedding.Table {
	t, err := embedding.NewTable(labels, vectors)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewTable(t *testing.T) {
	Convey("Given labels and vectors of different lengths", t, func() {
		_, err := embedding.NewTable([]string{"a", "b"}, [][]float32{{1}})

		Convey("Then the table is rejected as misaligned", func() {
			So(errors.Is(err, embedding.ErrMisaligned), ShouldBeTrue)
		})
	})

	Convey("Given vectors of different widths", t, func() {
		_, err := embedding.NewTable([]string{"a", "b"}, [][]float32{{1, 2}, {1}})

		Convey("Then the table is rejected", func() {
			So(errors.Is(err, embedding.ErrDimensionMismatch), ShouldBeTrue)
		})
	})

	Convey("Given an empty table", t, func() {
		_, err := embedding.NewTable(nil, nil)

		Convey("Then it is rejected", func() {
			So(errors.Is(err, embedding.ErrMisaligned), ShouldBeTrue)
		})
	})

	Convey("Given a valid table", t, func() {
		src := [][]float32{{1, 2}, {3, 4}}
		tbl := mustTable([]string{"a", "b"}, src)
		src[0][0] = 99

		Convey("Then it owns copies of its vectors", func() {
			So(tbl.Vectors[0][0], ShouldEqual, float32(1))
			So(tbl.Len(), ShouldEqual, 2)
			So(tbl.Dim(), ShouldEqual, 2)
		})
	})
}

func TestTableDedupe(t *testing.T) {
	Convey("Given a table with repeated labels", t, func() {
		tbl := mustTable(
			[]string{"5K Fun Run", "Marathon", " 5k fun  run", "Half"},
			[][]float32{{1, 0}, {0, 1}, {9, 9}, {1, 1}},
		)

		Convey("When deduplicating", func() {
			out := tbl.Dedupe(context.Background())

			Convey("Then the first row of each label survives with its own vector", func() {
				So(out.Labels, ShouldResemble, []string{"5K Fun Run", "Marathon", "Half"})
				So(out.Vectors, ShouldResemble, [][]float32{{1, 0}, {0, 1}, {1, 1}})
				So(len(out.Labels), ShouldEqual, len(out.Vectors))
			})
		})
	})
}

func TestResolveAthlete(t *testing.T) {
	Convey("Given an athlete table", t, func() {
		tbl := mustTable(
			[]string{"Mary Jane Doe", "Jane Doe", "Ann Smith", "Bob Jones", "Carl Smith Jones"},
			[][]float32{{1}, {2}, {3}, {4}, {5}},
		)

		Convey("Then an exact name wins over an earlier substring candidate", func() {
			idx, err := embedding.ResolveAthlete("  jane DOE ", tbl)
			So(err, ShouldBeNil)
			So(idx, ShouldEqual, 1)
		})

		Convey("Then a substring resolves to the first containing row", func() {
			idx, err := embedding.ResolveAthlete("doe", tbl)
			So(err, ShouldBeNil)
			So(idx, ShouldEqual, 0)
		})

		Convey("Then token overlap prefers the row matching the most tokens", func() {
			idx, err := embedding.ResolveAthlete("jones smith", tbl)
			So(err, ShouldBeNil)
			So(idx, ShouldEqual, 4)
		})

		Convey("Then token overlap ties go to the lowest row", func() {
			idx, err := embedding.ResolveAthlete("smith zzz", tbl)
			So(err, ShouldBeNil)
			So(idx, ShouldEqual, 2)
		})

		Convey("Then an unknown name is not found", func() {
			_, err := embedding.ResolveAthlete("zzz qqq", tbl)
			So(err, ShouldEqual, embedding.ErrNotFound)
		})

		Convey("Then an empty query is not found", func() {
			_, err := embedding.ResolveAthlete("   ", tbl)
			So(err, ShouldEqual, embedding.ErrNotFound)
		})
	})
}

func TestNearestEvents(t *testing.T) {
	Convey("Given an athlete vector and event vectors", t, func() {
		athlete := []float32{1, 0}
		events := [][]float32{{0, 1}, {1, 0}, {1, 1}, {2, 0}}

		Convey("When asking for the top three", func() {
			got, err := embedding.NearestEvents(athlete, events, 3)

			Convey("Then similarity descends and ties keep index order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 3)
				So(got[0].Index, ShouldEqual, 1)
				So(got[1].Index, ShouldEqual, 3)
				So(got[2].Index, ShouldEqual, 2)
				So(got[0].Similarity, ShouldAlmostEqual, 1.0, 1e-9)
				So(got[2].Similarity, ShouldAlmostEqual, 0.70710678, 1e-6)
			})
		})

		Convey("When top_k exceeds the catalog", func() {
			got, err := embedding.NearestEvents(athlete, events, 10)

			Convey("Then every event is returned", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 4)
			})
		})

		Convey("When a vector has zero norm", func() {
			got, err := embedding.NearestEvents([]float32{0, 0}, events, 1)

			Convey("Then its similarity is zero", func() {
				So(err, ShouldBeNil)
				So(got[0].Similarity, ShouldEqual, 0.0)
				So(got[0].Index, ShouldEqual, 0)
			})
		})

		Convey("When widths differ", func() {
			_, err := embedding.NearestEvents([]float32{1, 0, 0}, events, 2)

			Convey("Then it fails with a dimension mismatch", func() {
				So(errors.Is(err, embedding.ErrDimensionMismatch), ShouldBeTrue)
			})
		})

		Convey("When top_k is not positive", func() {
			_, err := embedding.NearestEvents(athlete, events, 0)

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, embedding.ErrInvalidTopK)
			})
		})
	})
}

func TestMatcherSimilar(t *testing.T) {
	Convey("Given athlete and event tables", t, func() {
		athletes := mustTable([]string{"Jane Doe", "John Roe"}, [][]float32{{1, 0}, {0, 1}})
		events := mustTable([]string{"Trail 50K", "City 5K", "Track Mile"}, [][]float32{{0, 1}, {1, 0}, {1, 1}})
		m, err := embedding.NewMatcher(athletes, events)
		So(err, ShouldBeNil)

		Convey("When matching by name", func() {
			got, err := m.Similar("jane", 2)

			Convey("Then the nearest events carry their labels", func() {
				So(err, ShouldBeNil)
				So(got.Athlete, ShouldEqual, "Jane Doe")
				So(got.Events, ShouldHaveLength, 2)
				So(got.Events[0].Label, ShouldEqual, "City 5K")
				So(got.Events[1].Label, ShouldEqual, "Track Mile")
			})
		})

		Convey("When the name is unknown", func() {
			_, err := m.Similar("nobody", 2)

			Convey("Then it is not found", func() {
				So(errors.Is(err, embedding.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given tables of different widths", t, func() {
		athletes := mustTable([]string{"a"}, [][]float32{{1, 0}})
		events := mustTable([]string{"e"}, [][]float32{{1, 0, 0}})

		Convey("Then the matcher is refused", func() {
			_, err := embedding.NewMatcher(athletes, events)
			So(errors.Is(err, embedding.ErrDimensionMismatch), ShouldBeTrue)
		})
	})
}
