package typicality

import (
	"math"
	"testing"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/dataset/datasettest"
	"github.com/cognicore/wals/pkg/wals/geo"
	"github.com/cognicore/wals/pkg/wals/region"
	"github.com/cognicore/wals/pkg/wals/stats"
)

// Three European languages and one African outlier.
//
//	1A: x=10, y=10, z=11      -> 10 is typical (2 of 3)
//	2A: x=20, y=21, z=22      -> three-way split, no majority
//	3A: x=30, y=30, z=30      -> 30 is typical (3 of 3)
//	4A: x=40, y=41            -> 1-1 split, no majority
//	5A: only the outlier      -> empty sample in Europe
func fixture() (*Engine, *region.Registry, *dataset.Dataset) {
	ds := datasettest.Build(datasettest.Sheet{
		Languages: []datasettest.Lang{
			{ID: "x", Lat: 48, Lon: 2},
			{ID: "y", Lat: 52, Lon: 13},
			{ID: "z", Lat: 40, Lon: -3},
			{ID: "out", Lat: 8, Lon: 4},
		},
		Answers: map[string]map[string]int{
			"x":   {"1A": 10, "2A": 20, "3A": 30, "4A": 40},
			"y":   {"1A": 10, "2A": 21, "3A": 30, "4A": 41},
			"z":   {"1A": 11, "2A": 22, "3A": 30},
			"out": {"1A": 11, "2A": 22, "3A": 31, "5A": 50},
		},
	})
	pop := region.NewPopulation(ds, geo.TreeClassifier{})
	return NewEngine(pop), region.Builtin(), ds
}

func europe(t *testing.T, reg *region.Registry) *region.Region {
	t.Helper()
	r, ok := reg.FromID("EUROPE")
	if !ok {
		t.Fatal("EUROPE missing")
	}
	return r
}

func TestTypicalProfileMajorities(t *testing.T) {
	e, reg, _ := fixture()
	p := e.TypicalProfile(europe(t, reg))

	if len(p.Entries) != 5 {
		t.Fatalf("expected an entry per parameter, got %d", len(p.Entries))
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 typical parameters, got %d", p.Len())
	}

	one, ok := p.Typical("1A")
	if !ok {
		t.Fatal("1A should have a majority (2 of 3)")
	}
	if one.ElementPK != 10 || one.Count != 2 || one.SampleSize != 3 {
		t.Errorf("1A = %+v", one)
	}
	if one.Element == nil || one.Element.PK != 10 {
		t.Errorf("1A element not resolved: %v", one.Element)
	}

	three, ok := p.Typical("3A")
	if !ok || three.ElementPK != 30 || three.Count != 3 {
		t.Errorf("3A = %+v, %v", three, ok)
	}

	if _, ok := p.Typical("2A"); ok {
		t.Error("2A is a three-way split and must have no majority")
	}
	if _, ok := p.Typical("4A"); ok {
		t.Error("4A is a 1-1 split and must have no majority")
	}
	if _, ok := p.Typical("5A"); ok {
		t.Error("5A has no European sample")
	}
}

func TestTypicalProfileOrderAndSamples(t *testing.T) {
	e, reg, _ := fixture()
	p := e.TypicalProfile(europe(t, reg))

	want := []struct {
		id     string
		sample int
	}{{"1A", 3}, {"2A", 3}, {"3A", 3}, {"4A", 2}, {"5A", 0}}
	for i, w := range want {
		got := p.Entries[i]
		if got.Parameter.ID != w.id || got.SampleSize != w.sample {
			t.Errorf("entry %d = %s (%d), want %s (%d)", i, got.Parameter.ID, got.SampleSize, w.id, w.sample)
		}
	}

	maj := p.Majorities()
	if len(maj) != 2 || maj[0].Parameter.ID != "1A" || maj[1].Parameter.ID != "3A" {
		t.Errorf("Majorities() = %v", maj)
	}
}

func TestProfileIsRegionScoped(t *testing.T) {
	e, reg, _ := fixture()
	earth, _ := reg.FromID(region.Earth)
	p := e.TypicalProfile(earth)

	// 1A worldwide: 10,10,11,11 -> no strict majority.
	if _, ok := p.Typical("1A"); ok {
		t.Error("1A is 2-2 on EARTH")
	}
	// 3A worldwide: 30,30,30,31 -> 30.
	if e3, ok := p.Typical("3A"); !ok || e3.Count != 3 || e3.SampleSize != 4 {
		t.Errorf("3A on EARTH = %+v, %v", e3, ok)
	}
	// 5A worldwide: single answer is a majority of one.
	if e5, ok := p.Typical("5A"); !ok || e5.ElementPK != 50 {
		t.Errorf("5A on EARTH = %+v, %v", e5, ok)
	}
}

func TestMajorityAtMostOne(t *testing.T) {
	cases := []struct {
		counts map[int]int
		sample int
		pk     int
		ok     bool
	}{
		{map[int]int{1: 2, 2: 1}, 3, 1, true},
		{map[int]int{1: 1, 2: 1, 3: 1}, 3, 0, false},
		{map[int]int{5: 2, 9: 2}, 4, 0, false},
		{map[int]int{9: 3, 5: 1}, 4, 9, true},
		{map[int]int{}, 0, 0, false},
	}
	for _, c := range cases {
		pk, _, ok := majority(c.counts, c.sample)
		if ok != c.ok || pk != c.pk {
			t.Errorf("majority(%v, %d) = %d, %v; want %d, %v", c.counts, c.sample, pk, ok, c.pk, c.ok)
		}
	}
}

func TestScore(t *testing.T) {
	e, reg, ds := fixture()
	p := e.TypicalProfile(europe(t, reg))

	x, _ := ds.Language("x")
	s := e.Score(x, p)
	if s.Matches != 2 || s.Total != 2 {
		t.Errorf("x = %d/%d, want 2/2", s.Matches, s.Total)
	}
	if math.Abs(s.Percent-100*stats.Wilson(2, 2)) > 1e-12 {
		t.Errorf("x percent = %f", s.Percent)
	}

	z, _ := ds.Language("z")
	s = e.Score(z, p)
	if s.Matches != 1 || s.Total != 2 {
		t.Errorf("z = %d/%d, want 1/2", s.Matches, s.Total)
	}

	// Languages outside the region can still be scored against it.
	out, _ := ds.Language("out")
	s = e.Score(out, p)
	if s.Matches != 0 || s.Total != 2 || s.Percent != 0 {
		t.Errorf("out = %+v", s)
	}
}

func TestScoreWithoutOverlap(t *testing.T) {
	ds := datasettest.Build(datasettest.Sheet{
		Languages: []datasettest.Lang{{ID: "a", Lat: 50, Lon: 10}, {ID: "b", Lat: 50, Lon: 11}},
		Answers:   map[string]map[string]int{"a": {"1A": 1}},
	})
	e := NewEngine(region.NewPopulation(ds, geo.TreeClassifier{}))
	r, _ := region.Builtin().FromID("EUROPE")
	p := e.TypicalProfile(r)

	b, _ := ds.Language("b")
	s := e.Score(b, p)
	if s.Total != 0 || s.Percent != 0 {
		t.Errorf("b = %+v, want zero", s)
	}
}

func TestScoreRegionSorted(t *testing.T) {
	e, reg, _ := fixture()
	p := e.TypicalProfile(europe(t, reg))
	scores := e.ScoreRegion(p)

	if len(scores) != 3 {
		t.Fatalf("expected 3 European languages, got %d", len(scores))
	}
	// x and y match both typical answers; z matches one.
	if scores[0].Language.ID != "x" || scores[1].Language.ID != "y" || scores[2].Language.ID != "z" {
		t.Errorf("order = %s %s %s", scores[0].Language.ID, scores[1].Language.ID, scores[2].Language.ID)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i-1].Percent < scores[i].Percent {
			t.Errorf("not sorted at %d", i)
		}
	}
}
