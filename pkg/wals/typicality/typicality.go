package typicality

import (
	"sort"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/region"
	"github.com/cognicore/wals/pkg/wals/stats"
)

// Entry is the tally of one parameter within a region.
type Entry struct {
	Parameter   *dataset.Parameter
	HasMajority bool
	ElementPK   int                    // majority domain element, valid when HasMajority
	Element     *dataset.DomainElement // nil when the pk is not in the dataset
	Count       int                    // regional values choosing ElementPK
	SampleSize  int                    // regional values recorded for the parameter
}

// Profile is a region's typical answer per parameter.
type Profile struct {
	Region  *region.Region
	Entries []Entry // every parameter, in parameter order

	typical map[string]int // parameter id -> index into Entries
}

// Typical returns the majority entry for a parameter.
func (p *Profile) Typical(parameterID string) (Entry, bool) {
	i, ok := p.typical[parameterID]
	if !ok {
		return Entry{}, false
	}
	return p.Entries[i], true
}

// Majorities returns only the entries that have a majority answer.
func (p *Profile) Majorities() []Entry {
	out := make([]Entry, 0, len(p.typical))
	for _, e := range p.Entries {
		if e.HasMajority {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of parameters with a majority answer.
func (p *Profile) Len() int { return len(p.typical) }

// Engine derives regional profiles and scores languages against them.
type Engine struct {
	pop *region.Population
}

// NewEngine creates an engine over a population.
func NewEngine(pop *region.Population) *Engine {
	return &Engine{pop: pop}
}

// TypicalProfile tallies, for each parameter in order, the domain elements
// chosen by the values of the region's languages. An element is typical when
// it accounts for strictly more than half of the parameter's regional values;
// parameters without such an element have no typical answer.
func (e *Engine) TypicalProfile(r *region.Region) *Profile {
	ds := e.pop.Dataset()

	members := make(map[string]struct{})
	for l := range e.pop.Languages(r) {
		members[l.ID] = struct{}{}
	}

	p := &Profile{Region: r, typical: make(map[string]int)}
	counts := make(map[int]int)
	for _, param := range ds.OrderedParameters() {
		clear(counts)
		sample := 0
		for _, v := range ds.ValuesFor(param.ID) {
			if _, ok := members[v.LanguageID()]; !ok {
				continue
			}
			sample++
			counts[v.DomainElementPK]++
		}

		entry := Entry{Parameter: param, SampleSize: sample}
		if pk, n, ok := majority(counts, sample); ok {
			entry.HasMajority = true
			entry.ElementPK = pk
			entry.Count = n
			entry.Element, _ = ds.DomainElement(pk)
			p.typical[param.ID] = len(p.Entries)
		}
		p.Entries = append(p.Entries, entry)
	}
	return p
}

// majority scans candidates in ascending pk order and returns the first one
// whose count exceeds half the sample. At most one can.
func majority(counts map[int]int, sample int) (pk, count int, ok bool) {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if 2*counts[k] > sample {
			return k, counts[k], true
		}
	}
	return 0, 0, false
}

// Score is a language's conformity to a regional profile.
type Score struct {
	Language *dataset.Language
	Matches  int     // typical parameters answered with the typical element
	Total    int     // typical parameters the language answers at all
	Percent  float64 // 100 · Wilson(Matches, Total), full precision
}

// Score rates how typical language l is of the profile.
func (e *Engine) Score(l *dataset.Language, p *Profile) Score {
	answers := e.pop.Dataset().Answers(l.ID)
	s := Score{Language: l}
	for paramID, i := range p.typical {
		v, ok := answers[paramID]
		if !ok {
			continue
		}
		s.Total++
		if v.DomainElementPK == p.Entries[i].ElementPK {
			s.Matches++
		}
	}
	s.Percent = 100 * stats.Wilson(s.Matches, s.Total)
	return s
}

// ScoreRegion scores every language of the profile's region and sorts them
// by descending Percent; ties keep load order.
func (e *Engine) ScoreRegion(p *Profile) []Score {
	var out []Score
	for l := range e.pop.Languages(p.Region) {
		out = append(out, e.Score(l, p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	return out
}
