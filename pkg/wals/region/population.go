package region

import (
	"iter"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/geo"
)

// Population answers membership questions about the languages of a dataset.
// Provinces are computed on demand through the classifier; wrap it in a
// geo.CachedClassifier to avoid reclassifying.
type Population struct {
	ds         *dataset.Dataset
	classifier geo.Classifier
}

// NewPopulation binds a dataset to a classifier.
func NewPopulation(ds *dataset.Dataset, classifier geo.Classifier) *Population {
	return &Population{ds: ds, classifier: classifier}
}

// Dataset returns the underlying dataset.
func (p *Population) Dataset() *dataset.Dataset { return p.ds }

// ProvinceOf classifies a language by its coordinates.
func (p *Population) ProvinceOf(l *dataset.Language) geo.Province {
	return p.classifier.Classify(l.Latitude, l.Longitude)
}

// Contains reports whether language l lies in region r.
func (p *Population) Contains(r *Region, l *dataset.Language) bool {
	return r.Contains(p.ProvinceOf(l))
}

// Languages yields the region's languages in load order. The sequence is
// recomputed on every iteration.
func (p *Population) Languages(r *Region) iter.Seq[*dataset.Language] {
	return func(yield func(*dataset.Language) bool) {
		for _, l := range p.ds.Languages() {
			if !p.Contains(r, l) {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

// Collect returns the region's languages as a slice.
func (p *Population) Collect(r *Region) []*dataset.Language {
	var out []*dataset.Language
	for l := range p.Languages(r) {
		out = append(out, l)
	}
	return out
}

// Count returns the number of languages in the region.
func (p *Population) Count(r *Region) int {
	n := 0
	for range p.Languages(r) {
		n++
	}
	return n
}
