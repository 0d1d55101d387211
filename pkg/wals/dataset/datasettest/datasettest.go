// Package datasettest builds small synthetic datasets for engine tests.
package datasettest

import (
	"fmt"
	"sort"

	"github.com/cognicore/wals/pkg/wals/dataset"
)

// Lang describes a synthetic language.
type Lang struct {
	ID       string
	Name     string
	Lat, Lon float64
}

// Sheet lists languages and their answers: language id -> parameter id -> domain element pk.
type Sheet struct {
	Languages []Lang
	Answers   map[string]map[string]int
}

// Build turns a sheet into an indexed dataset. Parameters and domain elements
// are synthesized from the answers; values are added in language order, then
// parameter order, so the result is deterministic.
func Build(s Sheet) *dataset.Dataset {
	b := dataset.NewBuilder()

	for i, l := range s.Languages {
		name := l.Name
		if name == "" {
			name = l.ID
		}
		mustAdd(b.AddLanguage(dataset.Language{
			Record:    dataset.Record{PK: i + 1, ID: l.ID, Name: name},
			Latitude:  l.Lat,
			Longitude: l.Lon,
		}))
	}

	paramSet := make(map[string]struct{})
	elementParam := make(map[int]string)
	for _, answers := range s.Answers {
		for param, elem := range answers {
			paramSet[param] = struct{}{}
			if _, ok := elementParam[elem]; !ok {
				elementParam[elem] = param
			}
		}
	}
	params := make([]string, 0, len(paramSet))
	for p := range paramSet {
		params = append(params, p)
	}
	sort.Strings(params)

	paramPK := make(map[string]int, len(params))
	for i, p := range params {
		paramPK[p] = i + 1
		mustAdd(b.AddParameter(dataset.Parameter{
			Record: dataset.Record{PK: i + 1, ID: p, Name: "Feature " + p},
		}))
	}

	elems := make([]int, 0, len(elementParam))
	for e := range elementParam {
		elems = append(elems, e)
	}
	sort.Ints(elems)
	for i, e := range elems {
		mustAdd(b.AddDomainElement(dataset.DomainElement{
			Record:      dataset.Record{PK: e, ID: fmt.Sprintf("%s-%d", elementParam[e], i+1), Name: fmt.Sprintf("element %d", e)},
			ParameterPK: paramPK[elementParam[e]],
			Number:      i + 1,
		}))
	}

	pk := 1
	for _, l := range s.Languages {
		answers := s.Answers[l.ID]
		keys := make([]string, 0, len(answers))
		for p := range answers {
			keys = append(keys, p)
		}
		sort.Strings(keys)
		for _, p := range keys {
			mustAdd(b.AddValue(dataset.Value{
				Record:          dataset.Record{PK: pk, ID: p + "-" + l.ID},
				ValueSetPK:      pk,
				DomainElementPK: answers[p],
			}))
			pk++
		}
	}

	return b.Build()
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
