// Package snapshot stores a decoded dataset as a single msgpack file so later
// runs can skip CSV parsing.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// Schema is bumped whenever the payload layout changes; older files are rejected.
const Schema uint16 = 1

type payload struct {
	Schema    uint16    `msgpack:"schema"`
	CreatedAt time.Time `msgpack:"created_at"`

	Parameters     []record        `msgpack:"parameters"`
	Languages      []language      `msgpack:"languages"`
	Values         []value         `msgpack:"values"`
	DomainElements []domainElement `msgpack:"domain_elements"`
}

type record struct {
	PK                int    `msgpack:"pk"`
	JSONData          string `msgpack:"jsondata"`
	ID                string `msgpack:"id"`
	Name              string `msgpack:"name"`
	Description       string `msgpack:"description"`
	MarkupDescription string `msgpack:"markup"`
	Version           uint8  `msgpack:"version"`
}

type language struct {
	Record    record  `msgpack:"record"`
	Latitude  float64 `msgpack:"lat"`
	Longitude float64 `msgpack:"lon"`
}

type value struct {
	Record          record `msgpack:"record"`
	ValueSetPK      int    `msgpack:"valueset_pk"`
	DomainElementPK int    `msgpack:"domainelement_pk"`
	Frequency       string `msgpack:"frequency"`
	Confidence      string `msgpack:"confidence"`
}

type domainElement struct {
	Record      record `msgpack:"record"`
	ParameterPK int    `msgpack:"parameter_pk"`
	Number      int    `msgpack:"number"`
	Abbr        string `msgpack:"abbr"`
}

// Write encodes ds to w.
func Write(w io.Writer, ds *dataset.Dataset) error {
	p := payload{Schema: Schema, CreatedAt: time.Now().UTC()}
	for _, x := range ds.Parameters() {
		p.Parameters = append(p.Parameters, toRecord(x.Record))
	}
	for _, x := range ds.Languages() {
		p.Languages = append(p.Languages, language{toRecord(x.Record), x.Latitude, x.Longitude})
	}
	for _, x := range ds.Values() {
		p.Values = append(p.Values, value{toRecord(x.Record), x.ValueSetPK, x.DomainElementPK, x.Frequency, x.Confidence})
	}
	for _, x := range ds.DomainElements() {
		p.DomainElements = append(p.DomainElements, domainElement{toRecord(x.Record), x.ParameterPK, x.Number, x.Abbr})
	}
	return msgpack.NewEncoder(w).Encode(&p)
}

// Read decodes a dataset written by Write and rebuilds its indices.
func Read(r io.Reader) (*dataset.Dataset, error) {
	var p payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w: %v", internalerr.ErrInvalidInput, err)
	}
	if p.Schema != Schema {
		return nil, fmt.Errorf("snapshot schema %d, want %d: %w", p.Schema, Schema, internalerr.ErrInvalidInput)
	}

	b := dataset.NewBuilder()
	for _, x := range p.Parameters {
		if err := b.AddParameter(dataset.Parameter{Record: fromRecord(x)}); err != nil {
			return nil, err
		}
	}
	for _, x := range p.Languages {
		if err := b.AddLanguage(dataset.Language{Record: fromRecord(x.Record), Latitude: x.Latitude, Longitude: x.Longitude}); err != nil {
			return nil, err
		}
	}
	for _, x := range p.Values {
		v := dataset.Value{
			Record:          fromRecord(x.Record),
			ValueSetPK:      x.ValueSetPK,
			DomainElementPK: x.DomainElementPK,
			Frequency:       x.Frequency,
			Confidence:      x.Confidence,
		}
		if err := b.AddValue(v); err != nil {
			return nil, err
		}
	}
	for _, x := range p.DomainElements {
		e := dataset.DomainElement{
			Record:      fromRecord(x.Record),
			ParameterPK: x.ParameterPK,
			Number:      x.Number,
			Abbr:        x.Abbr,
		}
		if err := b.AddDomainElement(e); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Save writes ds to path atomically.
func Save(path string, ds *dataset.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	if err := Write(w, ds); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a snapshot file. A missing file wraps internalerr.ErrMissingAsset.
func Load(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("snapshot %s: %w", path, internalerr.ErrMissingAsset)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

func toRecord(r dataset.Record) record {
	return record{r.PK, r.JSONData, r.ID, r.Name, r.Description, r.MarkupDescription, r.Version}
}

func fromRecord(r record) dataset.Record {
	return dataset.Record{
		PK:                r.PK,
		JSONData:          r.JSONData,
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		MarkupDescription: r.MarkupDescription,
		Version:           r.Version,
	}
}
