package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// DefaultDir is where the WALS exports are looked for when no directory is configured.
const DefaultDir = "../wals/raw"

// WarnFunc receives recoverable problems found while decoding. line is the
// 1-based line in the source file.
type WarnFunc func(table string, line int, err error)

// Paths names the four input files.
type Paths struct {
	Parameters     string
	Languages      string
	Values         string
	DomainElements string
}

// PathsIn returns the conventional file names inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Parameters:     filepath.Join(dir, TableParameter+".csv"),
		Languages:      filepath.Join(dir, TableLanguage+".csv"),
		Values:         filepath.Join(dir, TableValue+".csv"),
		DomainElements: filepath.Join(dir, TableDomainElement+".csv"),
	}
}

// Loader reads WALS exports into a dataset.
type Loader struct {
	Warn WarnFunc // optional
}

// LoadDir loads the four exports from dir.
func (l *Loader) LoadDir(dir string) (*dataset.Dataset, error) {
	return l.Load(PathsIn(dir))
}

// Load reads every table in the order parameters, languages, values,
// domain elements. Any missing file is fatal.
func (l *Loader) Load(p Paths) (*dataset.Dataset, error) {
	b := dataset.NewBuilder()
	steps := []struct {
		table string
		path  string
	}{
		{TableParameter, p.Parameters},
		{TableLanguage, p.Languages},
		{TableValue, p.Values},
		{TableDomainElement, p.DomainElements},
	}
	for _, s := range steps {
		if err := l.loadFile(b, s.table, s.path); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func (l *Loader) loadFile(b *dataset.Builder, table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s table: %w: %v", table, internalerr.ErrMissingAsset, err)
	}
	defer f.Close()
	return l.ReadTable(b, table, f)
}

// ReadTable decodes one table from r into b. The first line is a header
// and is skipped.
func (l *Loader) ReadTable(b *dataset.Builder, table string, r io.Reader) error {
	width, add, err := tableSpec(b, table)
	if err != nil {
		return err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return l.readRecords(table, width, add, cr)
}

// records is the part of *csv.Reader the table loop needs.
type records interface {
	Read() ([]string, error)
	FieldPos(field int) (line, column int)
}

func (l *Loader) readRecords(table string, width int, add func(*row) error, rr records) error {
	header := true
	for {
		cells, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.warn(table, perr.Line, err)
				header = false
				continue
			}
			return fmt.Errorf("read %s table: %w", table, err)
		}
		if header {
			header = false
			continue
		}
		line, _ := rr.FieldPos(0)

		rw := newRow(cells, width)
		err = add(rw)
		for _, w := range rw.warns {
			l.warn(table, line, w)
		}
		if err != nil {
			l.warn(table, line, fmt.Errorf("row skipped: %w", err))
		}
	}
}

func tableSpec(b *dataset.Builder, table string) (int, func(*row) error, error) {
	switch table {
	case TableParameter:
		return parameterWidth, func(r *row) error { return b.AddParameter(decodeParameter(r)) }, nil
	case TableLanguage:
		return languageWidth, func(r *row) error { return b.AddLanguage(decodeLanguage(r)) }, nil
	case TableValue:
		return valueWidth, func(r *row) error { return b.AddValue(decodeValue(r)) }, nil
	case TableDomainElement:
		return domainElementWidth, func(r *row) error { return b.AddDomainElement(decodeDomainElement(r)) }, nil
	}
	return 0, nil, fmt.Errorf("unknown table %q: %w", table, internalerr.ErrInvalidInput)
}

func (l *Loader) warn(table string, line int, err error) {
	if l.Warn != nil {
		l.Warn(table, line, err)
	}
}
