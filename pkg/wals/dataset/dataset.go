package dataset

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// Dataset is the read-only, indexed view of a loaded WALS export.
// All indices are built once by Builder.Build and never change afterwards,
// so a Dataset may be shared freely between goroutines.
type Dataset struct {
	languages      []*Language
	parameters     []*Parameter
	domainElements []*DomainElement
	values         []*Value

	languageByPK      map[int]*Language
	languageByID      map[string]*Language
	languageByName    map[string]*Language
	parameterByPK     map[int]*Parameter
	parameterByID     map[string]*Parameter
	domainElementByPK map[int]*DomainElement
	valueByPK         map[int]*Value

	valuesByLanguage  map[string][]*Value
	valuesByParameter map[string][]*Value
	answers           map[string]map[string]*Value // language id -> parameter id -> first value
	elementsByParam   map[int][]*DomainElement
	orderedParams     []*Parameter
}

// Languages returns all languages in load order.
func (d *Dataset) Languages() []*Language { return d.languages }

// Parameters returns all parameters in load order.
func (d *Dataset) Parameters() []*Parameter { return d.parameters }

// DomainElements returns all domain elements in load order.
func (d *Dataset) DomainElements() []*DomainElement { return d.domainElements }

// Values returns all values in load order.
func (d *Dataset) Values() []*Value { return d.values }

// OrderedParameters returns the parameters sorted by Order, ties by identifier.
func (d *Dataset) OrderedParameters() []*Parameter { return d.orderedParams }

// Language looks up a language by its string identifier (e.g. "eng").
func (d *Dataset) Language(id string) (*Language, bool) {
	l, ok := d.languageByID[id]
	return l, ok
}

// LanguageByPK looks up a language by primary key.
func (d *Dataset) LanguageByPK(pk int) (*Language, bool) {
	l, ok := d.languageByPK[pk]
	return l, ok
}

// FindLanguage resolves a user-supplied query: an exact identifier first,
// then a case- and diacritic-insensitive match on the display name.
func (d *Dataset) FindLanguage(query string) (*Language, bool) {
	if l, ok := d.languageByID[query]; ok {
		return l, true
	}
	l, ok := d.languageByName[foldName(query)]
	return l, ok
}

// Parameter looks up a parameter by its string identifier (e.g. "81A").
func (d *Dataset) Parameter(id string) (*Parameter, bool) {
	p, ok := d.parameterByID[id]
	return p, ok
}

// ParameterByPK looks up a parameter by primary key.
func (d *Dataset) ParameterByPK(pk int) (*Parameter, bool) {
	p, ok := d.parameterByPK[pk]
	return p, ok
}

// DomainElement looks up a domain element by primary key.
func (d *Dataset) DomainElement(pk int) (*DomainElement, bool) {
	e, ok := d.domainElementByPK[pk]
	return e, ok
}

// ElementsOf returns the allowed answers of a parameter ordered by Number.
func (d *Dataset) ElementsOf(parameterPK int) []*DomainElement {
	return d.elementsByParam[parameterPK]
}

// Value looks up a value by primary key.
func (d *Dataset) Value(pk int) (*Value, bool) {
	v, ok := d.valueByPK[pk]
	return v, ok
}

// ValuesOf returns every value recorded for a language, in load order.
func (d *Dataset) ValuesOf(languageID string) []*Value {
	return d.valuesByLanguage[languageID]
}

// ValuesFor returns every value recorded for a parameter, in load order.
func (d *Dataset) ValuesFor(parameterID string) []*Value {
	return d.valuesByParameter[parameterID]
}

// Answers maps parameter id to the language's value for it. When a language
// has several values for one parameter the first loaded one wins.
// The returned map must not be modified.
func (d *Dataset) Answers(languageID string) map[string]*Value {
	return d.answers[languageID]
}

// Answer returns the language's value for a parameter.
func (d *Dataset) Answer(languageID, parameterID string) (*Value, bool) {
	v, ok := d.answers[languageID][parameterID]
	return v, ok
}

// Builder accumulates records in file order and produces a Dataset.
// Records are append-only.
type Builder struct {
	languages      []*Language
	parameters     []*Parameter
	domainElements []*DomainElement
	values         []*Value

	languagePKs map[int]struct{}
	paramPKs    map[int]struct{}
	elementPKs  map[int]struct{}
	valuePKs    map[int]struct{}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		languagePKs: make(map[int]struct{}),
		paramPKs:    make(map[int]struct{}),
		elementPKs:  make(map[int]struct{}),
		valuePKs:    make(map[int]struct{}),
	}
}

// AddLanguage appends a language. Primary keys must be unique per table.
func (b *Builder) AddLanguage(l Language) error {
	if err := claim(b.languagePKs, "language", l.PK); err != nil {
		return err
	}
	b.languages = append(b.languages, &l)
	return nil
}

// AddParameter appends a parameter.
func (b *Builder) AddParameter(p Parameter) error {
	if err := claim(b.paramPKs, "parameter", p.PK); err != nil {
		return err
	}
	b.parameters = append(b.parameters, &p)
	return nil
}

// AddDomainElement appends a domain element.
func (b *Builder) AddDomainElement(e DomainElement) error {
	if err := claim(b.elementPKs, "domain element", e.PK); err != nil {
		return err
	}
	b.domainElements = append(b.domainElements, &e)
	return nil
}

// AddValue appends a value.
func (b *Builder) AddValue(v Value) error {
	if err := claim(b.valuePKs, "value", v.PK); err != nil {
		return err
	}
	b.values = append(b.values, &v)
	return nil
}

func claim(seen map[int]struct{}, table string, pk int) error {
	if _, dup := seen[pk]; dup {
		return fmt.Errorf("%s pk %d: %w", table, pk, internalerr.ErrDuplicate)
	}
	seen[pk] = struct{}{}
	return nil
}

// Build freezes the records and builds every lookup index.
func (b *Builder) Build() *Dataset {
	d := &Dataset{
		languages:         b.languages,
		parameters:        b.parameters,
		domainElements:    b.domainElements,
		values:            b.values,
		languageByPK:      make(map[int]*Language, len(b.languages)),
		languageByID:      make(map[string]*Language, len(b.languages)),
		languageByName:    make(map[string]*Language, len(b.languages)),
		parameterByPK:     make(map[int]*Parameter, len(b.parameters)),
		parameterByID:     make(map[string]*Parameter, len(b.parameters)),
		domainElementByPK: make(map[int]*DomainElement, len(b.domainElements)),
		valueByPK:         make(map[int]*Value, len(b.values)),
		valuesByLanguage:  make(map[string][]*Value),
		valuesByParameter: make(map[string][]*Value),
		answers:           make(map[string]map[string]*Value),
		elementsByParam:   make(map[int][]*DomainElement),
	}

	// First occurrence wins for string identifiers, matching lookup-by-scan semantics.
	for _, l := range d.languages {
		d.languageByPK[l.PK] = l
		if _, ok := d.languageByID[l.ID]; !ok {
			d.languageByID[l.ID] = l
		}
		if key := foldName(l.Name); key != "" {
			if _, ok := d.languageByName[key]; !ok {
				d.languageByName[key] = l
			}
		}
	}
	for _, p := range d.parameters {
		d.parameterByPK[p.PK] = p
		if _, ok := d.parameterByID[p.ID]; !ok {
			d.parameterByID[p.ID] = p
		}
	}
	for _, e := range d.domainElements {
		d.domainElementByPK[e.PK] = e
		d.elementsByParam[e.ParameterPK] = append(d.elementsByParam[e.ParameterPK], e)
	}
	for _, elems := range d.elementsByParam {
		sort.SliceStable(elems, func(i, j int) bool { return elems[i].Number < elems[j].Number })
	}
	for _, v := range d.values {
		d.valueByPK[v.PK] = v
		langID, paramID := v.LanguageID(), v.ParameterID()
		d.valuesByLanguage[langID] = append(d.valuesByLanguage[langID], v)
		d.valuesByParameter[paramID] = append(d.valuesByParameter[paramID], v)
		byParam := d.answers[langID]
		if byParam == nil {
			byParam = make(map[string]*Value)
			d.answers[langID] = byParam
		}
		if _, ok := byParam[paramID]; !ok {
			byParam[paramID] = v
		}
	}

	d.orderedParams = make([]*Parameter, len(d.parameters))
	copy(d.orderedParams, d.parameters)
	sort.SliceStable(d.orderedParams, func(i, j int) bool {
		oi, oj := d.orderedParams[i].Order(), d.orderedParams[j].Order()
		if oi != oj {
			return oi < oj
		}
		return d.orderedParams[i].ID < d.orderedParams[j].ID
	})

	return d
}

// foldName strips diacritics and case so "Bété" and "bete" compare equal.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
