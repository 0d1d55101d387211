package dataset

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record holds the columns shared by every WALS table.
type Record struct {
	PK                int
	JSONData          string // carried through, never parsed by the engines
	ID                string
	Name              string
	Description       string
	MarkupDescription string
	Version           uint8
}

// Language is a language row with its coordinates.
type Language struct {
	Record
	Latitude  float64
	Longitude float64
}

func (l *Language) String() string {
	return "<Language '" + l.ID + "': " + l.Name + ">"
}

// Parameter is a typological feature such as "81A Order of Subject, Object and Verb".
type Parameter struct {
	Record
}

func (p *Parameter) String() string {
	return "<Feature " + p.ID + ": " + p.Name + ">"
}

// Order returns the listing key of the parameter: the numeric prefix of the
// identifier shifted left by 8, plus the first letter of the suffix.
// "3A" becomes 3<<8 + 'A'. Unparseable parts contribute 0.
func (p *Parameter) Order() int {
	return ParameterOrder(p.ID)
}

// ParameterOrder computes the Order key for a parameter identifier.
func ParameterOrder(id string) int {
	i := 0
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(id[:i])
	if err != nil || n > 0xFF {
		n = 0
	}
	letter := 0
	for j := i; j < len(id); j++ {
		if id[j] >= 'A' && id[j] <= 'Z' {
			letter = int(id[j])
			break
		}
	}
	return n<<8 + letter
}

// DomainElement is one of the categorical answers a parameter allows.
type DomainElement struct {
	Record
	ParameterPK int
	Number      int
	Abbr        string
}

func (d *DomainElement) String() string {
	return "<" + d.Name + ">"
}

// Icon describes the map marker WALS attaches to a domain element.
type Icon struct {
	Shape byte
	Color string // hex, without the leading '#'
}

// Icon decodes the marker spec stored in the element's JSON data, e.g.
// {"icon": "cff0000"}. The bool is false when no usable icon is present.
func (d *DomainElement) Icon() (Icon, bool) {
	var data struct {
		Icon string `json:"icon"`
	}
	if err := json.Unmarshal([]byte(d.JSONData), &data); err != nil {
		return Icon{}, false
	}
	spec := strings.TrimSpace(data.Icon)
	if len(spec) < 2 {
		return Icon{}, false
	}
	return Icon{Shape: spec[0], Color: strings.TrimPrefix(spec[1:], "#")}, true
}

// Value is the answer one language gives for one parameter. Its identifier
// is "<parameterID>-<languageID>".
type Value struct {
	Record
	ValueSetPK      int
	DomainElementPK int
	Frequency       string
	Confidence      string
}

// ParameterID returns the part of the identifier before the first '-'.
func (v *Value) ParameterID() string {
	param, _, _ := strings.Cut(v.ID, "-")
	return param
}

// LanguageID returns the part of the identifier after the first '-'.
func (v *Value) LanguageID() string {
	_, lang, _ := strings.Cut(v.ID, "-")
	return lang
}
