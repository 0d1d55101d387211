package geo

import (
	"fmt"
	"strings"
)

// Province is a fine-grained geographic cell. Its underlying value is the
// ARGB color that marks the cell on the classification raster, so a pixel
// read from the raster converts to a Province directly.
type Province uint32

// Provinces and their raster colors.
const (
	Europe           Province = 0xFF3C78D8
	Caucasus         Province = 0xFF8E7CC3
	Siberia          Province = 0xFF76A5AF
	CentralAsia      Province = 0xFFF1C232
	EastAsia         Province = 0xFFCC0000
	SouthwestAsia    Province = 0xFFE69138
	India            Province = 0xFFFF9900
	Indochina        Province = 0xFF6AA84F
	Indonesia        Province = 0xFF93C47D
	NorthAfrica      Province = 0xFFBF9000
	SubsaharanAfrica Province = 0xFF783F04
	Oceania          Province = 0xFF00FFFF
	NorthAmerica     Province = 0xFF0000FF
	CentralAmerica   Province = 0xFF9900FF
	SouthAmerica     Province = 0xFF00FF00
	Caribbean        Province = 0xFFFF00FF

	// Uninhabited marks ocean, ice and any color the raster does not know.
	Uninhabited Province = 0xFFFFFFFF
)

var provinces = []Province{
	Europe,
	Caucasus,
	Siberia,
	CentralAsia,
	EastAsia,
	SouthwestAsia,
	India,
	Indochina,
	NorthAfrica,
	SubsaharanAfrica,
	Indonesia,
	Oceania,
	NorthAmerica,
	CentralAmerica,
	SouthAmerica,
	Caribbean,
}

var provinceNames = map[Province]string{
	Europe:           "EUROPE",
	Caucasus:         "CAUCASUS",
	Siberia:          "SIBERIA",
	CentralAsia:      "ASIA_CENTRAL",
	EastAsia:         "ASIA_EAST",
	SouthwestAsia:    "ASIA_SOUTHWEST",
	India:            "INDIA",
	Indochina:        "INDOCHINA",
	NorthAfrica:      "AFRICA_NORTH",
	SubsaharanAfrica: "AFRICA_SUBSAHARAN",
	Indonesia:        "INDONESIA",
	Oceania:          "OCEANIA",
	NorthAmerica:     "AMERICA_NORTH",
	CentralAmerica:   "AMERICA_CENTRAL",
	SouthAmerica:     "AMERICA_SOUTH",
	Caribbean:        "CARIBBEAN",
	Uninhabited:      "UNINHABITED",
}

var provinceByName = func() map[string]Province {
	m := make(map[string]Province, len(provinceNames))
	for p, name := range provinceNames {
		m[name] = p
	}
	return m
}()

// Provinces returns every inhabited province in enumeration order.
func Provinces() []Province {
	out := make([]Province, len(provinces))
	copy(out, provinces)
	return out
}

// Known reports whether p is an inhabited province.
func (p Province) Known() bool {
	_, ok := provinceNames[p]
	return ok && p != Uninhabited
}

func (p Province) String() string {
	if name, ok := provinceNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Province(%#08x)", uint32(p))
}

// ParseProvince resolves a province by name, case-insensitively.
func ParseProvince(name string) (Province, bool) {
	p, ok := provinceByName[strings.ToUpper(strings.TrimSpace(name))]
	return p, ok
}

// FromARGB decodes a raster pixel. Unknown colors map to Uninhabited.
func FromARGB(argb uint32) Province {
	p := Province(argb)
	if p.Known() {
		return p
	}
	return Uninhabited
}
