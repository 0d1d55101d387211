package region

import "github.com/cognicore/wals/pkg/wals/geo"

// Composite regions of the built-in hierarchy.
const (
	Asia     = "ASIA"
	Africa   = "AFRICA"
	Americas = "AMERICAS"
	Eurasia  = "EURASIA"
	OldWorld = "OLD_WORLD"
)

var composites = []struct {
	id    string
	parts []string
}{
	{Asia, []string{"CAUCASUS", "SIBERIA", "ASIA_CENTRAL", "ASIA_EAST", "ASIA_SOUTHWEST", "INDIA", "INDOCHINA", "INDONESIA"}},
	{Africa, []string{"AFRICA_NORTH", "AFRICA_SUBSAHARAN"}},
	{Americas, []string{"AMERICA_NORTH", "AMERICA_CENTRAL", "AMERICA_SOUTH", "CARIBBEAN"}},
	{Eurasia, []string{"EUROPE", Asia}},
	{OldWorld, []string{Eurasia, Africa}},
}

// Builtin returns a registry holding one region per province (named after
// the province), the composite continents, and EARTH.
func Builtin() *Registry {
	reg := NewRegistry()
	for _, p := range geo.Provinces() {
		mustRegion(reg.Define(p.String(), p))
	}
	for _, c := range composites {
		mustRegion(reg.Compose(c.id, c.parts...))
	}
	mustRegion(reg.Define(Earth, geo.Provinces()...))
	return reg
}

func mustRegion(_ *Region, err error) {
	if err != nil {
		panic(err)
	}
}
