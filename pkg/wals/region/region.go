package region

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/wals/pkg/wals/geo"
	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// Earth is the id of the region containing every province.
const Earth = "EARTH"

// Region is a named, immutable set of provinces.
type Region struct {
	id           string
	constituents map[geo.Province]struct{}
	ordered      []geo.Province
}

func newRegion(id string, provinces []geo.Province) *Region {
	r := &Region{id: id, constituents: make(map[geo.Province]struct{}, len(provinces))}
	for _, p := range provinces {
		if _, dup := r.constituents[p]; dup {
			continue
		}
		r.constituents[p] = struct{}{}
		r.ordered = append(r.ordered, p)
	}
	return r
}

// ID returns the region's name.
func (r *Region) ID() string { return r.id }

func (r *Region) String() string { return r.id }

// Constituents returns the region's provinces in definition order.
func (r *Region) Constituents() []geo.Province {
	out := make([]geo.Province, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Contains reports whether p is one of the region's provinces.
func (r *Region) Contains(p geo.Province) bool {
	_, ok := r.constituents[p]
	return ok
}

// Len returns the number of provinces in the region.
func (r *Region) Len() int { return len(r.ordered) }

// Registry holds regions by id. Regions are only ever added.
type Registry struct {
	regions []*Region
	byID    map[string]*Region
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Region)}
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Define registers a region made of the given provinces.
func (reg *Registry) Define(id string, provinces ...geo.Province) (*Region, error) {
	id = normalizeID(id)
	if id == "" {
		return nil, fmt.Errorf("region id is empty: %w", internalerr.ErrInvalidInput)
	}
	if _, exists := reg.byID[id]; exists {
		return nil, fmt.Errorf("region %s: %w", id, internalerr.ErrDuplicate)
	}
	for _, p := range provinces {
		if !p.Known() {
			return nil, fmt.Errorf("region %s: unknown province %v: %w", id, p, internalerr.ErrInvalidInput)
		}
	}
	r := newRegion(id, provinces)
	reg.regions = append(reg.regions, r)
	reg.byID[id] = r
	return r, nil
}

// Compose registers a region whose constituents are the union of existing
// regions' constituents. The union is computed once, here.
func (reg *Registry) Compose(id string, parts ...string) (*Region, error) {
	var provinces []geo.Province
	for _, part := range parts {
		r, ok := reg.FromID(part)
		if !ok {
			return nil, fmt.Errorf("region %s: part %q: %w", normalizeID(id), part, internalerr.ErrNotFound)
		}
		provinces = append(provinces, r.ordered...)
	}
	return reg.Define(id, provinces...)
}

// DefineMixed registers a region from a list naming either existing regions
// or provinces. Region ids take precedence over province names.
func (reg *Registry) DefineMixed(id string, parts []string) (*Region, error) {
	var provinces []geo.Province
	for _, part := range parts {
		if r, ok := reg.FromID(part); ok {
			provinces = append(provinces, r.ordered...)
			continue
		}
		if p, ok := geo.ParseProvince(part); ok && p.Known() {
			provinces = append(provinces, p)
			continue
		}
		return nil, fmt.Errorf("region %s: part %q: %w", normalizeID(id), part, internalerr.ErrNotFound)
	}
	return reg.Define(id, provinces...)
}

// FromID looks up a region by id, case-insensitively.
func (reg *Registry) FromID(id string) (*Region, bool) {
	r, ok := reg.byID[normalizeID(id)]
	return r, ok
}

// All returns the regions in registration order.
func (reg *Registry) All() []*Region {
	out := make([]*Region, len(reg.regions))
	copy(out, reg.regions)
	return out
}

// IDs returns the sorted region ids.
func (reg *Registry) IDs() []string {
	ids := make([]string, 0, len(reg.regions))
	for _, r := range reg.regions {
		ids = append(ids, r.id)
	}
	sort.Strings(ids)
	return ids
}
