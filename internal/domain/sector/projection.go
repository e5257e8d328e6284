package sector

import "maps"

// Projection is the read-model mirror of a ship's active status effects.
// Clients read it from the object itself; the authoritative rows live in the
// status effect store and both are written in the same transaction.
type Projection struct {
	Version int
	Values  map[string]float64
}

// Replace swaps the projected values and bumps the version if anything changed
func (p *Projection) Replace(values map[string]float64) bool {
	if maps.Equal(p.Values, values) {
		return false
	}
	p.Values = maps.Clone(values)
	p.Version++
	return true
}

func (p *Projection) Clear() {
	p.Replace(nil)
}

func (p Projection) Get(key string) (float64, bool) {
	v, ok := p.Values[key]
	return v, ok
}
