package store

// Criteria holds the optional predicates of a Filter call.
// A nil field imposes no constraint; set fields are combined with logical AND.
type Criteria struct {
	Type     *string
	Color    *string
	PriceMin *int64 // inclusive
	PriceMax *int64 // inclusive
}

// WithType returns a copy of c that also requires an exact type match.
func (c Criteria) WithType(petType string) Criteria {
	c.Type = &petType
	return c
}

// WithColor returns a copy of c that also requires an exact color match.
func (c Criteria) WithColor(color string) Criteria {
	c.Color = &color
	return c
}

// WithPriceMin returns a copy of c that also requires price >= minPrice.
func (c Criteria) WithPriceMin(minPrice int64) Criteria {
	c.PriceMin = &minPrice
	return c
}

// WithPriceMax returns a copy of c that also requires price <= maxPrice.
func (c Criteria) WithPriceMax(maxPrice int64) Criteria {
	c.PriceMax = &maxPrice
	return c
}

// IsEmpty reports whether no predicate is set.
func (c Criteria) IsEmpty() bool {
	return c.Type == nil && c.Color == nil && c.PriceMin == nil && c.PriceMax == nil
}

// Matches reports whether the pet satisfies every predicate set in c.
func (c Criteria) Matches(p Pet) bool {
	if c.Type != nil && p.Type != *c.Type {
		return false
	}
	if c.Color != nil && p.Color != *c.Color {
		return false
	}
	if c.PriceMin != nil && p.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && p.Price > *c.PriceMax {
		return false
	}
	return true
}
