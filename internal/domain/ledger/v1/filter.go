package ledgerv1

// Catalog resolves item tags for filtered iteration.
type Catalog interface {
	HasTag(item, tag string) bool
}

// Filter narrows a read-only iteration over a ledger. Zero fields match everything.
type Filter struct {
	Creator  string
	Kinds    []Kind
	MinPrice *int64
	MaxPrice *int64
	Item     string
	Tag      string
	Match    func(item string) bool
}

// Accepts reports whether o passes every set field. Tag is only honoured when
// a catalog is supplied.
func (f *Filter) Accepts(o *Order, catalog Catalog) bool {
	if f == nil {
		return true
	}
	if f.Creator != "" && o.Creator != f.Creator {
		return false
	}
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if k == o.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && o.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && o.Price > *f.MaxPrice {
		return false
	}
	if f.Item != "" && o.Item != f.Item {
		return false
	}
	if f.Tag != "" && (catalog == nil || !catalog.HasTag(o.Item, f.Tag)) {
		return false
	}
	if f.Match != nil && !f.Match(o.Item) {
		return false
	}
	return true
}

// Price returns a pointer for the MinPrice/MaxPrice fields.
func Price(p int64) *int64 {
	return &p
}
