package domain

type ProductVisibility string

const (
	// VisibilityEvent limits a product to orders on its own event.
	VisibilityEvent ProductVisibility = "event"
	// VisibilityCollection makes a product orderable on any event sharing
	// a collection with the product's owning event.
	VisibilityCollection ProductVisibility = "collection"
)

// Product is externally owned catalog data, consulted but never mutated
// by the reconciliation core.
type Product struct {
	ID              int64
	EventID         string
	Name            string
	Visibility      ProductVisibility
	MinimumQuantity int
	IsMandatory     bool
	Variants        []ProductVariant
	CollectionIDs   []string
}

type ProductVariant struct {
	ID        int64
	ProductID int64
	Name      string
}

// Variant returns the variant with the given id, or nil.
func (p Product) Variant(variantID int64) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// AvailableOn reports whether the product may appear on an order for the
// given event: event-visible products only on their own event,
// collection-visible products on any event sharing a collection with the
// product's event.
func (p Product) AvailableOn(event Event) bool {
	switch p.Visibility {
	case VisibilityCollection:
		for _, c := range p.CollectionIDs {
			for _, ec := range event.CollectionIDs {
				if c == ec {
					return true
				}
			}
		}
		return false
	default:
		return p.EventID == event.ID
	}
}
