package domain

// EntitlementItem is one key of the registrant's net holdings, with a
// representative product/variant reference taken from any contributing
// line (equal across the group by construction).
type EntitlementItem struct {
	ProductID int64
	VariantID int64
	Quantity  int

	Product *Product
	Variant *ProductVariant
}

func (e EntitlementItem) Key() LineKey {
	return LineKey{ProductID: e.ProductID, VariantID: e.VariantID}
}

// Line renders the item as an order line carrying the net quantity.
func (e EntitlementItem) Line() OrderLine {
	return OrderLine{
		ProductID: e.ProductID,
		VariantID: e.VariantID,
		Quantity:  e.Quantity,
		Product:   e.Product,
		Variant:   e.Variant,
	}
}

// NetEntitlement folds every line of the registration's non-cancelled
// orders into net per-(product, variant) quantities. Keys netting to zero
// (ordered then exactly refunded) are excluded. A registration without
// orders yields an empty result; the function is pure and safe to call
// repeatedly. This is the single source of truth for what a registrant
// currently holds.
func NetEntitlement(reg Registration) []EntitlementItem {
	var all []OrderLine
	for _, o := range reg.Orders {
		if o.Status == OrderStatusCancelled {
			continue
		}
		all = append(all, o.Lines...)
	}

	net := Sanitize(all)
	items := make([]EntitlementItem, 0, len(net))
	for _, l := range net {
		items = append(items, EntitlementItem{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			Product:   l.Product,
			Variant:   l.Variant,
		})
	}
	return items
}

// EntitlementLines is NetEntitlement rendered as order lines, the form the
// diff engine consumes.
func EntitlementLines(reg Registration) []OrderLine {
	items := NetEntitlement(reg)
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Line())
	}
	return lines
}

// NetQuantityByProduct sums an entitlement across variants per product,
// the quantity the minimum-quantity rule checks against.
func NetQuantityByProduct(items []EntitlementItem) map[int64]int {
	totals := make(map[int64]int, len(items))
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}
	return totals
}
