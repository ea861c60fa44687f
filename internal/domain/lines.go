package domain

import "sort"

// LineKey identifies a line for aggregation and diffing. Variant ids are
// positive; VariantID zero means the product has no variant dimension.
type LineKey struct {
	ProductID int64
	VariantID int64
}

// OrderLine is the atomic accounting unit: a signed quantity of a product
// (optionally a specific variant). Negative quantities record refunds or
// removals as separate lines instead of rewriting history.
type OrderLine struct {
	ProductID int64
	VariantID int64
	Quantity  int

	Product *Product
	Variant *ProductVariant
}

func (l OrderLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, VariantID: l.VariantID}
}

// Sanitize canonicalizes a line collection: lines sharing a key are merged
// by summing quantities, keys that net to zero are dropped, and the result
// is ordered by (product, variant). Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(lines []OrderLine) []OrderLine {
	merged := make(map[LineKey]OrderLine, len(lines))
	for _, l := range lines {
		key := l.Key()
		acc, ok := merged[key]
		if !ok {
			acc = OrderLine{ProductID: l.ProductID, VariantID: l.VariantID, Product: l.Product, Variant: l.Variant}
		}
		acc.Quantity += l.Quantity
		if acc.Product == nil {
			acc.Product = l.Product
		}
		if acc.Variant == nil {
			acc.Variant = l.Variant
		}
		merged[key] = acc
	}

	out := make([]OrderLine, 0, len(merged))
	for _, l := range merged {
		if l.Quantity == 0 {
			continue
		}
		out = append(out, l)
	}
	sortLines(out)
	return out
}

func sortLines(lines []OrderLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].VariantID < lines[j].VariantID
	})
}

type ChangeOp string

const (
	// ChangeAdd introduces a key absent from the current entitlement.
	ChangeAdd ChangeOp = "add"
	// ChangeRemove drops a key entirely; its quantity is the negated
	// current quantity.
	ChangeRemove ChangeOp = "remove"
	// ChangeAdjust shifts an existing key by desired minus current.
	ChangeAdjust ChangeOp = "adjust"
)

// LineChange is a tagged signed delta against the current entitlement.
// Quantity is always relative: applying it on top of the current state
// moves that key to its desired value.
type LineChange struct {
	Op       ChangeOp
	Key      LineKey
	Quantity int

	Product *Product
	Variant *ProductVariant
}

// Line renders the change as a bare signed order line.
func (c LineChange) Line() OrderLine {
	return OrderLine{
		ProductID: c.Key.ProductID,
		VariantID: c.Key.VariantID,
		Quantity:  c.Quantity,
		Product:   c.Product,
		Variant:   c.Variant,
	}
}

// Diff computes the minimal set of signed changes that moves current to
// desired. Both inputs are sanitized first. The result is empty exactly
// when the two entitlements already agree, and satisfies
// Sanitize(ApplyChanges(current, Diff(desired, current))) == Sanitize(desired).
func Diff(desired, current []OrderLine) []LineChange {
	desired = Sanitize(desired)
	current = Sanitize(current)

	currentByKey := make(map[LineKey]OrderLine, len(current))
	for _, l := range current {
		currentByKey[l.Key()] = l
	}
	desiredKeys := make(map[LineKey]struct{}, len(desired))

	var changes []LineChange
	for _, want := range desired {
		key := want.Key()
		desiredKeys[key] = struct{}{}
		have, exists := currentByKey[key]
		if !exists {
			changes = append(changes, LineChange{
				Op:       ChangeAdd,
				Key:      key,
				Quantity: want.Quantity,
				Product:  want.Product,
				Variant:  want.Variant,
			})
			continue
		}
		if delta := want.Quantity - have.Quantity; delta != 0 {
			changes = append(changes, LineChange{
				Op:       ChangeAdjust,
				Key:      key,
				Quantity: delta,
				Product:  want.Product,
				Variant:  want.Variant,
			})
		}
	}
	for _, have := range current {
		if _, wanted := desiredKeys[have.Key()]; wanted {
			continue
		}
		changes = append(changes, LineChange{
			Op:       ChangeRemove,
			Key:      have.Key(),
			Quantity: -have.Quantity,
			Product:  have.Product,
			Variant:  have.Variant,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Key.ProductID != changes[j].Key.ProductID {
			return changes[i].Key.ProductID < changes[j].Key.ProductID
		}
		return changes[i].Key.VariantID < changes[j].Key.VariantID
	})
	return changes
}

// ApplyChanges merges signed changes into a line collection and returns
// the canonical result. Keys driven to zero disappear rather than linger
// as zero-quantity lines.
func ApplyChanges(lines []OrderLine, changes []LineChange) []OrderLine {
	out := make([]OrderLine, 0, len(lines)+len(changes))
	out = append(out, lines...)
	for _, c := range changes {
		out = append(out, c.Line())
	}
	return Sanitize(out)
}
