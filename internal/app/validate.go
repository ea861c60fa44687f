package app

import (
	"fmt"

	"github.com/losol/eventuras-sub004/internal/domain"
)

// BuildLine constructs a validated order line against live catalog data.
// An explicit zero quantity is a caller error, unlike a sanitized zero
// which is silently dropped. Products with variants require a variant id;
// products without forbid one.
func BuildLine(product domain.Product, variantID int64, quantity int) (domain.OrderLine, error) {
	if quantity == 0 {
		return domain.OrderLine{}, fmt.Errorf("%w: quantity must not be zero for product %d", domain.ErrInvalidQuantity, product.ID)
	}
	if len(product.Variants) > 0 {
		if variantID == 0 {
			return domain.OrderLine{}, fmt.Errorf("%w: product %d", domain.ErrVariantRequired, product.ID)
		}
	} else if variantID != 0 {
		return domain.OrderLine{}, fmt.Errorf("%w: product %d", domain.ErrVariantNotAllowed, product.ID)
	}

	line := domain.OrderLine{
		ProductID: product.ID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	p := product
	line.Product = &p
	if variantID != 0 {
		variant := p.Variant(variantID)
		if variant == nil {
			return domain.OrderLine{}, fmt.Errorf("%w: variant %d of product %d", domain.ErrVariantNotFound, variantID, product.ID)
		}
		line.Variant = variant
	}
	return line, nil
}

// CheckVisibility verifies the product may appear on an order for the
// given event.
func CheckVisibility(product domain.Product, event domain.Event) error {
	if !product.AvailableOn(event) {
		return fmt.Errorf("%w: product %d on event %s", domain.ErrProductNotOnEvent, product.ID, event.ID)
	}
	return nil
}

// CheckMinimumQuantities enforces the per-product minimum for mandatory
// event products against the net entitlement summed across variants.
// Admin-level actors are exempt from this rule.
func CheckMinimumQuantities(eventProducts []domain.Product, entitlement []domain.EntitlementItem, adminAccess bool) error {
	if adminAccess {
		return nil
	}
	totals := domain.NetQuantityByProduct(entitlement)
	for _, p := range eventProducts {
		if !p.IsMandatory || p.MinimumQuantity <= 0 {
			continue
		}
		if totals[p.ID] < p.MinimumQuantity {
			return fmt.Errorf("%w: product %d requires at least %d, has %d",
				domain.ErrMinimumQuantityNotMet, p.ID, p.MinimumQuantity, totals[p.ID])
		}
	}
	return nil
}

// CheckNonNegative rejects entitlements where any key nets below zero.
func CheckNonNegative(entitlement []domain.EntitlementItem) error {
	for _, item := range entitlement {
		if item.Quantity < 0 {
			return fmt.Errorf("%w: product %d nets %d",
				domain.ErrNegativeEntitlement, item.ProductID, item.Quantity)
		}
	}
	return nil
}
