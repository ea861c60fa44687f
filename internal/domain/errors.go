package domain

import "errors"

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrVariantNotFound      = errors.New("product variant not found")

	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrVariantRequired    = errors.New("product variant required")
	ErrVariantNotAllowed  = errors.New("product has no variants")
	ErrProductNotOnEvent  = errors.New("product not available on this event")
	ErrEventTitleRequired = errors.New("event title required")
	ErrProductNameRequired = errors.New("product name required")
	ErrInvalidID          = errors.New("invalid id")

	ErrNotAccessible    = errors.New("not accessible")
	ErrOrderNotEditable = errors.New("order not editable")

	ErrMinimumQuantityNotMet = errors.New("minimum quantity not met")
	ErrNegativeEntitlement   = errors.New("entitlement quantity below zero")
)
