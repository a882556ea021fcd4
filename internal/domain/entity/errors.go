package entity

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrUnauthorized         = errors.New("actor is not authorized for this transition")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrReconciliationFailed = errors.New("favorite toggle was not confirmed")
	ErrInvalidCondition     = errors.New("invalid product condition")
	ErrInvalidOffer         = errors.New("invalid offer")
	ErrOfferTooLow          = errors.New("offer is below the minimum")
)
