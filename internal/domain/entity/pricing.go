package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// Pricing is the price breakdown of an order, fixed at creation.
type Pricing struct {
	PurchasePrice      decimal.Decimal
	Quantity           int
	ShippingFee        decimal.Decimal
	BuyerProtectionFee decimal.Decimal
	TotalPrice         decimal.Decimal
}

// ComputePricing rounds the buyer-protection fee half away from zero to cents.
func ComputePricing(price decimal.Decimal, quantity int, shippingFee, protectionRate decimal.Decimal) (Pricing, error) {
	if !price.IsPositive() {
		return Pricing{}, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidPrice, price.String())
	}
	if shippingFee.IsNegative() {
		return Pricing{}, fmt.Errorf("%w: shipping fee cannot be negative, got %s", ErrInvalidPrice, shippingFee.String())
	}
	if protectionRate.IsNegative() {
		return Pricing{}, fmt.Errorf("%w: buyer protection rate cannot be negative, got %s", ErrInvalidPrice, protectionRate.String())
	}
	if quantity <= 0 {
		return Pricing{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}

	subtotal := price.Mul(decimal.NewFromInt(int64(quantity)))
	fee := subtotal.Mul(protectionRate).Round(moneyPlaces)
	return Pricing{
		PurchasePrice:      price,
		Quantity:           quantity,
		ShippingFee:        shippingFee,
		BuyerProtectionFee: fee,
		TotalPrice:         subtotal.Add(shippingFee).Add(fee),
	}, nil
}

// Subtotal is the purchase price times quantity.
func (p Pricing) Subtotal() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Consistent reports whether the total still equals the sum of its parts.
func (p Pricing) Consistent() bool {
	return p.Subtotal().Add(p.ShippingFee).Add(p.BuyerProtectionFee).Equal(p.TotalPrice)
}

// MinimumOffer is the lowest offer a seller accepts for an item: 70% of the
// asking price, rounded to cents.
func MinimumOffer(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromFloat(0.7)).Round(moneyPlaces)
}

func ValidateOffer(price, offer decimal.Decimal) error {
	if !offer.IsPositive() {
		return fmt.Errorf("%w: offer must be positive", ErrInvalidOffer)
	}
	if minimum := MinimumOffer(price); offer.LessThan(minimum) {
		return fmt.Errorf("%w: offer must be at least %s", ErrOfferTooLow, minimum.StringFixed(moneyPlaces))
	}
	return nil
}
