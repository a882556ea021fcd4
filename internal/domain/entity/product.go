package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Condition is one of the four fixed item conditions. The zero value is not a
// valid condition.
type Condition struct {
	label string
}

var (
	ConditionNew         = Condition{"New"}
	ConditionUsedLikeNew = Condition{"Used - Like New"}
	ConditionUsedGood    = Condition{"Used - Good"}
	ConditionUsedFair    = Condition{"Used - Fair"}
)

var conditions = []Condition{
	ConditionNew,
	ConditionUsedLikeNew,
	ConditionUsedGood,
	ConditionUsedFair,
}

func Conditions() []Condition {
	out := make([]Condition, len(conditions))
	copy(out, conditions)
	return out
}

func ParseCondition(label string) (Condition, error) {
	for _, c := range conditions {
		if c.label == label {
			return c, nil
		}
	}
	return Condition{}, fmt.Errorf("%w: %q", ErrInvalidCondition, label)
}

func (c Condition) String() string { return c.label }

func (c Condition) IsValid() bool { return c.label != "" }

func (c Condition) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, ErrInvalidCondition
	}
	return []byte(c.label), nil
}

func (c *Condition) UnmarshalText(text []byte) error {
	parsed, err := ParseCondition(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type ProductStatus string

const (
	ProductAvailable ProductStatus = "Available"
	ProductSold      ProductStatus = "Sold"
	ProductReserved  ProductStatus = "Reserved"
	ProductHidden    ProductStatus = "Hidden"
)

type Product struct {
	ID              string          `json:"product_id"`
	ShopID          string          `json:"shop_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Condition       Condition       `json:"condition"`
	Quantity        int             `json:"quantity"`
	Status          ProductStatus   `json:"status"`
	Images          []string        `json:"images"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	SellerName      string          `json:"seller_name"`
	SellerAvatarURL string          `json:"seller_avatar_url"`
}

func (p Product) IsAvailable() bool {
	return p.Status == ProductAvailable
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	return out
}
