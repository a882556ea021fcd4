package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "Pending Payment"
	StatusPaid           OrderStatus = "Paid"
	StatusShipped        OrderStatus = "Shipped"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCompleted      OrderStatus = "Completed"
	StatusDisputed       OrderStatus = "Disputed"
	StatusCancelled      OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	StatusPendingPayment,
	StatusPaid,
	StatusShipped,
	StatusDelivered,
	StatusCompleted,
	StatusDisputed,
	StatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// IsTerminal reports whether no further transition can leave the status.
// Disputed is resolved outside of the ledger.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusDisputed:
		return true
	case StatusPendingPayment, StatusPaid, StatusShipped, StatusDelivered:
		return false
	}
	return false
}

type StatusTone string

const (
	ToneNeutral StatusTone = "neutral"
	ToneInfo    StatusTone = "info"
	ToneSuccess StatusTone = "success"
	ToneDanger  StatusTone = "danger"
)

// Tone is the badge colour used when displaying the status.
func (s OrderStatus) Tone() StatusTone {
	switch s {
	case StatusCompleted:
		return ToneSuccess
	case StatusShipped:
		return ToneInfo
	case StatusDisputed, StatusCancelled:
		return ToneDanger
	case StatusPendingPayment, StatusPaid, StatusDelivered:
		return ToneNeutral
	}
	return ToneNeutral
}

type ActorRole string

const (
	RoleBuyer  ActorRole = "buyer"
	RoleSeller ActorRole = "seller"
)

func ParseActorRole(s string) (ActorRole, error) {
	switch ActorRole(s) {
	case RoleBuyer, RoleSeller:
		return ActorRole(s), nil
	}
	return "", fmt.Errorf("%w: unknown actor role %q", ErrUnauthorized, s)
}

type Transition struct {
	From OrderStatus `json:"from"`
	To   OrderStatus `json:"to"`
}

// transitionRoles is the legal edge set; each edge lists the roles allowed to take it.
var transitionRoles = map[Transition][]ActorRole{
	{StatusPendingPayment, StatusPaid}:      {RoleBuyer},
	{StatusPendingPayment, StatusCancelled}: {RoleBuyer, RoleSeller},
	{StatusPaid, StatusShipped}:             {RoleSeller},
	{StatusPaid, StatusCancelled}:           {RoleBuyer, RoleSeller},
	{StatusPaid, StatusDisputed}:            {RoleBuyer, RoleSeller},
	{StatusShipped, StatusDelivered}:        {RoleBuyer},
	{StatusShipped, StatusDisputed}:         {RoleBuyer, RoleSeller},
	{StatusDelivered, StatusCompleted}:      {RoleBuyer},
	{StatusDelivered, StatusDisputed}:       {RoleBuyer, RoleSeller},
}

func IsLegalTransition(from, to OrderStatus) bool {
	_, ok := transitionRoles[Transition{From: from, To: to}]
	return ok
}

func CanAuthorize(role ActorRole, from, to OrderStatus) bool {
	for _, r := range transitionRoles[Transition{From: from, To: to}] {
		if r == role {
			return true
		}
	}
	return false
}

type Order struct {
	ID                 string          `json:"order_id"`
	BuyerID            string          `json:"buyer_user_id"`
	Product            Product         `json:"product"`
	SellerShopID       string          `json:"seller_shop_id"`
	Quantity           int             `json:"quantity"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	ShippingFee        decimal.Decimal `json:"shipping_fee"`
	BuyerProtectionFee decimal.Decimal `json:"buyer_protection_fee"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	Status             OrderStatus     `json:"order_status"`
	ShippingAddress    string          `json:"shipping_address"`
	TrackingNumber     string          `json:"tracking_number,omitempty"`
	CreatedAt          time.Time       `json:"order_date"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"-"`
}

type NewOrderParams struct {
	BuyerID                string
	Product                Product
	SellerShopID           string
	Quantity               int
	ShippingFee            decimal.Decimal
	BuyerProtectionFeeRate decimal.Decimal
	ShippingAddress        string
}

func NewOrder(params NewOrderParams) (*Order, error) {
	if params.BuyerID == "" {
		return nil, errors.New("buyer ID cannot be empty")
	}
	if params.SellerShopID == "" {
		return nil, errors.New("seller shop ID cannot be empty")
	}
	if params.Quantity <= 0 || params.Quantity > params.Product.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInvalidQuantity, params.Quantity, params.Product.Quantity)
	}

	pricing, err := ComputePricing(params.Product.Price, params.Quantity, params.ShippingFee, params.BuyerProtectionFeeRate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Order{
		ID:                 uuid.NewString(),
		BuyerID:            params.BuyerID,
		Product:            params.Product.Clone(),
		SellerShopID:       params.SellerShopID,
		Quantity:           pricing.Quantity,
		PurchasePrice:      pricing.PurchasePrice,
		ShippingFee:        pricing.ShippingFee,
		BuyerProtectionFee: pricing.BuyerProtectionFee,
		TotalPrice:         pricing.TotalPrice,
		Status:             StatusPendingPayment,
		ShippingAddress:    params.ShippingAddress,
		CreatedAt:          now,
		UpdatedAt:          now,
		Version:            1,
	}, nil
}

func (o *Order) Pricing() Pricing {
	return Pricing{
		PurchasePrice:      o.PurchasePrice,
		Quantity:           o.Quantity,
		ShippingFee:        o.ShippingFee,
		BuyerProtectionFee: o.BuyerProtectionFee,
		TotalPrice:         o.TotalPrice,
	}
}

// CheckTransition validates the edge before the actor, so an edge that does not
// exist is reported as illegal for every role.
func (o *Order) CheckTransition(role ActorRole, target OrderStatus) error {
	if !IsLegalTransition(o.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, target)
	}
	if !CanAuthorize(role, o.Status, target) {
		return fmt.Errorf("%w: %s may not move order from %s to %s", ErrUnauthorized, role, o.Status, target)
	}
	return nil
}

// Advance moves the order to target. Only the status and bookkeeping fields change.
func (o *Order) Advance(role ActorRole, target OrderStatus) error {
	if err := o.CheckTransition(role, target); err != nil {
		return err
	}
	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	o.Version++
	return nil
}

// AvailableActions lists the transitions role may take from the current status.
func (o *Order) AvailableActions(role ActorRole) []Transition {
	var out []Transition
	for _, to := range orderStatuses {
		if CanAuthorize(role, o.Status, to) {
			out = append(out, Transition{From: o.Status, To: to})
		}
	}
	return out
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Product = o.Product.Clone()
	return &out
}

// RoleOf resolves the caller's role on this order from their user and shop IDs.
func (o *Order) RoleOf(userID, shopID string) (ActorRole, bool) {
	switch {
	case userID != "" && o.BuyerID == userID:
		return RoleBuyer, true
	case shopID != "" && o.SellerShopID == shopID:
		return RoleSeller, true
	}
	return "", false
}
