package entity

import "time"

type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order.created"
	EventOrderStatusChanged OrderEventType = "order.status.updated"
)

// OrderEvent is emitted by the ledger after a change has been persisted.
type OrderEvent struct {
	Type         OrderEventType `json:"type"`
	OrderID      string         `json:"order_id"`
	BuyerID      string         `json:"buyer_user_id"`
	SellerShopID string         `json:"seller_shop_id"`
	ProductID    string         `json:"product_id"`
	Quantity     int            `json:"quantity"`
	From         OrderStatus    `json:"from,omitempty"`
	To           OrderStatus    `json:"to"`
	Actor        ActorRole      `json:"actor,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

func NewOrderCreatedEvent(o *Order) OrderEvent {
	return OrderEvent{
		Type:         EventOrderCreated,
		OrderID:      o.ID,
		BuyerID:      o.BuyerID,
		SellerShopID: o.SellerShopID,
		ProductID:    o.Product.ID,
		Quantity:     o.Quantity,
		To:           o.Status,
		OccurredAt:   o.CreatedAt,
	}
}

func NewStatusChangedEvent(o *Order, from OrderStatus, actor ActorRole) OrderEvent {
	return OrderEvent{
		Type:         EventOrderStatusChanged,
		OrderID:      o.ID,
		BuyerID:      o.BuyerID,
		SellerShopID: o.SellerShopID,
		ProductID:    o.Product.ID,
		Quantity:     o.Quantity,
		From:         from,
		To:           o.Status,
		Actor:        actor,
		OccurredAt:   o.UpdatedAt,
	}
}
