package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
)

type UpdateOrderStatusParams struct {
	OrderID string
	Status  entity.OrderStatus
	Version int
}

type ListOrdersParams struct {
	BuyerID      string
	SellerShopID string
}

// OrderRepository is the authoritative store for orders.
type OrderRepository interface {
	PersistOrder(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	// PersistStatusChange applies the status only if the stored version equals
	// params.Version, and bumps the version.
	PersistStatusChange(ctx context.Context, params UpdateOrderStatusParams) error
	List(ctx context.Context, params ListOrdersParams) ([]entity.Order, error)
}
