package service

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
)

// ProductStatusUpdater keeps listing status in line with the order lifecycle.
// A new order reserves the listing only when it takes the whole stock. Completion
// sells it and cancellation releases a reservation.
type ProductStatusUpdater struct {
	catalog CatalogService
	log     logger.Logger
}

func NewProductStatusUpdater(catalog CatalogService, log logger.Logger) *ProductStatusUpdater {
	return &ProductStatusUpdater{catalog: catalog, log: log}
}

func (u *ProductStatusUpdater) OnOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	var (
		next     entity.ProductStatus
		onlyFrom entity.ProductStatus
	)
	switch {
	case event.Type == entity.EventOrderCreated:
		next, onlyFrom = entity.ProductReserved, entity.ProductAvailable
	case event.To == entity.StatusCompleted:
		next = entity.ProductSold
	case event.To == entity.StatusCancelled:
		next, onlyFrom = entity.ProductAvailable, entity.ProductReserved
	default:
		return nil
	}

	product, err := u.catalog.GetProduct(ctx, event.ProductID)
	if err != nil {
		return fmt.Errorf("product status update for order %s: %w", event.OrderID, err)
	}
	if product.Status == next || (onlyFrom != "" && product.Status != onlyFrom) {
		return nil
	}
	if event.Type == entity.EventOrderCreated && event.Quantity < product.Quantity {
		u.log.Debugf("Order %s takes %d of %d units of %s, listing stays %s",
			event.OrderID, event.Quantity, product.Quantity, product.ID, product.Status)
		return nil
	}
	if err := u.catalog.SetProductStatus(ctx, product.ID, next); err != nil {
		return fmt.Errorf("product status update for order %s: %w", event.OrderID, err)
	}
	u.log.Infof("Product %s moved from %s to %s after order %s", product.ID, product.Status, next, event.OrderID)
	return nil
}
