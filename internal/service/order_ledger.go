package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/service"

// TransitionListener is notified after an order change has been persisted.
// Errors are logged by the ledger and never reach the caller.
type TransitionListener interface {
	OnOrderEvent(ctx context.Context, event entity.OrderEvent) error
}

type TransitionListenerFunc func(ctx context.Context, event entity.OrderEvent) error

func (f TransitionListenerFunc) OnOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	return f(ctx, event)
}

type CreateOrderParams struct {
	BuyerID         string
	Product         entity.Product
	SellerShopID    string
	Quantity        int
	ShippingFee     decimal.Decimal
	ShippingAddress string
	// BuyerProtectionFeeRate falls back to the ledger's default rate when not set.
	BuyerProtectionFeeRate decimal.NullDecimal
}

type OrderLedger interface {
	ListOrdersForBuyer(ctx context.Context, userID string) []entity.Order
	ListOrdersForSeller(ctx context.Context, shopID string) []entity.Order
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	AdvanceStatus(ctx context.Context, orderID string, role entity.ActorRole, target entity.OrderStatus) (*entity.Order, error)
	CreateOrder(ctx context.Context, params CreateOrderParams) (*entity.Order, error)
	Subscribe(listener TransitionListener)
}

type orderLedger struct {
	orderRepo   repository.OrderRepository
	defaultRate decimal.Decimal
	metrics     *metrics.Metrics
	log         logger.Logger

	orderLocks *keyedMutex

	listenersMu sync.RWMutex
	listeners   []TransitionListener
}

func NewOrderLedger(
	orderRepo repository.OrderRepository,
	defaultRate decimal.Decimal,
	m *metrics.Metrics,
	log logger.Logger,
) OrderLedger {
	return &orderLedger{
		orderRepo:   orderRepo,
		defaultRate: defaultRate,
		metrics:     m,
		log:         log,
		orderLocks:  newKeyedMutex(),
	}
}

func (l *orderLedger) Subscribe(listener TransitionListener) {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()
	l.listeners = append(l.listeners, listener)
}

func (l *orderLedger) ListOrdersForBuyer(ctx context.Context, userID string) []entity.Order {
	return l.list(ctx, repository.ListOrdersParams{BuyerID: userID})
}

func (l *orderLedger) ListOrdersForSeller(ctx context.Context, shopID string) []entity.Order {
	return l.list(ctx, repository.ListOrdersParams{SellerShopID: shopID})
}

func (l *orderLedger) list(ctx context.Context, params repository.ListOrdersParams) []entity.Order {
	if params.BuyerID == "" && params.SellerShopID == "" {
		return []entity.Order{}
	}
	orders, err := l.orderRepo.List(ctx, params)
	if err != nil {
		l.log.Errorf("Failed to list orders (buyer=%q, shop=%q): %v", params.BuyerID, params.SellerShopID, err)
		return []entity.Order{}
	}
	if orders == nil {
		return []entity.Order{}
	}
	return orders
}

func (l *orderLedger) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := l.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", entity.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return order, nil
}

func (l *orderLedger) AdvanceStatus(ctx context.Context, orderID string, role entity.ActorRole, target entity.OrderStatus) (*entity.Order, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "OrderLedger.AdvanceStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.actor", string(role)),
		attribute.String("order.target_status", string(target)),
	)

	l.log.Infof("Advancing order %s to %s by %s", orderID, target, role)

	unlock := l.orderLocks.Lock(orderID)
	defer unlock()

	order, err := l.GetOrder(ctx, orderID)
	if err != nil {
		l.log.Warnf("Cannot advance order %s: %v", orderID, err)
		l.metrics.OrderRejected(rejectionReason(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	from := order.Status
	storedVersion := order.Version
	if err := order.Advance(role, target); err != nil {
		l.log.Warnf("Rejected transition for order %s (%s -> %s by %s): %v", orderID, from, target, role, err)
		l.metrics.OrderRejected(rejectionReason(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	err = l.orderRepo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{
		OrderID: orderID,
		Status:  target,
		Version: storedVersion,
	})
	if err != nil {
		l.log.Errorf("Failed to persist status change for order %s: %v", orderID, err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", entity.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	l.metrics.OrderTransitioned(string(from), string(target))
	l.log.Infof("Order %s moved from %s to %s", orderID, from, target)
	l.notify(ctx, entity.NewStatusChangedEvent(order, from, role))
	return order, nil
}

func (l *orderLedger) CreateOrder(ctx context.Context, params CreateOrderParams) (*entity.Order, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "OrderLedger.CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.buyer_id", params.BuyerID),
		attribute.String("order.product_id", params.Product.ID),
	)

	l.log.Infof("Creating order for buyer %s, product %s, quantity %d", params.BuyerID, params.Product.ID, params.Quantity)

	if !params.Product.IsAvailable() {
		err := fmt.Errorf("%w: product %s is %s", entity.ErrInvalidQuantity, params.Product.ID, params.Product.Status)
		l.log.Warnf("Cannot create order: %v", err)
		return nil, err
	}

	rate := l.defaultRate
	if params.BuyerProtectionFeeRate.Valid {
		rate = params.BuyerProtectionFeeRate.Decimal
	}

	order, err := entity.NewOrder(entity.NewOrderParams{
		BuyerID:                params.BuyerID,
		Product:                params.Product,
		SellerShopID:           params.SellerShopID,
		Quantity:               params.Quantity,
		ShippingFee:            params.ShippingFee,
		BuyerProtectionFeeRate: rate,
		ShippingAddress:        params.ShippingAddress,
	})
	if err != nil {
		l.log.Warnf("Invalid order for buyer %s: %v", params.BuyerID, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := l.orderRepo.PersistOrder(ctx, order); err != nil {
		l.log.Errorf("Failed to persist order for buyer %s: %v", params.BuyerID, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	l.metrics.OrderCreated()
	l.log.Infof("Order %s created for buyer %s, total %s", order.ID, order.BuyerID, order.TotalPrice.StringFixed(2))
	l.notify(ctx, entity.NewOrderCreatedEvent(order))
	return order, nil
}

func (l *orderLedger) notify(ctx context.Context, event entity.OrderEvent) {
	l.listenersMu.RLock()
	listeners := append([]TransitionListener(nil), l.listeners...)
	l.listenersMu.RUnlock()

	for _, listener := range listeners {
		if err := listener.OnOrderEvent(ctx, event); err != nil {
			l.log.Warnf("Order event listener failed for %s on order %s: %v", event.Type, event.OrderID, err)
		}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, entity.ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
