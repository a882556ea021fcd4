package service

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
)

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ShippingNotifier e-mails the buyer once the seller marks an order as shipped.
type ShippingNotifier struct {
	userRepo repository.UserRepository
	sender   EmailSender
	log      logger.Logger
}

func NewShippingNotifier(userRepo repository.UserRepository, sender EmailSender, log logger.Logger) *ShippingNotifier {
	return &ShippingNotifier{userRepo: userRepo, sender: sender, log: log}
}

func (n *ShippingNotifier) OnOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	if event.Type != entity.EventOrderStatusChanged || event.To != entity.StatusShipped {
		return nil
	}
	buyer, err := n.userRepo.GetByID(ctx, event.BuyerID)
	if err != nil {
		return fmt.Errorf("shipping notification for order %s: %w", event.OrderID, err)
	}

	subject := fmt.Sprintf("Your order %s is on its way", event.OrderID)
	body := fmt.Sprintf(
		"<p>Good news! The seller has shipped your order <b>%s</b>.</p><p>Once it arrives, confirm receipt in your orders page so the seller can be paid.</p>",
		event.OrderID,
	)
	if err := n.sender.Send(ctx, buyer.Email, subject, body); err != nil {
		return fmt.Errorf("shipping notification for order %s: %w", event.OrderID, err)
	}
	n.log.Infof("Shipping notification sent to buyer %s for order %s", buyer.ID, event.OrderID)
	return nil
}

// EventForwarder republishes order events on the message bus, one subject per
// event type.
type EventForwarder struct {
	publisher MessagePublisher
}

func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{publisher: publisher}
}

func (f *EventForwarder) OnOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	return f.publisher.Publish(ctx, string(event.Type), event)
}
