package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShippingNotifier_SendsOnlyWhenShipped(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository(memory.SeedDataset().Users)
	sender := new(MockEmailSender)
	notifier := NewShippingNotifier(users, sender, &NoOpLogger{})

	sender.On("Send", ctx, "buyer@example.com", "Your order order9 is on its way", mock.AnythingOfType("string")).Return(nil).Once()

	events := []entity.OrderEvent{
		{Type: entity.EventOrderCreated, OrderID: "order9", BuyerID: "user2", To: entity.StatusPendingPayment},
		{Type: entity.EventOrderStatusChanged, OrderID: "order9", BuyerID: "user2", From: entity.StatusPendingPayment, To: entity.StatusPaid},
		{Type: entity.EventOrderStatusChanged, OrderID: "order9", BuyerID: "user2", From: entity.StatusPaid, To: entity.StatusShipped},
		{Type: entity.EventOrderStatusChanged, OrderID: "order9", BuyerID: "user2", From: entity.StatusShipped, To: entity.StatusDelivered},
	}
	for _, e := range events {
		require.NoError(t, notifier.OnOrderEvent(ctx, e))
	}
	sender.AssertExpectations(t)
}

func TestShippingNotifier_Failures(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository(memory.SeedDataset().Users)
	sender := new(MockEmailSender)
	notifier := NewShippingNotifier(users, sender, &NoOpLogger{})

	shipped := entity.OrderEvent{Type: entity.EventOrderStatusChanged, OrderID: "order2", BuyerID: "ghost", To: entity.StatusShipped}
	assert.Error(t, notifier.OnOrderEvent(ctx, shipped))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	smtpDown := errors.New("dial tcp: connection refused")
	sender.On("Send", ctx, "buyer@example.com", mock.Anything, mock.Anything).Return(smtpDown).Once()
	shipped.BuyerID = "user2"
	assert.ErrorIs(t, notifier.OnOrderEvent(ctx, shipped), smtpDown)
}

func TestEventForwarder_PublishesOnEventTypeSubject(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockMessagePublisher)
	forwarder := NewEventForwarder(publisher)

	event := entity.OrderEvent{Type: entity.EventOrderStatusChanged, OrderID: "order2", To: entity.StatusDelivered}
	publisher.On("Publish", ctx, "order.status.updated", event).Return(nil).Once()

	require.NoError(t, forwarder.OnOrderEvent(ctx, event))
	publisher.AssertExpectations(t)
}
