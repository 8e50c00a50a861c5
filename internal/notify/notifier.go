package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/joao-fontenele/productflow/internal/domain"
	"github.com/joao-fontenele/productflow/internal/messaging"
)

// Notifier publishes order lifecycle events. Implementations must not block
// order processing on subscriber delivery.
type Notifier interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
	OrderStatusUpdated(ctx context.Context, order *domain.Order) error
}

// HubNotifier publishes to the in-process hub: once to the all-orders topic
// and once to the topic scoped to the order's current status.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) OrderCreated(_ context.Context, order *domain.Order) error {
	n.publish(Event{Name: domain.EventOrderCreated, Order: order})
	return nil
}

func (n *HubNotifier) OrderStatusUpdated(_ context.Context, order *domain.Order) error {
	n.publish(Event{Name: domain.EventOrderStatusUpdated, Order: order})
	return nil
}

func (n *HubNotifier) publish(event Event) {
	n.hub.Publish(TopicAllOrders, event)
	n.hub.Publish(StatusTopic(event.Order.Status), event)
}

// KafkaNotifier mirrors order events onto Kafka for out-of-process consumers
// such as the confirmation-email worker. Messages are keyed by order id so
// events for one order stay in partition order.
type KafkaNotifier struct {
	producer *messaging.Producer
}

func NewKafkaNotifier(producer *messaging.Producer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) OrderCreated(ctx context.Context, order *domain.Order) error {
	event := domain.OrderCreatedEvent{Order: order, Timestamp: time.Now().UTC()}
	return n.producer.Publish(ctx, messaging.TopicOrderCreated, order.ID, event)
}

func (n *KafkaNotifier) OrderStatusUpdated(ctx context.Context, order *domain.Order) error {
	event := domain.OrderStatusUpdatedEvent{Order: order, Timestamp: time.Now().UTC()}
	return n.producer.Publish(ctx, messaging.TopicOrderStatusUpdated, order.ID, event)
}

// Broadcaster fans out to several notifiers. Publication is fire-and-forget:
// failures are logged and never surfaced to the order workflow.
type Broadcaster struct {
	notifiers []Notifier
	logger    *slog.Logger
}

func NewBroadcaster(logger *slog.Logger, notifiers ...Notifier) *Broadcaster {
	return &Broadcaster{
		notifiers: notifiers,
		logger:    logger,
	}
}

func (b *Broadcaster) OrderCreated(ctx context.Context, order *domain.Order) error {
	for _, n := range b.notifiers {
		if err := n.OrderCreated(ctx, order); err != nil {
			b.logger.Error("failed to publish order created event",
				"error", err, "order_id", order.ID)
		}
	}
	return nil
}

func (b *Broadcaster) OrderStatusUpdated(ctx context.Context, order *domain.Order) error {
	for _, n := range b.notifiers {
		if err := n.OrderStatusUpdated(ctx, order); err != nil {
			b.logger.Error("failed to publish order status updated event",
				"error", err, "order_id", order.ID)
		}
	}
	return nil
}
