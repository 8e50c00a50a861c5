package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/joao-fontenele/productflow/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder(id string) *domain.Order {
	return &domain.Order{ID: id, Status: domain.OrderStatusPending}
}

func receivedEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.Events():
		return event
	default:
		t.Fatal("expected a buffered event")
		return Event{}
	}
}

func requireNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case event := <-client.Events():
		t.Fatalf("unexpected event %q for order %s", event.Name, event.Order.ID)
	default:
	}
}

func TestHub(t *testing.T) {
	t.Run("delivers to joined clients only", func(t *testing.T) {
		hub := NewHub(testLogger())
		subscribed := NewClient(4)
		other := NewClient(4)
		hub.Join(TopicAllOrders, subscribed)

		hub.Publish(TopicAllOrders, Event{Name: domain.EventOrderCreated, Order: pendingOrder("order-1")})

		event := receivedEvent(t, subscribed)
		if event.Name != domain.EventOrderCreated {
			t.Errorf("event = %q, want %q", event.Name, domain.EventOrderCreated)
		}
		requireNoEvent(t, other)
	})

	t.Run("status topics are scoped", func(t *testing.T) {
		hub := NewHub(testLogger())
		pending := NewClient(4)
		shipped := NewClient(4)
		hub.Join(StatusTopic(domain.OrderStatusPending), pending)
		hub.Join(StatusTopic(domain.OrderStatusShipped), shipped)

		hub.Publish(StatusTopic(domain.OrderStatusPending),
			Event{Name: domain.EventOrderCreated, Order: pendingOrder("order-1")})

		receivedEvent(t, pending)
		requireNoEvent(t, shipped)
	})

	t.Run("leave stops delivery", func(t *testing.T) {
		hub := NewHub(testLogger())
		client := NewClient(4)
		hub.Join(TopicAllOrders, client)
		hub.Leave(TopicAllOrders, client)

		hub.Publish(TopicAllOrders, Event{Name: domain.EventOrderCreated, Order: pendingOrder("order-1")})

		requireNoEvent(t, client)
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		hub := NewHub(testLogger())
		client := NewClient(1)
		hub.Join(TopicAllOrders, client)

		hub.Publish(TopicAllOrders, Event{Name: domain.EventOrderCreated, Order: pendingOrder("order-1")})
		hub.Publish(TopicAllOrders, Event{Name: domain.EventOrderCreated, Order: pendingOrder("order-2")})

		event := receivedEvent(t, client)
		if event.Order.ID != "order-1" {
			t.Errorf("order id = %q, want order-1", event.Order.ID)
		}
		requireNoEvent(t, client)
	})

	t.Run("remove closes the event channel", func(t *testing.T) {
		hub := NewHub(testLogger())
		client := NewClient(4)
		hub.Join(TopicAllOrders, client)
		hub.Join(StatusTopic(domain.OrderStatusPending), client)

		hub.Remove(client)

		if _, open := <-client.Events(); open {
			t.Error("expected event channel to be closed")
		}

		// Publishing after removal must not panic on the closed channel.
		hub.Publish(TopicAllOrders, Event{Name: domain.EventOrderCreated, Order: pendingOrder("order-1")})
	})
}

func TestHubNotifier(t *testing.T) {
	t.Run("created event reaches all-orders and the status topic", func(t *testing.T) {
		hub := NewHub(testLogger())
		all := NewClient(4)
		byStatus := NewClient(4)
		hub.Join(TopicAllOrders, all)
		hub.Join(StatusTopic(domain.OrderStatusPending), byStatus)

		notifier := NewHubNotifier(hub)
		if err := notifier.OrderCreated(context.Background(), pendingOrder("order-1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if event := receivedEvent(t, all); event.Name != domain.EventOrderCreated {
			t.Errorf("event = %q, want %q", event.Name, domain.EventOrderCreated)
		}
		receivedEvent(t, byStatus)
	})

	t.Run("status update is scoped to the new status", func(t *testing.T) {
		hub := NewHub(testLogger())
		pendingTopic := NewClient(4)
		shippedTopic := NewClient(4)
		hub.Join(StatusTopic(domain.OrderStatusPending), pendingTopic)
		hub.Join(StatusTopic(domain.OrderStatusShipped), shippedTopic)

		order := pendingOrder("order-1")
		order.Status = domain.OrderStatusShipped

		notifier := NewHubNotifier(hub)
		if err := notifier.OrderStatusUpdated(context.Background(), order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if event := receivedEvent(t, shippedTopic); event.Name != domain.EventOrderStatusUpdated {
			t.Errorf("event = %q, want %q", event.Name, domain.EventOrderStatusUpdated)
		}
		requireNoEvent(t, pendingTopic)
	})
}
