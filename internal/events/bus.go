package events

import (
	"fmt"
	"sync"

	eventbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	Publish(topic string, data interface{}) error
	Subscribe(topic string, handler interface{}) error
	Unsubscribe(topic string, handler interface{}) error
	Close() error
}

// eventBus wraps the EventBus library with logging, shutdown handling
// and per-topic publish counters
type eventBus struct {
	bus      eventbus.Bus
	logger   *zap.Logger
	mu       sync.RWMutex
	closed   bool
	countsMu sync.Mutex
	counts   map[string]int64
}

// NewEventBus creates a new event bus instance
func NewEventBus(logger *zap.Logger) EventBus {
	return &eventBus{
		bus:    eventbus.New(),
		logger: logger,
		counts: make(map[string]int64),
	}
}

// Publish publishes an event to the specified topic
func (eb *eventBus) Publish(topic string, data interface{}) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return fmt.Errorf("event bus is closed")
	}

	eb.logger.Debug("Publishing event",
		zap.String("topic", topic),
		zap.Any("data", data))

	eb.countsMu.Lock()
	eb.counts[topic]++
	eb.countsMu.Unlock()

	eb.bus.Publish(topic, data)
	return nil
}

// Subscribe subscribes to events on the specified topic
func (eb *eventBus) Subscribe(topic string, handler interface{}) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return fmt.Errorf("event bus is closed")
	}

	eb.logger.Debug("Subscribing to topic", zap.String("topic", topic))

	return eb.bus.Subscribe(topic, handler)
}

// Unsubscribe unsubscribes from events on the specified topic
func (eb *eventBus) Unsubscribe(topic string, handler interface{}) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return fmt.Errorf("event bus is closed")
	}

	eb.logger.Debug("Unsubscribing from topic", zap.String("topic", topic))

	return eb.bus.Unsubscribe(topic, handler)
}

// PublishedCount returns how many events were published on a topic
// since the bus was created.
func (eb *eventBus) PublishedCount(topic string) int64 {
	eb.countsMu.Lock()
	defer eb.countsMu.Unlock()
	return eb.counts[topic]
}

// Close gracefully shuts down the event bus. Outstanding asynchronous
// handlers are waited for before Close returns.
func (eb *eventBus) Close() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return nil
	}

	eb.countsMu.Lock()
	var total int64
	for _, c := range eb.counts {
		total += c
	}
	eb.countsMu.Unlock()

	eb.logger.Info("Closing event bus", zap.Int64("events_published", total))
	eb.closed = true
	eb.bus.WaitAsync()

	return nil
}
