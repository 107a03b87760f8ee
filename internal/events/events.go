package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Event represents a domain event
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() int64
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
}

func (e *BaseEvent) GetEventID() string      { return e.EventID }
func (e *BaseEvent) GetEventType() string    { return e.EventType }
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e *BaseEvent) GetUserID() int64        { return e.UserID }

// GenerateEventID returns a fresh event id.
func GenerateEventID() string {
	if id, err := uuid.NewV4(); err == nil {
		return id.String()
	}
	return fmt.Sprintf("evt-%d", time.Now().UnixNano())
}

// EventHandler handles one event type.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc struct {
	ID   string
	Func func(ctx context.Context, event Event) error
}

func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error { return f.Func(ctx, event) }
func (f EventHandlerFunc) GetHandlerID() string                          { return f.ID }

// EventBus publishes domain events to subscribed handlers. Async delivery
// is at-least-once from the subscriber's perspective: handlers must be
// idempotent.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event) error
	Subscribe(eventType string, handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type eventMessage struct {
	ctx   context.Context
	event Event
}

// EventBusConfig holds configuration for the event bus
type EventBusConfig struct {
	BufferSize     int           `json:"buffer_size"`
	WorkerCount    int           `json:"worker_count"`
	HandlerTimeout time.Duration `json:"handler_timeout"`
}

// DefaultEventBusConfig returns default configuration
func DefaultEventBusConfig() *EventBusConfig {
	return &EventBusConfig{
		BufferSize:     1000,
		WorkerCount:    5,
		HandlerTimeout: 30 * time.Second,
	}
}

// inMemoryEventBus implements EventBus with a buffered queue and a fixed
// worker pool.
type inMemoryEventBus struct {
	mu             sync.RWMutex
	handlers       map[string][]EventHandler
	queue          chan eventMessage
	logger         *zap.Logger
	workerCount    int
	handlerTimeout time.Duration
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	started        bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(config *EventBusConfig, logger *zap.Logger) EventBus {
	if config == nil {
		config = DefaultEventBusConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryEventBus{
		handlers:       make(map[string][]EventHandler),
		queue:          make(chan eventMessage, config.BufferSize),
		logger:         logger,
		workerCount:    config.WorkerCount,
		handlerTimeout: config.HandlerTimeout,
	}
}

// Publish delivers the event to all handlers synchronously.
func (b *inMemoryEventBus) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	return b.dispatch(ctx, event)
}

// PublishAsync enqueues the event for the worker pool. The queue being
// full is an error rather than a silent drop.
func (b *inMemoryEventBus) PublishAsync(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	select {
	case b.queue <- eventMessage{ctx: ctx, event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("event queue is full")
	}
}

// Subscribe registers a handler for eventType.
func (b *inMemoryEventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("Event handler subscribed",
		zap.String("event_type", eventType),
		zap.String("handler_id", handler.GetHandlerID()),
	)
}

// Start launches the worker pool for async delivery.
func (b *inMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return fmt.Errorf("event bus already started")
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.started = true

	for i := 0; i < b.workerCount; i++ {
		b.wg.Add(1)
		go b.worker(workerCtx)
	}

	b.logger.Info("Event bus started", zap.Int("workers", b.workerCount))
	return nil
}

// Stop drains the workers. Queued events that have not been picked up are
// dropped; the subscribers' idempotence makes re-triggering safe.
func (b *inMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = false
	b.cancel()
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *inMemoryEventBus) worker(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.queue:
			if err := b.dispatch(msg.ctx, msg.event); err != nil {
				b.logger.Error("Async event processing failed",
					zap.String("event_id", msg.event.GetEventID()),
					zap.String("event_type", msg.event.GetEventType()),
					zap.Error(err),
				)
			}
		}
	}
}

func (b *inMemoryEventBus) dispatch(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers[event.GetEventType()]))
	copy(handlers, b.handlers[event.GetEventType()])
	b.mu.RUnlock()

	for _, h := range handlers {
		handlerCtx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
		err := h.Handle(handlerCtx, event)
		cancel()
		if err != nil {
			b.logger.Error("Event handler failed",
				zap.String("event_type", event.GetEventType()),
				zap.String("handler_id", h.GetHandlerID()),
				zap.Error(err),
			)
			// Other handlers still run; a bad subscriber must not
			// starve the rest.
		}
	}
	return nil
}
