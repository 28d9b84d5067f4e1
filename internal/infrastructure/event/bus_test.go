package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegisteredEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	tx, err := ledger.NewTransaction(
		uuid.New(), uuid.New(), uuid.New(),
		ledger.TransactionTypeExpense,
		decimal.NewFromInt(42),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return ledger.NewTransactionRegisteredEvent(tx)
}

// recordingHandler implements EventHandler for testing
type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panics {
		panic("handler exploded")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers event to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newRecordingHandler(ledger.EventTypeTransactionRegistered)
		bus.Subscribe(handler)

		event := newRegisteredEvent(t)
		err := bus.Publish(context.Background(), event)

		require.NoError(t, err)
		require.Len(t, handler.getHandled(), 1)
		assert.Equal(t, event, handler.getHandled()[0])
	})

	t.Run("does not deliver events of other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newRecordingHandler(ledger.EventTypeTransactionDeleted)
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newRegisteredEvent(t))

		require.NoError(t, err)
		assert.Empty(t, handler.getHandled())
	})

	t.Run("delivers all events to wildcard handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newRecordingHandler()
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newRegisteredEvent(t)))
		require.NoError(t, bus.Publish(context.Background(), newRegisteredEvent(t)))

		assert.Len(t, handler.getHandled(), 2)
	})

	t.Run("handler error does not propagate to publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := newRecordingHandler(ledger.EventTypeTransactionRegistered)
		failing.err = errors.New("consumer down")
		healthy := newRecordingHandler(ledger.EventTypeTransactionRegistered)
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newRegisteredEvent(t))

		assert.NoError(t, err)
		assert.Len(t, healthy.getHandled(), 1)
	})

	t.Run("handler panic is isolated", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := newRecordingHandler(ledger.EventTypeTransactionRegistered)
		panicking.panics = true
		healthy := newRecordingHandler(ledger.EventTypeTransactionRegistered)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newRegisteredEvent(t))
		})
		assert.Len(t, healthy.getHandled(), 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newRecordingHandler(ledger.EventTypeTransactionRegistered)
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newRegisteredEvent(t)))

	assert.Empty(t, handler.getHandled())
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("counts handlers across types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		registry.Register(newRecordingHandler(), // wildcard
		)
		registry.Register(newRecordingHandler(ledger.EventTypeTransactionRegistered), ledger.EventTypeTransactionRegistered)

		assert.Equal(t, 2, registry.HandlerCount())
	})

	t.Run("unregister removes handler everywhere", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newRecordingHandler(ledger.EventTypeTransactionRegistered, ledger.EventTypeTransactionDeleted)
		registry.Register(handler, ledger.EventTypeTransactionRegistered, ledger.EventTypeTransactionDeleted)

		registry.Unregister(handler)

		assert.Empty(t, registry.GetHandlers(ledger.EventTypeTransactionRegistered))
		assert.Empty(t, registry.GetHandlers(ledger.EventTypeTransactionDeleted))
	})
}
