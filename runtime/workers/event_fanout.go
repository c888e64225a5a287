package workers

import (
	"chat-rooms/contract"
	"chat-rooms/domain/event"
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventFanout broadcasts domain events to the live listeners of their room.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. EventFanout is not a message broker: a listener
// that is not registered when the event is handled never sees it.
//
// Each event is handed to all of its sinks concurrently, and the next event
// waits for the current one, so a given sink observes events in publish order.
// A sink slower than sinkTimeout is abandoned for that event.
type EventFanout struct {
	log         *slog.Logger
	registry    contract.IRegistry
	events      <-chan event.DomainEvent
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	events <-chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:         log,
		registry:    registry,
		events:      events,
		sinkTimeout: sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout delivers one event to every sink of its room.
// Zero listeners is a no-op.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := w.registry.GetSinksForRoom(evt.RoomID())
	if len(sinks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func(s contract.EventSink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := s.Consume(sinkCtx, evt); err != nil {
				w.log.Debug("Event not delivered", "room_id", evt.RoomID(), "error", err)
			}
		}(sink)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * w.sinkTimeout):
		// Sinks ignoring their context are left behind.
		w.log.Warn("Sink did not return in time", "room_id", evt.RoomID())
	}
}
