// Package runtime handles event propagation to live listeners.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Orchestrator is the broadcaster of the chat core.
// Publish only enqueues a MessageAppended event; the EventFanout worker,
// running under the supervisor, drains the queue and delivers it.
type Orchestrator struct {
	log         *slog.Logger
	supervisor  contract.ISupervisor
	registry    contract.IRegistry
	events      chan event.DomainEvent
	sinkTimeout time.Duration

	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// WithQueueMonitoring samples the publish queue every interval once started.
func (o *Orchestrator) WithQueueMonitoring(interval time.Duration, lowCapacityThreshold int) *Orchestrator {
	o.metricInterval = interval
	o.lowCapacityThreshold = lowCapacityThreshold
	return o
}

type subscription struct {
	id       contract.SubscriberID
	roomID   domain.RoomID
	registry contract.IRegistry
	once     sync.Once
}

func (s *subscription) ID() contract.SubscriberID { return s.id }

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.registry.Unsubscribe(s.id, s.roomID)
	})
}

// Subscribe registers a live listener for a room.
// Membership is not checked here, callers do it before subscribing.
func (o *Orchestrator) Subscribe(roomID domain.RoomID, sink contract.EventSink) contract.Subscription {
	id := contract.SubscriberID(uuid.NewString())
	o.registry.Subscribe(id, roomID, sink)
	o.log.Debug("Listener subscribed", "room_id", roomID, "subscriber_id", id)
	return &subscription{id: id, roomID: roomID, registry: o.registry}
}

// Publish never blocks. A full queue drops the event and reports ErrPublishQueueFull.
func (o *Orchestrator) Publish(roomID domain.RoomID, message domain.Message) error {
	message.RoomID = roomID
	evt := event.MessageAppended{Message: message, At: time.Now().UTC()}
	select {
	case o.events <- evt:
		return nil
	default:
		o.log.Warn("Publish queue full, dropping event", "room_id", roomID, "message_id", message.ID)
		return errors.ErrPublishQueueFull
	}
}

// Start registers the workers and blocks until the supervisor stops.
func (o *Orchestrator) Start(ctx context.Context) {
	fanout := workers.NewEventFanout(o.log, o.registry, o.events, o.sinkTimeout)
	o.supervisor.Add(fanout)
	if o.metricInterval > 0 {
		o.supervisor.Add(workers.NewChannelCapacityWorker(o.log,
			[]workers.NamedChannel{{Name: "publish", Channel: o.events}},
			o.metricInterval, o.lowCapacityThreshold))
	}

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
}

// Stop cancels the supervised context; Start returns once workers are done.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
