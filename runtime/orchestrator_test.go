package runtime_test

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/mocks"
	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/sink"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type RecordingSink struct {
	events chan event.DomainEvent
}

func (s *RecordingSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func startOrchestrator(t *testing.T, bufferSize int) *runtime.Orchestrator {
	t.Helper()
	log := slog.Default()
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 0), runtime.NewRegistry(), bufferSize, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		orchestrator.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return orchestrator
}

func Test_Orchestrator_Delivers_To_Room_Listeners_Only(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t, 10)

	general := &RecordingSink{events: make(chan event.DomainEvent, 1)}
	dev := &RecordingSink{events: make(chan event.DomainEvent, 1)}
	orchestrator.Subscribe("general", general)
	orchestrator.Subscribe("dev", dev)

	// When a message is published in general
	msg := domain.Message{ID: "m1", SenderID: "alice", Content: "hello world", Sequence: 1}
	req.NoError(orchestrator.Publish("general", msg))

	// Then only the general listener receives it
	select {
	case evt := <-general.events:
		appended, ok := evt.(event.MessageAppended)
		req.True(ok, "event should be MessageAppended")
		req.Equal(domain.MessageID("m1"), appended.Message.ID)
		req.Equal(domain.RoomID("general"), appended.RoomID())
	case <-time.After(time.Second):
		req.Fail("general listener did not receive the message")
	}
	select {
	case <-dev.events:
		req.Fail("dev listener must not receive a general message")
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_Orchestrator_Unsubscribed_Listener_Gets_Nothing(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t, 10)

	sink := &RecordingSink{events: make(chan event.DomainEvent, 1)}
	sub := orchestrator.Subscribe("general", sink)
	sub.Unsubscribe()
	sub.Unsubscribe()

	req.NoError(orchestrator.Publish("general", domain.Message{ID: "m1", Content: "hi"}))

	select {
	case <-sink.events:
		req.Fail("unsubscribed listener received a message")
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_Orchestrator_Publish_Without_Listener_Is_Noop(t *testing.T) {
	orchestrator := startOrchestrator(t, 10)
	require.NoError(t, orchestrator.Publish("empty", domain.Message{ID: "m1", Content: "hi"}))
}

func Test_Orchestrator_Publish_Never_Blocks_When_Queue_Full(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Given nobody drains the queue
	orchestrator := runtime.NewOrchestrator(slog.Default(), mocks.NewMockISupervisor(ctrl),
		mocks.NewMockIRegistry(ctrl), 1, time.Second)

	req.NoError(orchestrator.Publish("general", domain.Message{ID: "m1", Content: "one"}))

	// When the queue is full
	err := orchestrator.Publish("general", domain.Message{ID: "m2", Content: "two"})

	// Then publish returns immediately with a dedicated error
	req.ErrorIs(err, errors.ErrPublishQueueFull)
}

func Test_Orchestrator_Start_Registers_Fanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	supervisor := mocks.NewMockISupervisor(ctrl)
	orchestrator := runtime.NewOrchestrator(slog.Default(), supervisor, runtime.NewRegistry(), 1, time.Second)

	supervisor.EXPECT().Add(gomock.AssignableToTypeOf(&workers.EventFanout{})).Return(supervisor).Times(1)
	supervisor.EXPECT().Run(gomock.Any()).Times(1)

	orchestrator.Start(context.Background())
}

func Test_Orchestrator_Timeline_Follows_Room(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t, 64)

	// Given a timeline listening on general
	timeline := sink.NewTimeline("bob")
	orchestrator.Subscribe("general", timeline)

	// When twenty messages are published
	for i := int64(1); i <= 20; i++ {
		msg := domain.Message{ID: domain.MessageID(fmt.Sprintf("m%d", i)), Content: "x", Sequence: i}
		req.NoError(orchestrator.Publish("general", msg))
	}

	// Then the timeline ends up with all of them in sequence order
	req.Eventually(func() bool { return timeline.Len() == 20 }, 2*time.Second, 10*time.Millisecond)
	for i, m := range timeline.Messages() {
		req.Equal(int64(i+1), m.Sequence)
	}
}

var _ contract.IBroadcaster = (*runtime.Orchestrator)(nil)
