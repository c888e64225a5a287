//go:generate go run go.uber.org/mock/mockgen -source=runtime.go -destination=../mocks/mock_runtime.go -package=mocks
package contract

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type SubscriberID string

// IRegistry keeps the live listeners of each room.
type IRegistry interface {
	GetSinksForRoom(roomID domain.RoomID) []EventSink
	Subscribe(subscriberID SubscriberID, roomID domain.RoomID, sink EventSink)
	Unsubscribe(subscriberID SubscriberID, roomID domain.RoomID)
}

type Subscription interface {
	ID() SubscriberID
	Unsubscribe()
}

// IBroadcaster is the real-time channel of the core.
// Publish never blocks and never fails because nobody is listening.
type IBroadcaster interface {
	Subscribe(roomID domain.RoomID, sink EventSink) Subscription
	Publish(roomID domain.RoomID, message domain.Message) error
}
