package sink

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type otherEvent struct{}

func (otherEvent) RoomID() domain.RoomID { return "general" }

func appended(content string) event.MessageAppended {
	return event.MessageAppended{Message: domain.Message{RoomID: "general", Content: content}}
}

func TestChannelSink_Buffers_Messages_In_Order(t *testing.T) {
	req := require.New(t)
	s := NewChannelSink(2)
	ctx := context.Background()

	req.NoError(s.Consume(ctx, appended("first")))
	req.NoError(s.Consume(ctx, appended("second")))

	req.Equal("first", (<-s.Messages()).Content)
	req.Equal("second", (<-s.Messages()).Content)
}

func TestChannelSink_Full_Buffer_Reports_Backpressure(t *testing.T) {
	req := require.New(t)
	s := NewChannelSink(1)
	req.NoError(s.Consume(context.Background(), appended("first")))

	// When the buffer stays full past the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Consume(ctx, appended("second"))

	// Then the message is dropped for this reader only
	req.ErrorIs(err, errors.ErrSubscriberBackpressure)
	req.ErrorIs(err, context.DeadlineExceeded)
	req.Len(s.Messages(), 1)
}

func TestChannelSink_Ignores_Other_Events(t *testing.T) {
	req := require.New(t)
	s := NewChannelSink(1)

	req.NoError(s.Consume(context.Background(), otherEvent{}))
	req.Empty(s.Messages())
}

func TestChannelSink_Closed_Drops_Silently(t *testing.T) {
	req := require.New(t)
	s := NewChannelSink(1)

	s.Close()
	s.Close()

	req.NoError(s.Consume(context.Background(), appended("late")))
	req.Empty(s.Messages())
	<-s.Done()
}
