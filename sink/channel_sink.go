package sink

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"context"
	"fmt"
	"sync"
)

// ChannelSink buffers the messages of one live connection.
// The connection drains Messages; Consume gives up when the buffer stays
// full until the fanout deadline, so a slow reader only loses its own messages.
type ChannelSink struct {
	messages chan domain.Message
	closed   chan struct{}
	once     sync.Once
}

func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{
		messages: make(chan domain.Message, bufferSize),
		closed:   make(chan struct{}),
	}
}

func (s *ChannelSink) Consume(ctx context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessageAppended)
	if !ok {
		return nil
	}
	select {
	case <-s.closed:
		return nil
	default:
	}
	select {
	case s.messages <- evt.Message:
		return nil
	case <-s.closed:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errors.ErrSubscriberBackpressure, ctx.Err())
	}
}

func (s *ChannelSink) Messages() <-chan domain.Message {
	return s.messages
}

// Done is closed once the sink stops accepting messages.
func (s *ChannelSink) Done() <-chan struct{} {
	return s.closed
}

func (s *ChannelSink) Close() {
	s.once.Do(func() { close(s.closed) })
}
