package sink

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func appendedAt(id domain.MessageID, seq int64) event.MessageAppended {
	return event.MessageAppended{Message: domain.Message{ID: id, RoomID: "r1", Sequence: seq}}
}

func TestTimeline_Orders_And_Deduplicates(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	timeline := NewTimeline("alice")

	// Given events delivered out of order with one duplicate
	for _, e := range []event.MessageAppended{appendedAt("m3", 3), appendedAt("m1", 1), appendedAt("m2", 2), appendedAt("m1", 1)} {
		req.NoError(timeline.Consume(ctx, e))
	}

	// Then the timeline holds each message once, sorted by sequence
	req.Equal(3, timeline.Len())
	req.Equal([]domain.MessageID{"m1", "m2", "m3"},
		lo.Map(timeline.Messages(), func(m domain.Message, _ int) domain.MessageID { return m.ID }))
	req.Equal(domain.UserID("alice"), timeline.Owner())
}
