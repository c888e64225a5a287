// Package domain contains core concepts of the chat system.
// This file defines Message records and their payload rule.
// Messages are immutable once appended to the log.
package domain

import (
	"strings"
	"time"
)

type MessageID string

// Message represents an immutable chat record scoped to one room.
type Message struct {
	ID            MessageID
	SenderID      UserID
	RoomID        RoomID
	Content       string
	AttachmentRef *string
	Sequence      int64 // per-room order, assigned by the message log
	Timestamp     time.Time
}

// HasPayload reports whether the message carries non-blank text or an attachment.
func (m Message) HasPayload() bool {
	return strings.TrimSpace(m.Content) != "" || HasAttachmentRef(m.AttachmentRef)
}

func HasAttachmentRef(ref *string) bool {
	return ref != nil && *ref != ""
}
