package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// ChatService is the send and read path of the chat core.
type ChatService struct {
	log         *slog.Logger
	rooms       contract.IRoomRegistry
	messages    contract.IMessageLog
	attachments contract.IAttachmentStore
	broadcaster contract.IBroadcaster
}

func NewChatService(log *slog.Logger, rooms contract.IRoomRegistry, messages contract.IMessageLog,
	attachments contract.IAttachmentStore, broadcaster contract.IBroadcaster) *ChatService {
	return &ChatService{
		log:         log,
		rooms:       rooms,
		messages:    messages,
		attachments: attachments,
		broadcaster: broadcaster,
	}
}

// SendMessage runs the send pipeline, each step only after the previous one succeeded:
//  1. resolve the room (not found)
//  2. check the sender is a member (forbidden)
//  3. require non-blank content or a non-empty attachment (validation)
//  4. upload the attachment if any (storage)
//  5. append to the message log
//  6. publish to live listeners, fire and forget
//
// An attachment uploaded in step 4 is left in place if step 5 fails.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	if _, err := s.rooms.GetRoom(ctx, cmd.SenderID, cmd.RoomID()); err != nil {
		return domain.Message{}, err
	}

	if !cmd.HasPayload() {
		return domain.Message{}, errors.Validation("SendMessage", "either message content or an attachment must be provided")
	}

	var attachmentRef *string
	if !cmd.Attachment.IsEmpty() {
		ref, err := s.attachments.Upload(ctx, cmd.Attachment.Data, cmd.Attachment.Filename)
		if err != nil {
			if errors.KindOf(err) != errors.KindStorage {
				err = errors.Storage("SendMessage", err)
			}
			return domain.Message{}, err
		}
		attachmentRef = lo.ToPtr(ref)
	}

	message, err := s.messages.Append(ctx, domain.Message{
		SenderID:      cmd.SenderID,
		RoomID:        cmd.RoomID(),
		Content:       cmd.Content,
		AttachmentRef: attachmentRef,
	})
	if err != nil {
		if attachmentRef != nil {
			s.log.Warn("Append failed after upload, attachment orphaned",
				"room_id", cmd.RoomID(), "attachment", *attachmentRef, "error", err)
		}
		return domain.Message{}, err
	}

	// A full queue is already reported by the broadcaster.
	if err = s.broadcaster.Publish(message.RoomID, message); err != nil && !errors.Is(err, errors.ErrPublishQueueFull) {
		s.log.Warn("Publish failed", "room_id", message.RoomID, "message_id", message.ID, "error", err)
	}
	return message, nil
}

// ListMessages returns the room history, in sequence order, to a member.
func (s *ChatService) ListMessages(ctx context.Context, cmd domain.GetMessagesCommand) ([]domain.Message, error) {
	if _, err := s.rooms.GetRoom(ctx, cmd.CallerID, cmd.RoomID()); err != nil {
		return nil, err
	}
	return s.messages.List(ctx, cmd.RoomID())
}

// GetMessage returns a single message to a member of its room.
func (s *ChatService) GetMessage(ctx context.Context, callerID domain.UserID, id domain.MessageID) (domain.Message, error) {
	message, err := s.messages.Get(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}
	if !s.rooms.IsMember(ctx, callerID, message.RoomID) {
		return domain.Message{}, errors.Forbidden("GetMessage", "user is not a member of this room")
	}
	return message, nil
}

// Subscribe attaches a live listener to a room after checking membership.
func (s *ChatService) Subscribe(ctx context.Context, callerID domain.UserID, roomID domain.RoomID,
	sink contract.EventSink) (contract.Subscription, error) {
	if _, err := s.rooms.GetRoom(ctx, callerID, roomID); err != nil {
		return nil, err
	}
	return s.broadcaster.Subscribe(roomID, sink), nil
}
