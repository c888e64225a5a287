package http

import (
	"bytes"
	"chat-rooms/domain"
	"chat-rooms/errors"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// formValue reads a field from the request body first, then from the query string.
func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

// formValues accepts both repeated fields and comma separated lists.
func formValues(c *gin.Context, key string) []string {
	raw, ok := c.GetPostFormArray(key)
	if !ok {
		raw = c.QueryArray(key)
	}
	return lo.FlatMap(raw, func(v string, _ int) []string {
		return strings.Split(v, ",")
	})
}

// callerID is the trusted identity of the request. A missing id falls back
// to the configured default user.
func (h *handler) callerID(c *gin.Context) domain.UserID {
	if id := strings.TrimSpace(formValue(c, "userId")); id != "" {
		return domain.UserID(id)
	}
	return h.cfg.DefaultUserID
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.abortWithError(c, errors.Validation("CreateUser", "username is required"))
		return
	}
	user, err := h.deps.Users.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *handler) getUser(c *gin.Context) {
	user, err := h.deps.Users.GetUser(c.Request.Context(), domain.UserID(c.Param("userId")))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.deps.Users.ListUsers(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(users, func(u domain.User, _ int) UserResponse { return toUserResponse(u) }))
}

// createRoom adds the caller to the member list.
func (h *handler) createRoom(c *gin.Context) {
	creator := h.callerID(c)
	members := lo.Map(formValues(c, "members"), func(id string, _ int) domain.UserID { return domain.UserID(id) })
	members = append(members, creator)

	room, err := h.deps.Rooms.CreateRoom(c.Request.Context(), formValue(c, "roomName"), members)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRoomResponse(room))
}

func (h *handler) getRoom(c *gin.Context) {
	room, err := h.deps.Rooms.GetRoom(c.Request.Context(), h.callerID(c), domain.RoomID(c.Param("roomId")))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h *handler) listRoomsForUser(c *gin.Context) {
	rooms, err := h.deps.Rooms.ListRoomsForUser(c.Request.Context(), h.callerID(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponses(rooms))
}

func (h *handler) listAllRooms(c *gin.Context) {
	rooms, err := h.deps.Rooms.ListAllRooms(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponses(rooms))
}

func (h *handler) membershipSummary(c *gin.Context) {
	summary, err := h.deps.Rooms.MembershipSummary(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// sendMessage checks the room and the sender's membership before the
// attachment part is read.
func (h *handler) sendMessage(c *gin.Context) {
	roomID := domain.RoomID(strings.TrimSpace(formValue(c, "roomId")))
	sender := h.callerID(c)
	if _, err := h.deps.Rooms.GetRoom(c.Request.Context(), sender, roomID); err != nil {
		h.abortWithError(c, err)
		return
	}
	attachment, err := h.readAttachment(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	cmd := domain.SendMessageCommand{
		Room:       roomID,
		SenderID:   sender,
		Content:    formValue(c, "content"),
		Attachment: attachment,
	}
	message, err := h.deps.Chat.SendMessage(c.Request.Context(), cmd)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(message))
}

// readAttachment looks for the "image" part, then "attachment".
// No part at all is not an error, the pipeline decides whether text is enough.
func (h *handler) readAttachment(c *gin.Context) (*domain.Attachment, error) {
	for _, field := range []string{"image", "attachment"} {
		header, err := c.FormFile(field)
		if stderrors.Is(err, http.ErrMissingFile) || stderrors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return nil, errors.Validation("SendMessage", fmt.Sprintf("unreadable %s part", field))
		}
		if h.cfg.MaxUploadSize > 0 && header.Size > h.cfg.MaxUploadSize {
			return nil, errors.Validation("SendMessage", "attachment too large")
		}
		file, err := header.Open()
		if err != nil {
			return nil, errors.Validation("SendMessage", fmt.Sprintf("unreadable %s part", field))
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, errors.Validation("SendMessage", fmt.Sprintf("unreadable %s part", field))
		}
		return &domain.Attachment{Filename: header.Filename, Data: data}, nil
	}
	return nil, nil
}

func (h *handler) listMessages(c *gin.Context) {
	messages, err := h.deps.Chat.ListMessages(c.Request.Context(), domain.GetMessagesCommand{
		Room:     domain.RoomID(c.Param("roomId")),
		CallerID: h.callerID(c),
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponses(messages))
}

func (h *handler) getMessage(c *gin.Context) {
	message, err := h.deps.Chat.GetMessage(c.Request.Context(), h.callerID(c), domain.MessageID(c.Param("messageId")))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponse(message))
}

func (h *handler) downloadAttachment(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.deps.Attachments.Download(c.Request.Context(), c.Param("ref"), &buf)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	c.Data(http.StatusOK, mimetype.Detect(buf.Bytes()).String(), buf.Bytes())
}
