package http

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/sink"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// liveFeed streams every message appended to a room after the handshake.
// Membership is checked before the upgrade so rejections keep their status code.
func (h *handler) liveFeed(c *gin.Context) {
	caller := h.callerID(c)
	roomID := domain.RoomID(c.Param("roomId"))
	feed := sink.NewChannelSink(h.cfg.WSBufferSize)

	// The subscription outlives the request context once the connection is hijacked.
	subscription, err := h.deps.Chat.Subscribe(c.Request.Context(), caller, roomID, feed)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		subscription.Unsubscribe()
		feed.Close()
		h.log.Warn("Websocket upgrade failed", "room_id", roomID, "user_id", caller, "error", err)
		return
	}

	log := h.log.With("room_id", roomID, "user_id", caller, "subscriber_id", subscription.ID())
	log.Info("Live feed opened")

	ctx, cancel := context.WithCancel(context.Background())
	go writePump(ctx, log, conn, feed, h.cfg.WSWriteTimeout)
	go func() {
		defer log.Info("Live feed closed")
		defer cancel()
		defer closeFeed(conn, feed, subscription)
		readPump(conn)
	}()
}

func closeFeed(conn *websocket.Conn, feed *sink.ChannelSink, subscription contract.Subscription) {
	subscription.Unsubscribe()
	feed.Close()
	_ = conn.Close()
}

// readPump discards client frames and returns when the peer goes away.
func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(ctx context.Context, log *slog.Logger, conn *websocket.Conn, feed *sink.ChannelSink, writeTimeout time.Duration) {
	defer func() { _ = conn.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case <-feed.Done():
			return
		case message := <-feed.Messages():
			data, err := json.Marshal(toMessageResponse(message))
			if err != nil {
				log.Error("Failed to encode live message", "message_id", message.ID, "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug("Live feed write failed", "error", err)
				return
			}
		}
	}
}
