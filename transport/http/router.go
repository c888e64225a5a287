// Package http exposes the chat core over REST and a WebSocket live feed.
// It is the only layer that knows about status codes.
package http

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// AttachmentDownloader serves attachments that do not live on the local disk.
type AttachmentDownloader interface {
	Download(ctx context.Context, ref string, w io.Writer) (string, error)
}

type Config struct {
	Mode           string
	DefaultUserID  domain.UserID
	MaxUploadSize  int64
	UploadDir      string
	WSBufferSize   int
	WSWriteTimeout time.Duration
}

type Dependencies struct {
	Users       contract.IUserDirectory
	Rooms       contract.IRoomRegistry
	Chat        contract.IChatService
	Attachments AttachmentDownloader
}

type handler struct {
	log  *slog.Logger
	cfg  Config
	deps Dependencies
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func NewRouter(log *slog.Logger, cfg Config, deps Dependencies) *gin.Engine {
	if cfg.Mode == gin.ReleaseMode || cfg.Mode == gin.TestMode {
		gin.SetMode(cfg.Mode)
	}
	if cfg.DefaultUserID == "" {
		cfg.DefaultUserID = "default-user"
	}
	if cfg.WSBufferSize <= 0 {
		cfg.WSBufferSize = 32
	}
	if cfg.WSWriteTimeout <= 0 {
		cfg.WSWriteTimeout = 5 * time.Second
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	if cfg.MaxUploadSize > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadSize
	}

	h := &handler{log: log, cfg: cfg, deps: deps}

	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	api := r.Group("/api")
	api.GET("/health", h.health)

	users := api.Group("/users")
	users.POST("", h.createUser)
	users.GET("", h.listUsers)
	users.GET("/:userId", h.getUser)

	rooms := api.Group("/rooms")
	rooms.POST("", h.createRoom)
	rooms.GET("", h.listRoomsForUser)
	rooms.GET("/all", h.listAllRooms)
	rooms.GET("/membership-summary", h.membershipSummary)
	rooms.GET("/:roomId", h.getRoom)
	rooms.GET("/:roomId/messages", h.listMessages)
	rooms.GET("/:roomId/ws", h.liveFeed)

	api.POST("/messages", h.sendMessage)
	api.GET("/messages/:messageId", h.getMessage)

	if deps.Attachments != nil {
		api.GET("/attachments/:ref", h.downloadAttachment)
	}

	log.Info("Router ready", "upload_dir", cfg.UploadDir, "mode", gin.Mode())
	return r
}
