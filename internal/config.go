package internal

import (
	"fmt"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageBadger = "badger"

	AttachmentsDisk   = "disk"
	AttachmentsGridFS = "gridfs"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=8080"`
	GinMode  string `env:"GIN_MODE,default=release"`

	StorageBackend string `env:"STORAGE_BACKEND,default=memory"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`

	AttachmentBackend string `env:"ATTACHMENT_BACKEND,default=disk"`
	UploadDir         string `env:"UPLOAD_DIR,default=./uploads"`
	MaxUploadSize     int64  `env:"MAX_UPLOAD_SIZE,default=10485760"`
	MongoURI          string `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDatabase     string `env:"MONGO_DATABASE,default=chat"`
	MongoBucket       string `env:"MONGO_BUCKET,default=attachments"`

	BufferSize           int           `env:"BUFFER_SIZE,default=1024"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=0s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=10"`
	WSBufferSize         int           `env:"WS_BUFFER_SIZE,default=64"`
	WSWriteTimeout       time.Duration `env:"WS_WRITE_TIMEOUT,default=5s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	SeedData      bool   `env:"SEED_DATA,default=false"`
	DefaultUserID string `env:"DEFAULT_USER_ID,default=default-user"`
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch strings.ToLower(c.StorageBackend) {
	case StorageMemory, StorageBadger:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StorageBadger, c.StorageBackend)
	}
	switch strings.ToLower(c.AttachmentBackend) {
	case AttachmentsDisk, AttachmentsGridFS:
	default:
		return fmt.Errorf("ATTACHMENT_BACKEND must be %q or %q, got %q", AttachmentsDisk, AttachmentsGridFS, c.AttachmentBackend)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("BUFFER_SIZE must be positive, got %d", c.BufferSize)
	}
	if c.SinkTimeout <= 0 {
		return fmt.Errorf("SINK_TIMEOUT must be positive, got %s", c.SinkTimeout)
	}
	if c.LowCapacityThreshold < 0 {
		return fmt.Errorf("LOW_CAPACITY_THRESHOLD must not be negative, got %d", c.LowCapacityThreshold)
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
