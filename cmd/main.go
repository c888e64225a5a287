package main

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/internal"
	"chat-rooms/repositories"
	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/seed"
	"chat-rooms/services"
	"chat-rooms/storage"
	transport "chat-rooms/transport/http"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

type stores struct {
	users    contract.IUserRepository
	rooms    contract.IRoomRepository
	messages contract.IMessageRepository
	close    func()
}

// run wires every component and owns their lifetime so that deferred
// cleanups execute before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Stores
	st, err := openStores(log, config)
	if err != nil {
		return err
	}
	defer st.close()

	attachments, downloader, closeAttachments, err := openAttachments(ctx, log, config)
	if err != nil {
		return err
	}
	defer closeAttachments()

	// 3. Supervision & broadcast
	orchestrator, stopBroadcast := startBroadcast(ctx, log, config)
	// Runs before the store and attachment cleanups on every return path.
	defer stopBroadcast()

	// 4. Services
	users := services.NewUserDirectory(log, st.users)
	rooms := services.NewRoomRegistry(log, st.rooms)
	chat := services.NewChatService(log, rooms, services.NewMessageLog(st.messages), attachments, orchestrator)

	if config.SeedData {
		if _, err := seed.Run(ctx, log, users, rooms); err != nil {
			return err
		}
	}

	// 5. HTTP server
	uploadDir := ""
	if strings.EqualFold(config.AttachmentBackend, internal.AttachmentsDisk) {
		uploadDir = config.UploadDir
	}
	router := transport.NewRouter(log, transport.Config{
		Mode:           config.GinMode,
		DefaultUserID:  domain.UserID(config.DefaultUserID),
		MaxUploadSize:  config.MaxUploadSize,
		UploadDir:      uploadDir,
		WSBufferSize:   config.WSBufferSize,
		WSWriteTimeout: config.WSWriteTimeout,
	}, transport.Dependencies{Users: users, Rooms: rooms, Chat: chat, Attachments: downloader})

	server := &http.Server{Addr: config.Address(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", config.Address(), "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	stopBroadcast()
	log.Info("Program stopped cleanly")
	return nil
}

// startBroadcast runs the orchestrator and its supervised workers in the
// background. The returned stop is idempotent and waits for the workers.
func startBroadcast(ctx context.Context, log *slog.Logger, config internal.Config) (*runtime.Orchestrator, func()) {
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, sup, runtime.NewRegistry(), config.BufferSize, config.SinkTimeout).
		WithQueueMonitoring(config.MetricInterval, config.LowCapacityThreshold)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		orchestrator.Start(runCtx)
	}()

	var once sync.Once
	return orchestrator, func() {
		once.Do(func() {
			orchestrator.Stop()
			cancel()
			<-done
		})
	}
}

func openStores(log *slog.Logger, config internal.Config) (stores, error) {
	if strings.EqualFold(config.StorageBackend, internal.StorageMemory) {
		log.Info("Using in-memory stores")
		return stores{
			users:    repositories.NewMemoryUserRepository(),
			rooms:    repositories.NewMemoryRoomRepository(),
			messages: repositories.NewMemoryMessageRepository(),
			close:    func() {},
		}, nil
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return stores{}, fmt.Errorf("database opening failed: %w", err)
	}
	log.Info("Using badger stores", "path", config.BadgerFilepath)
	return stores{
		users:    repositories.NewBadgerUserRepository(db),
		rooms:    repositories.NewBadgerRoomRepository(db),
		messages: repositories.NewBadgerMessageRepository(db, log),
		close: func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		},
	}, nil
}

func openAttachments(ctx context.Context, log *slog.Logger, config internal.Config) (contract.IAttachmentStore, transport.AttachmentDownloader, func(), error) {
	if strings.EqualFold(config.AttachmentBackend, internal.AttachmentsDisk) {
		log.Info("Storing attachments on disk", "dir", config.UploadDir)
		return storage.NewDiskAttachmentStore(config.UploadDir, log), nil, func() {}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURI))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("mongo connection failed: %w", err)
	}
	disconnect := func() {
		log.Info("Disconnecting from MongoDB...")
		_ = client.Disconnect(context.Background())
	}
	bucket, err := gridfs.NewBucket(client.Database(config.MongoDatabase),
		options.GridFSBucket().SetName(config.MongoBucket))
	if err != nil {
		disconnect()
		return nil, nil, nil, fmt.Errorf("gridfs bucket failed: %w", err)
	}
	log.Info("Storing attachments in GridFS", "database", config.MongoDatabase, "bucket", config.MongoBucket)
	store := storage.NewGridFSAttachmentStore(bucket, log)
	return store, store, disconnect, nil
}
