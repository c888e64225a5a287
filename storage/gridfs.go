package storage

import (
	"bytes"
	"chat-rooms/errors"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSRefPrefix marks references produced by GridFSAttachmentStore.
const GridFSRefPrefix = "gridfs:"

// GridFSAttachmentStore keeps attachments in a MongoDB GridFS bucket.
// References have the form "gridfs:<object id hex>".
type GridFSAttachmentStore struct {
	bucket *gridfs.Bucket
	log    *slog.Logger
}

func NewGridFSAttachmentStore(bucket *gridfs.Bucket, log *slog.Logger) *GridFSAttachmentStore {
	return &GridFSAttachmentStore{bucket: bucket, log: log}
}

func (g *GridFSAttachmentStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.Storage("Upload", fmt.Errorf("failed to store empty file"))
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Storage("Upload", err)
	}
	mime := mimetype.Detect(data)
	metadata := bson.M{
		"mime_type":   mime.String(),
		"uploaded_at": time.Now().UTC(),
	}
	opts := options.GridFSUpload().SetMetadata(metadata)
	id, err := g.bucket.UploadFromStream(cleanFilename(filename, mime), bytes.NewReader(data), opts)
	if err != nil {
		return "", errors.Storage("Upload", err)
	}
	g.log.Debug("Attachment stored in GridFS", "id", id.Hex(), "size", len(data), "mime_type", mime.String())
	return GridFSRefPrefix + id.Hex(), nil
}

// Delete removes the file behind ref. Foreign or unknown references are ignored.
func (g *GridFSAttachmentStore) Delete(ctx context.Context, ref string) error {
	id, ok := parseGridFSRef(ref)
	if !ok {
		return nil
	}
	err := g.bucket.DeleteContext(ctx, id)
	if err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return errors.Storage("Delete", err)
	}
	return nil
}

// Download streams the file behind ref into w and returns its stored name.
func (g *GridFSAttachmentStore) Download(ctx context.Context, ref string, w io.Writer) (string, error) {
	id, ok := parseGridFSRef(ref)
	if !ok {
		return "", errors.NotFound("Download", "attachment not found")
	}
	stream, err := g.bucket.OpenDownloadStream(id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return "", errors.NotFound("Download", "attachment not found")
	}
	if err != nil {
		return "", errors.Storage("Download", err)
	}
	defer stream.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}
	if _, err = io.Copy(w, stream); err != nil {
		return "", errors.Storage("Download", err)
	}
	return stream.GetFile().Name, nil
}

func parseGridFSRef(ref string) (primitive.ObjectID, bool) {
	hex, found := strings.CutPrefix(ref, GridFSRefPrefix)
	if !found {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
