package storage

import (
	"chat-rooms/errors"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const defaultURLPrefix = "/uploads/"

// DiskAttachmentStore writes attachments under a local directory.
// Stored files are named "<uuid>-<base name>" and referenced as
// "<urlPrefix><stored name>", which is what the HTTP layer serves.
type DiskAttachmentStore struct {
	dir       string
	urlPrefix string
	log       *slog.Logger
}

func NewDiskAttachmentStore(dir string, log *slog.Logger) *DiskAttachmentStore {
	return &DiskAttachmentStore{dir: dir, urlPrefix: defaultURLPrefix, log: log}
}

func (d *DiskAttachmentStore) Dir() string { return d.dir }

func (d *DiskAttachmentStore) URLPrefix() string { return d.urlPrefix }

// Upload rejects empty data, then writes the file and returns its reference.
func (d *DiskAttachmentStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.Storage("Upload", fmt.Errorf("failed to store empty file"))
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Storage("Upload", err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", errors.Storage("Upload", err)
	}

	mime := mimetype.Detect(data)
	name := uuid.NewString() + "-" + cleanFilename(filename, mime)
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return "", errors.Storage("Upload", err)
	}
	d.log.Debug("Attachment stored", "name", name, "size", len(data), "mime_type", mime.String())
	return d.urlPrefix + name, nil
}

// Delete removes the file named by the last segment of ref.
// Unknown or empty references are not an error.
func (d *DiskAttachmentStore) Delete(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Storage("Delete", err)
	}
	return nil
}

// cleanFilename keeps the base name only, so a client cannot escape the
// upload directory. A missing extension is taken from the sniffed content.
func cleanFilename(filename string, mime *mimetype.MIME) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		base = "attachment"
	}
	if path.Ext(base) == "" {
		base += mime.Extension()
	}
	return base
}
