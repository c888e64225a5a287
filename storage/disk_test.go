package storage

import (
	"chat-rooms/errors"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDiskAttachmentStore_Upload_And_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewDiskAttachmentStore(dir, slog.Default())

	// When a file is uploaded
	ref, err := store.Upload(ctx, pngHeader, "cat.png")
	req.NoError(err)

	// Then the reference points to a uuid-prefixed file in the upload directory
	req.True(strings.HasPrefix(ref, "/uploads/"))
	req.True(strings.HasSuffix(ref, "-cat.png"))
	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	req.NoError(err)
	req.Equal(pngHeader, stored)

	// When it is deleted twice
	req.NoError(store.Delete(ctx, ref))
	req.NoError(store.Delete(ctx, ref))

	_, err = os.Stat(filepath.Join(dir, filepath.Base(ref)))
	req.True(os.IsNotExist(err))
}

func TestDiskAttachmentStore_Upload_Empty_File(t *testing.T) {
	req := require.New(t)
	store := NewDiskAttachmentStore(t.TempDir(), slog.Default())

	_, err := store.Upload(context.Background(), nil, "empty.txt")

	req.ErrorIs(err, errors.ErrStorage)
}

func TestDiskAttachmentStore_Upload_Strips_Directories(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store := NewDiskAttachmentStore(dir, slog.Default())

	ref, err := store.Upload(context.Background(), []byte("hello"), "../../etc/passwd")
	req.NoError(err)

	req.True(strings.HasSuffix(ref, "-passwd.txt"))
	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1)
}

func TestDiskAttachmentStore_Upload_Names_Anonymous_File(t *testing.T) {
	req := require.New(t)
	store := NewDiskAttachmentStore(t.TempDir(), slog.Default())

	ref, err := store.Upload(context.Background(), pngHeader, "")

	req.NoError(err)
	req.True(strings.HasSuffix(ref, "-attachment.png"))
}

func TestDiskAttachmentStore_Delete_Empty_Reference(t *testing.T) {
	store := NewDiskAttachmentStore(t.TempDir(), slog.Default())
	require.NoError(t, store.Delete(context.Background(), ""))
}

func TestParseGridFSRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		ok   bool
	}{
		{name: "valid", ref: "gridfs:64b7f0c2a1b2c3d4e5f60718", ok: true},
		{name: "disk reference", ref: "/uploads/a.png", ok: false},
		{name: "bad hex", ref: "gridfs:nope", ok: false},
		{name: "empty", ref: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseGridFSRef(tt.ref)
			require.Equal(t, tt.ok, ok)
		})
	}
}
