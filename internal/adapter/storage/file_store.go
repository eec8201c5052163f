// Package storage adapts PocketBase's file storage to the FileStore port
// used by the technician photo uploads.
package storage

import (
	"fmt"
	"net/http"
	"strings"

	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// photoPrefix namespaces technician uploads inside the app storage so they
// never collide with collection-attached files.
const photoPrefix = "tech_photos"

type PBFileStore struct {
	app pbCore.App
}

func NewFileStore(app pbCore.App) *PBFileStore {
	return &PBFileStore{app: app}
}

var _ core.FileStore = (*PBFileStore)(nil)

// Upload writes the bytes under {jobId}/{timestamp}.{ext} and returns the
// public URL served by the photo route.
func (s *PBFileStore) Upload(path string, data []byte) (string, error) {
	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return "", fmt.Errorf("open filesystem: %w", err)
	}
	defer fsys.Close()

	key := photoPrefix + "/" + path
	if err := fsys.Upload(data, key); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	base := strings.TrimSuffix(s.app.Settings().Meta.AppURL, "/")
	return fmt.Sprintf("%s/files/%s/%s", base, photoPrefix, path), nil
}

// Serve streams a stored photo back over HTTP. Used by the photo route.
func (s *PBFileStore) Serve(w http.ResponseWriter, r *http.Request, path string) error {
	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return err
	}
	defer fsys.Close()

	key := photoPrefix + "/" + path
	name := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		name = path[i+1:]
	}
	return fsys.Serve(w, r, key, name)
}
