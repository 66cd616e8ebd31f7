package files

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"posttown/internal/models"
	"posttown/internal/store"
	"posttown/internal/utils"
)

// DiskStore keeps each attachment as an id.bin payload with an id.json
// metadata sidecar.
type DiskStore struct {
	dir string
}

type fileMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create file store dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Store(_ context.Context, file models.FileAttachment) (string, error) {
	id := file.ID
	if id == "" {
		id = utils.RandStringBytesMaskImpr(12)
	}

	meta, err := json.Marshal(fileMeta{Filename: file.Filename, ContentType: file.ContentType})
	if err != nil {
		return "", fmt.Errorf("encode file metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(id), meta, 0o644); err != nil {
		return "", fmt.Errorf("write file metadata: %w", err)
	}
	if err := os.WriteFile(s.dataPath(id), file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write file data: %w", err)
	}
	return id, nil
}

func (s *DiskStore) Fetch(_ context.Context, id string) (models.FileAttachment, error) {
	raw, err := os.ReadFile(s.metaPath(id))
	if os.IsNotExist(err) {
		return models.FileAttachment{}, store.ErrNotFound
	}
	if err != nil {
		return models.FileAttachment{}, fmt.Errorf("read file metadata: %w", err)
	}

	var meta fileMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return models.FileAttachment{}, fmt.Errorf("decode file metadata: %w", err)
	}

	data, err := os.ReadFile(s.dataPath(id))
	if os.IsNotExist(err) {
		return models.FileAttachment{}, store.ErrNotFound
	}
	if err != nil {
		return models.FileAttachment{}, fmt.Errorf("read file data: %w", err)
	}

	return models.FileAttachment{
		ID:          id,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Data:        data,
	}, nil
}

func (s *DiskStore) Delete(_ context.Context, id string) error {
	for _, path := range []string{s.dataPath(id), s.metaPath(id)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

func (s *DiskStore) metaPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *DiskStore) dataPath(id string) string {
	return filepath.Join(s.dir, id+".bin")
}
