package files

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"posttown/internal/models"
	"posttown/internal/store"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	id, err := s.Store(ctx, models.FileAttachment{
		Filename:    "map.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if id == "" {
		t.Fatal("Store returned empty id")
	}

	got, err := s.Fetch(ctx, id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Filename != "map.png" || got.ContentType != "image/png" {
		t.Errorf("Fetch metadata mismatch: %+v", got)
	}
	if !bytes.Equal(got.Data, []byte{0x89, 0x50, 0x4e, 0x47}) {
		t.Errorf("Fetch data mismatch: %v", got.Data)
	}
}

func TestDiskStoreFetchMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	if _, err := s.Fetch(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Fetch missing: want ErrNotFound, got %v", err)
	}
}

func TestDiskStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	id, err := s.Store(ctx, models.FileAttachment{Filename: "a.txt", ContentType: "text/plain", Data: []byte("hi")})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Fetch(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Fetch after delete: want ErrNotFound, got %v", err)
	}
	// deleting again still succeeds
	if err := s.Delete(ctx, id); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}
