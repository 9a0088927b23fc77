package testutil

import (
	"context"
	"io"
	"sync"

	"catalog-api/pkg/storage"
)

// FaultyBlobs wraps a BlobStore and fails Put or Delete on demand.
type FaultyBlobs struct {
	storage.BlobStore

	mu        sync.Mutex
	PutErr    error
	DeleteErr error
	Deletes   []string
}

func (b *FaultyBlobs) Put(ctx context.Context, path string, r io.Reader) error {
	b.mu.Lock()
	err := b.PutErr
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.BlobStore.Put(ctx, path, r)
}

func (b *FaultyBlobs) Delete(ctx context.Context, path string) error {
	b.mu.Lock()
	b.Deletes = append(b.Deletes, path)
	err := b.DeleteErr
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.BlobStore.Delete(ctx, path)
}
