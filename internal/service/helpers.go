package service

import (
	"context"

	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/repository"
)

// MediaUploader uploads one encoded file and reports where it landed.
type MediaUploader interface {
	Upload(ctx context.Context, f models.UploadFile) (*models.UploadResult, error)
}

type storeUploader struct {
	store repository.StoreClient
}

// NewStoreUploader uploads media through the remote store's uploadMedia action.
func NewStoreUploader(store repository.StoreClient) MediaUploader {
	return &storeUploader{store: store}
}

func (u *storeUploader) Upload(ctx context.Context, f models.UploadFile) (*models.UploadResult, error) {
	return u.store.UploadMedia(ctx, f)
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// cycle pads or trims variants to n entries, repeating them round-robin.
func cycle(variants []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = variants[i%len(variants)]
	}
	return out
}
