package transfer

import (
	"encoding/json"

	"github.com/maheshrc27/postbatch/internal/models"
)

// StoreRequest is the body of every POST to the remote store.
type StoreRequest struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// StoreResponse is the envelope every remote store call answers with.
type StoreResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    json.RawMessage       `json:"data,omitempty"`
	URL     string                `json:"url,omitempty"`
	Type    models.MediaType      `json:"type,omitempty"`
	Files   []models.UploadResult `json:"files,omitempty"`
}

// RawRow is one positional post row as the sheet returns it.
type RawRow []any

type IDPayload struct {
	ID string `json:"id"`
}

type BatchUploadPayload struct {
	Files []models.UploadFile `json:"files"`
}

type CreateBatchPayload struct {
	VideoURLs  string                 `json:"videoUrls"`
	ImageURLs  string                 `json:"imageUrls"`
	Items      []models.BatchPostItem `json:"items"`
	CommonData CommonDataPayload      `json:"commonData"`
}

// CommonDataPayload is BatchCommonData with the status already mapped to
// its sheet label.
type CommonDataPayload struct {
	Status    string           `json:"status"`
	PostType  models.PostType  `json:"postType"`
	Topic     string           `json:"topic,omitempty"`
	MediaType models.MediaType `json:"mediaType,omitempty"`
	CreatedAt string           `json:"createdAt,omitempty"`
}
