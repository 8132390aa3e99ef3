package transfer

import (
	"time"

	"github.com/maheshrc27/postbatch/internal/models"
)

// DraftUpdate is the body of PUT /api/draft. Nil fields are left alone.
type DraftUpdate struct {
	Content          *string              `json:"content"`
	MandatoryContent *string              `json:"mandatoryContent"`
	SeedingComment   *string              `json:"seedingComment"`
	Tone             *models.Tone         `json:"tone"`
	Audience         *string              `json:"audience"`
	Status           *models.Status       `json:"status"`
	ScheduleMode     *models.ScheduleMode `json:"scheduleMode"`
	ScheduledAt      *time.Time           `json:"scheduledAt"`
	AutoRewrite      *bool                `json:"autoRewrite"`
	PostType         *models.PostType     `json:"postType"`
}

type SubmitResponse struct {
	Message       string   `json:"message"`
	ItemIDs       []string `json:"item_ids"`
	UploadedCount int      `json:"uploaded_count"`
	FailedUploads int      `json:"failed_uploads"`
}

type StoreURLUpdate struct {
	URL string `json:"url"`
}
