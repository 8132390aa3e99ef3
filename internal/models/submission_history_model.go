package models

import "time"

type SubmissionOutcome string

const (
	OutcomeSubmitted     SubmissionOutcome = "submitted"
	OutcomeInvalid       SubmissionOutcome = "invalid"
	OutcomeMediaFailed   SubmissionOutcome = "media_failed"
	OutcomeBatchRejected SubmissionOutcome = "batch_rejected"
)

type SubmissionHistory struct {
	ID               int64             `db:"id" json:"id"`
	BatchID          string            `db:"batch_id" json:"batch_id"`
	Outcome          SubmissionOutcome `db:"outcome" json:"outcome"`
	DestinationCount int               `db:"destination_count" json:"destination_count"`
	MediaCount       int               `db:"media_count" json:"media_count"`
	UploadedCount    int               `db:"uploaded_count" json:"uploaded_count"`
	ErrorMessage     string            `db:"error_message" json:"error_message"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}
