package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postbatch/internal/models"
)

// HistoryRepository records every batch submission attempt.
type HistoryRepository interface {
	Create(ctx context.Context, h *models.SubmissionHistory) (int64, error)
	List(ctx context.Context, limit int) ([]*models.SubmissionHistory, error)
}

const historySchema = `
	CREATE TABLE IF NOT EXISTS submission_history (
		id                BIGSERIAL PRIMARY KEY,
		batch_id          TEXT NOT NULL,
		outcome           TEXT NOT NULL,
		destination_count INTEGER NOT NULL DEFAULT 0,
		media_count       INTEGER NOT NULL DEFAULT 0,
		uploaded_count    INTEGER NOT NULL DEFAULT 0,
		error_message     TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// EnsureHistorySchema creates the submission_history table if needed.
func EnsureHistorySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *historyRepository) Create(ctx context.Context, h *models.SubmissionHistory) (int64, error) {
	query := `
		INSERT INTO submission_history (batch_id, outcome, destination_count, media_count, uploaded_count, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, h.BatchID, h.Outcome, h.DestinationCount, h.MediaCount, h.UploadedCount, h.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *historyRepository) List(ctx context.Context, limit int) ([]*models.SubmissionHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, batch_id, outcome, destination_count, media_count, uploaded_count, error_message, created_at
		FROM submission_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.SubmissionHistory
	for rows.Next() {
		var h models.SubmissionHistory
		err := rows.Scan(&h.ID, &h.BatchID, &h.Outcome, &h.DestinationCount, &h.MediaCount, &h.UploadedCount, &h.ErrorMessage, &h.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

type nopHistoryRepository struct{}

// NewNopHistoryRepository discards history when no database is configured.
func NewNopHistoryRepository() HistoryRepository {
	return nopHistoryRepository{}
}

func (nopHistoryRepository) Create(context.Context, *models.SubmissionHistory) (int64, error) {
	return 0, nil
}

func (nopHistoryRepository) List(context.Context, int) ([]*models.SubmissionHistory, error) {
	return []*models.SubmissionHistory{}, nil
}
