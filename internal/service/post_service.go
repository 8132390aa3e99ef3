package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/maheshrc27/postbatch/internal/media"
	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/repository"
)

var (
	ErrInvalidDraft  = errors.New("nothing to submit: select a destination and add content or media")
	ErrMediaUpload   = errors.New("every media upload failed")
	ErrBatchRejected = errors.New("batch submission failed")
)

// StaggerOffset separates consecutive destinations of a deferred batch.
const StaggerOffset = 15 * time.Minute

const defaultUploadConcurrency = 10

// BatchStore is the remote write the orchestrator ends with.
type BatchStore interface {
	CreateBatchPosts(ctx context.Context, videoURLs, imageURLs []string, items []models.BatchPostItem, common models.BatchCommonData) error
}

// VariationGenerator produces count rewrites of a post.
type VariationGenerator interface {
	GenerateVariations(ctx context.Context, baseContent string, count int, tone models.Tone, apiKey string) ([]string, error)
}

// DraftSource is where SubmitDraft takes its input from and reports back to.
type DraftSource interface {
	Draft() models.Draft
	SelectedDestinations() []models.Destination
	GeminiAPIKey() string
	ClearDraft()
}

// Refresher reloads the post list after a successful submission.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type SubmitRequest struct {
	Draft        models.Draft
	Destinations []models.Destination
	APIKey       string
}

type SubmitResult struct {
	BatchID       string                 `json:"batch_id"`
	Items         []models.BatchPostItem `json:"items"`
	VideoURLs     []string               `json:"video_urls"`
	ImageURLs     []string               `json:"image_urls"`
	Common        models.BatchCommonData `json:"common"`
	FailedUploads int                    `json:"failed_uploads"`
}

type PostService interface {
	// SubmitBatch runs one batch submission for an explicit draft.
	SubmitBatch(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	// SubmitDraft submits the current draft, then clears it and refreshes
	// the post list on success. On failure the draft is left as is.
	SubmitDraft(ctx context.Context) (*SubmitResult, error)
}

type postService struct {
	store      BatchStore
	uploader   MediaUploader
	variations VariationGenerator
	history    repository.HistoryRepository
	dates      repository.DateNormalizer
	drafts     DraftSource
	refresher  Refresher
	now        func() time.Time
	uploads    int
}

type PostServiceOption func(*postService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) PostServiceOption {
	return func(s *postService) { s.now = now }
}

func WithUploadConcurrency(n int) PostServiceOption {
	return func(s *postService) {
		if n > 0 {
			s.uploads = n
		}
	}
}

func WithDraftSource(d DraftSource, r Refresher) PostServiceOption {
	return func(s *postService) {
		s.drafts = d
		s.refresher = r
	}
}

func NewPostService(
	store BatchStore,
	uploader MediaUploader,
	variations VariationGenerator,
	history repository.HistoryRepository,
	dates repository.DateNormalizer,
	opts ...PostServiceOption) PostService {
	s := &postService{
		store:      store,
		uploader:   uploader,
		variations: variations,
		history:    history,
		dates:      dates,
		now:        time.Now,
		uploads:    defaultUploadConcurrency,
	}
	if s.history == nil {
		s.history = repository.NewNopHistoryRepository()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *postService) SubmitDraft(ctx context.Context) (*SubmitResult, error) {
	if s.drafts == nil {
		return nil, errors.New("no draft source configured")
	}

	result, err := s.SubmitBatch(ctx, SubmitRequest{
		Draft:        s.drafts.Draft(),
		Destinations: s.drafts.SelectedDestinations(),
		APIKey:       s.drafts.GeminiAPIKey(),
	})
	if err != nil {
		return nil, err
	}

	s.drafts.ClearDraft()
	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx); err != nil {
			slog.Info("post-submit refresh failed", "error", err)
		}
	}
	return result, nil
}

func (s *postService) SubmitBatch(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	draft := req.Draft
	dests := req.Destinations
	now := s.now()
	batchID := strconv.FormatInt(now.UnixMilli(), 10)

	entry := &models.SubmissionHistory{
		BatchID:          batchID,
		DestinationCount: len(dests),
		MediaCount:       len(draft.Media),
	}

	if len(dests) == 0 || !draft.HasBody() ||
		(draft.ScheduleMode == models.ScheduleDeferred && draft.ScheduledAt.IsZero()) {
		s.record(ctx, entry, models.OutcomeInvalid, ErrInvalidDraft)
		return nil, ErrInvalidDraft
	}

	videoURLs, imageURLs, failed := s.uploadMedia(ctx, draft.Media)
	entry.UploadedCount = len(videoURLs) + len(imageURLs)
	if len(draft.Media) > 0 && entry.UploadedCount == 0 {
		s.record(ctx, entry, models.OutcomeMediaFailed, ErrMediaUpload)
		return nil, ErrMediaUpload
	}

	contents := s.contentsFor(ctx, draft, len(dests), req.APIKey)
	items := s.buildItems(draft, dests, contents, now)
	common := s.commonData(draft, now)

	if err := s.store.CreateBatchPosts(ctx, videoURLs, imageURLs, items, common); err != nil {
		err = fmt.Errorf("%w: %v", ErrBatchRejected, err)
		s.record(ctx, entry, models.OutcomeBatchRejected, err)
		return nil, err
	}

	s.record(ctx, entry, models.OutcomeSubmitted, nil)
	slog.Info("batch submitted", "batch", batchID, "items", len(items), "videos", len(videoURLs), "images", len(imageURLs))

	return &SubmitResult{
		BatchID:       batchID,
		Items:         items,
		VideoURLs:     videoURLs,
		ImageURLs:     imageURLs,
		Common:        common,
		FailedUploads: failed,
	}, nil
}

// uploadMedia compresses and uploads every file concurrently. One failure
// never cancels the others; results keep the input order.
func (s *postService) uploadMedia(ctx context.Context, files []models.MediaFile) (videoURLs, imageURLs []string, failed int) {
	if len(files) == 0 {
		return nil, nil, 0
	}

	results := make([]*models.UploadResult, len(files))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.uploads)

	for i, file := range files {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, file models.MediaFile) {
			defer wg.Done()
			defer func() { <-semaphore }()

			res, err := s.uploader.Upload(ctx, media.ToUpload(file))
			if err != nil || res == nil || res.URL == "" {
				slog.Info("media upload failed", "index", i, "name", file.Name, "error", err)
				return
			}
			results[i] = res
		}(i, file)
	}

	wg.Wait()

	for _, res := range results {
		switch {
		case res == nil:
			failed++
		case res.Type == models.MediaTypeVideo:
			videoURLs = append(videoURLs, res.URL)
		default:
			imageURLs = append(imageURLs, res.URL)
		}
	}
	return videoURLs, imageURLs, failed
}

// contentsFor returns exactly n contents. Variations are only requested
// for more than one destination with auto-rewrite on; any failure falls
// back to the original content.
func (s *postService) contentsFor(ctx context.Context, draft models.Draft, n int, apiKey string) []string {
	if n <= 1 || !draft.AutoRewrite || s.variations == nil {
		return repeat(draft.Content, n)
	}

	variants, err := s.variations.GenerateVariations(ctx, draft.Content, n, draft.Tone, apiKey)
	if err != nil || len(variants) == 0 {
		slog.Info("content variations unavailable, reusing original", "error", err)
		return repeat(draft.Content, n)
	}
	return cycle(variants, n)
}

func (s *postService) buildItems(draft models.Draft, dests []models.Destination, contents []string, now time.Time) []models.BatchPostItem {
	items := make([]models.BatchPostItem, len(dests))
	for i, dest := range dests {
		postTime := now
		if draft.ScheduleMode == models.ScheduleDeferred {
			postTime = draft.ScheduledAt.Add(time.Duration(i) * StaggerOffset)
		}

		items[i] = models.BatchPostItem{
			ID:               strconv.FormatInt(now.UnixMilli()+int64(i), 10),
			Content:          contents[i%len(contents)],
			Destinations:     []string{dest.Name},
			DestinationIDs:   []string{dest.ID},
			ScheduledTime:    s.dates.FormatWire(postTime),
			MandatoryContent: draft.MandatoryContent,
			SeedingComment:   draft.SeedingComment,
		}
	}
	return items
}

// commonData describes the whole batch. Only the first file decides the
// media type, even when images and videos are mixed.
func (s *postService) commonData(draft models.Draft, now time.Time) models.BatchCommonData {
	mediaType := models.MediaTypeImage
	if len(draft.Media) > 0 && draft.Media[0].IsVideo() {
		mediaType = models.MediaTypeVideo
	}

	status := draft.Status
	if status == "" {
		status = models.StatusScheduled
	}

	return models.BatchCommonData{
		Status:    status,
		PostType:  draft.PostType,
		Topic:     models.Topic(draft.Content, models.BatchTopicLength, models.BatchTopicFallback),
		MediaType: mediaType,
		CreatedAt: s.dates.FormatWire(now),
	}
}

func (s *postService) record(ctx context.Context, entry *models.SubmissionHistory, outcome models.SubmissionOutcome, err error) {
	entry.Outcome = outcome
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	if _, herr := s.history.Create(ctx, entry); herr != nil {
		slog.Info("could not record submission history", "batch", entry.BatchID, "error", herr)
	}
}
