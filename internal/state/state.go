// Package state holds the process-wide lists (destinations, posts, config)
// and the current draft. The methods here are the only writers.
package state

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/repository"
	"github.com/maheshrc27/postbatch/internal/transfer"
)

const GeminiKeyName = "GEMINI_API_KEY"

var (
	ErrDuplicateDestination = errors.New("destination id already exists")
	ErrUnknownDestination   = errors.New("destination not found")
	ErrUnknownPost          = errors.New("post not found")
	ErrMediaIndex           = errors.New("media index out of range")
	ErrInvalidValue         = errors.New("invalid value")
)

type Options struct {
	MandatoryContent string
	DefaultAPIKey    string
	Now              func() time.Time
}

type AppState struct {
	mu    sync.RWMutex
	store repository.StoreClient
	now   func() time.Time

	destinations  []models.Destination
	selected      []string
	posts         []models.ScheduledPost
	config        map[string]string
	draft         models.Draft
	loading       int
	closed        bool
	defaultAPIKey string
}

func New(store repository.StoreClient, opts Options) *AppState {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AppState{
		store:         store,
		now:           now,
		destinations:  []models.Destination{},
		posts:         []models.ScheduledPost{},
		config:        map[string]string{},
		defaultAPIKey: opts.DefaultAPIKey,
		draft: models.Draft{
			MandatoryContent: opts.MandatoryContent,
			PostType:         models.PostTypeTextOnly,
			Tone:             models.ToneProfessional,
			Status:           models.StatusScheduled,
			ScheduleMode:     models.ScheduleImmediate,
			ScheduledAt:      models.NextFullHour(now()),
			AutoRewrite:      true,
		},
	}
}

// Close stops the state from accepting results of in-flight fetches.
func (s *AppState) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *AppState) Posts() []models.ScheduledPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

// Loading reports whether an explicit (non-silent) post fetch is running.
func (s *AppState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *AppState) Destinations() []models.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.destinations)
}

func (s *AppState) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// SelectedDestinations resolves the selection, in selection order, against
// the available destinations. Unknown ids are skipped.
func (s *AppState) SelectedDestinations() []models.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Destination, 0, len(s.selected))
	for _, id := range s.selected {
		if i := s.destinationIndex(id); i >= 0 {
			out = append(out, s.destinations[i])
		}
	}
	return out
}

func (s *AppState) Config() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.config))
	for k, v := range s.config {
		out[k] = v
	}
	return out
}

// GeminiAPIKey prefers the key from the remote config over the local default.
func (s *AppState) GeminiAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key := s.config[GeminiKeyName]; key != "" {
		return key
	}
	return s.defaultAPIKey
}

func (s *AppState) ToggleDestination(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destinationIndex(id) < 0 {
		return false, ErrUnknownDestination
	}
	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return false, nil
	}
	s.selected = append(s.selected, id)
	return true, nil
}

func (s *AppState) destinationIndex(id string) int {
	return slices.IndexFunc(s.destinations, func(d models.Destination) bool { return d.ID == id })
}

// Draft returns a copy of the current draft.
func (s *AppState) Draft() models.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.draft
	d.Media = slices.Clone(s.draft.Media)
	return d
}

func (s *AppState) UpdateDraft(u transfer.DraftUpdate) (models.Draft, error) {
	if u.Status != nil && !u.Status.Valid() {
		return models.Draft{}, ErrInvalidValue
	}
	if u.PostType != nil && !u.PostType.Valid() {
		return models.Draft{}, ErrInvalidValue
	}
	if u.ScheduleMode != nil && *u.ScheduleMode != models.ScheduleImmediate && *u.ScheduleMode != models.ScheduleDeferred {
		return models.Draft{}, ErrInvalidValue
	}

	s.mu.Lock()
	d := &s.draft
	if u.Content != nil {
		d.Content = *u.Content
	}
	if u.MandatoryContent != nil {
		d.MandatoryContent = *u.MandatoryContent
	}
	if u.SeedingComment != nil {
		d.SeedingComment = *u.SeedingComment
	}
	if u.Tone != nil {
		d.Tone = *u.Tone
	}
	if u.Audience != nil {
		d.Audience = *u.Audience
	}
	if u.Status != nil {
		d.Status = *u.Status
		d.ScheduleMode = models.ScheduleImmediate
		if d.Status == models.StatusScheduled {
			d.ScheduleMode = models.ScheduleDeferred
		}
	}
	if u.ScheduledAt != nil {
		d.ScheduledAt = *u.ScheduledAt
	}
	if u.AutoRewrite != nil {
		d.AutoRewrite = *u.AutoRewrite
	}
	if u.PostType != nil {
		d.PostType = *u.PostType
	}
	if u.ScheduleMode != nil {
		d.ScheduleMode = *u.ScheduleMode
		// Deferred posts always go out as scheduled.
		if d.ScheduleMode == models.ScheduleDeferred {
			d.Status = models.StatusScheduled
		}
	}
	s.mu.Unlock()

	return s.Draft(), nil
}

func (s *AppState) AddMedia(files ...models.MediaFile) models.Draft {
	s.mu.Lock()
	s.draft.Media = append(s.draft.Media, files...)
	s.draft.PostType = models.DerivePostType(s.draft.Media, s.draft.PostType)
	s.mu.Unlock()
	return s.Draft()
}

func (s *AppState) RemoveMedia(index int) (models.Draft, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.draft.Media) {
		s.mu.Unlock()
		return models.Draft{}, ErrMediaIndex
	}
	s.draft.Media = slices.Delete(s.draft.Media, index, index+1)
	s.draft.PostType = models.DerivePostType(s.draft.Media, s.draft.PostType)
	s.mu.Unlock()
	return s.Draft(), nil
}

// ClearDraft resets content, seeding comment and media after a submission.
// The footer, tone and scheduling choices are kept.
func (s *AppState) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Content = ""
	s.draft.SeedingComment = ""
	s.draft.Media = nil
	s.draft.PostType = models.DerivePostType(nil, s.draft.PostType)
}
