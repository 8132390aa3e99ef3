package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/transfer"
)

type fakeStore struct {
	mu        sync.Mutex
	posts     []models.ScheduledPost
	dests     []models.Destination
	config    map[string]string
	listErr   error
	writeErr  error
	updated   []string
	deleted   []string
	added     []models.Destination
	listGate  chan struct{}
	listCalls int
}

func (f *fakeStore) URL() string     { return "https://script.test/exec" }
func (f *fakeStore) SetURL(u string) {}

func (f *fakeStore) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	return f.dests, f.listErr
}

func (f *fakeStore) AddDestination(ctx context.Context, d models.Destination) error {
	f.added = append(f.added, d)
	return f.writeErr
}

func (f *fakeStore) UpdateDestination(ctx context.Context, d models.Destination) error {
	return f.writeErr
}

func (f *fakeStore) RemoveDestination(ctx context.Context, id string) error {
	return f.writeErr
}

func (f *fakeStore) ListPosts(ctx context.Context) ([]models.ScheduledPost, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.posts, f.listErr
}

func (f *fakeStore) CreateBatchPosts(ctx context.Context, videoURLs, imageURLs []string, items []models.BatchPostItem, common models.BatchCommonData) error {
	return f.writeErr
}

func (f *fakeStore) UpdatePost(ctx context.Context, id string, u models.PostUpdate) error {
	f.updated = append(f.updated, id)
	return f.writeErr
}

func (f *fakeStore) DeletePost(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.writeErr
}

func (f *fakeStore) UploadMedia(ctx context.Context, u models.UploadFile) (*models.UploadResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) UploadBatchMedia(ctx context.Context, files []models.UploadFile) ([]models.UploadResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) GetConfig(ctx context.Context) (map[string]string, error) {
	return f.config, f.listErr
}

func (f *fakeStore) TestConnection(ctx context.Context) error { return f.listErr }

var clock = func() time.Time { return time.Date(2025, 3, 10, 8, 20, 0, 0, time.UTC) }

func seeded(t *testing.T, store *fakeStore) *AppState {
	t.Helper()
	st := New(store, Options{MandatoryContent: "footer", DefaultAPIKey: "local", Now: clock})
	if err := st.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	return st
}

func TestNewDraftDefaults(t *testing.T) {
	st := New(&fakeStore{}, Options{MandatoryContent: "footer", Now: clock})
	d := st.Draft()

	if d.PostType != models.PostTypeTextOnly || d.Tone != models.ToneProfessional {
		t.Errorf("unexpected defaults %+v", d)
	}
	if d.Status != models.StatusScheduled || d.ScheduleMode != models.ScheduleImmediate || !d.AutoRewrite {
		t.Errorf("unexpected defaults %+v", d)
	}
	if d.MandatoryContent != "footer" {
		t.Errorf("expected footer default, got %q", d.MandatoryContent)
	}
	if want := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC); !d.ScheduledAt.Equal(want) {
		t.Errorf("expected next full hour, got %v", d.ScheduledAt)
	}
}

func TestRefreshFailureKeepsPosts(t *testing.T) {
	store := &fakeStore{posts: []models.ScheduledPost{{ID: "1"}, {ID: "2"}}}
	st := seeded(t, store)

	store.listErr = errors.New("offline")
	if err := st.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := st.Posts(); len(got) != 2 {
		t.Errorf("expected previous posts kept, got %d", len(got))
	}
	if st.Loading() {
		t.Error("expected loading to be reset after failure")
	}
}

func TestLoadingFlag(t *testing.T) {
	t.Run("Explicit Refresh Sets Loading", func(t *testing.T) {
		store := &fakeStore{listGate: make(chan struct{})}
		st := New(store, Options{Now: clock})

		done := make(chan error)
		go func() { done <- st.Refresh(context.Background()) }()

		waitFor(t, func() bool { return st.Loading() })
		close(store.listGate)
		<-done
		if st.Loading() {
			t.Error("expected loading cleared")
		}
	})

	t.Run("Silent Refresh Leaves Loading Alone", func(t *testing.T) {
		store := &fakeStore{listGate: make(chan struct{})}
		st := New(store, Options{Now: clock})

		done := make(chan error)
		go func() { done <- st.RefreshSilently(context.Background()) }()

		waitFor(t, func() bool {
			store.mu.Lock()
			defer store.mu.Unlock()
			return store.listCalls == 1
		})
		if st.Loading() {
			t.Error("expected silent refresh not to set loading")
		}
		close(store.listGate)
		<-done
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestClosedStateIgnoresResults(t *testing.T) {
	store := &fakeStore{posts: []models.ScheduledPost{{ID: "1"}}}
	st := New(store, Options{Now: clock})
	st.Close()

	if err := st.Refresh(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(st.Posts()) != 0 {
		t.Error("expected results dropped after close")
	}
}

func TestUpdatePostOptimistic(t *testing.T) {
	store := &fakeStore{posts: []models.ScheduledPost{{ID: "1", Content: "old", Status: models.StatusDraft}}, writeErr: errors.New("remote down")}
	st := seeded(t, store)

	content := "new"
	err := st.UpdatePost(context.Background(), "1", models.PostUpdate{Content: &content})
	if err == nil {
		t.Fatal("expected remote error to be reported")
	}
	if got := st.Posts()[0].Content; got != "new" {
		t.Errorf("expected local update to stay, got %q", got)
	}

	if err := st.UpdatePost(context.Background(), "missing", models.PostUpdate{Content: &content}); !errors.Is(err, ErrUnknownPost) {
		t.Errorf("expected ErrUnknownPost, got %v", err)
	}

	bad := models.Status("archived")
	if err := st.UpdatePost(context.Background(), "1", models.PostUpdate{Status: &bad}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestDeletePostOptimistic(t *testing.T) {
	store := &fakeStore{posts: []models.ScheduledPost{{ID: "1"}, {ID: "2"}}}
	st := seeded(t, store)

	if err := st.DeletePost(context.Background(), "1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	posts := st.Posts()
	if len(posts) != 1 || posts[0].ID != "2" {
		t.Errorf("unexpected posts %+v", posts)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "1" {
		t.Errorf("expected remote delete, got %v", store.deleted)
	}
}

func TestDestinations(t *testing.T) {
	store := &fakeStore{dests: []models.Destination{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
	st := New(store, Options{Now: clock})

	if err := st.RefreshDestinations(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sel := st.SelectedIDs(); len(sel) != 1 || sel[0] != "a" {
		t.Errorf("expected first destination selected, got %v", sel)
	}

	if on, _ := st.ToggleDestination("b"); !on {
		t.Error("expected b selected")
	}
	if on, _ := st.ToggleDestination("a"); on {
		t.Error("expected a deselected")
	}
	if _, err := st.ToggleDestination("zzz"); !errors.Is(err, ErrUnknownDestination) {
		t.Errorf("expected ErrUnknownDestination, got %v", err)
	}

	if err := st.AddDestination(context.Background(), models.Destination{ID: "c", Name: "C"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := st.AddDestination(context.Background(), models.Destination{ID: "c"}); !errors.Is(err, ErrDuplicateDestination) {
		t.Errorf("expected ErrDuplicateDestination, got %v", err)
	}

	selected := st.SelectedDestinations()
	if len(selected) != 2 || selected[0].ID != "b" || selected[1].ID != "c" {
		t.Errorf("expected selection order b, c; got %+v", selected)
	}

	if err := st.RemoveDestination(context.Background(), "b"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sel := st.SelectedIDs(); len(sel) != 1 || sel[0] != "c" {
		t.Errorf("expected removed destination deselected, got %v", sel)
	}
}

func TestRefreshDestinationsKeepsSelection(t *testing.T) {
	store := &fakeStore{dests: []models.Destination{{ID: "a"}, {ID: "b"}}}
	st := New(store, Options{Now: clock})
	st.RefreshDestinations(context.Background())
	st.ToggleDestination("b")
	st.ToggleDestination("a")

	st.RefreshDestinations(context.Background())
	if sel := st.SelectedIDs(); len(sel) != 1 || sel[0] != "b" {
		t.Errorf("expected selection kept, got %v", sel)
	}
}

func TestGeminiAPIKey(t *testing.T) {
	store := &fakeStore{config: map[string]string{}}
	st := New(store, Options{DefaultAPIKey: "local", Now: clock})

	if st.GeminiAPIKey() != "local" {
		t.Errorf("expected local key, got %q", st.GeminiAPIKey())
	}

	store.config = map[string]string{GeminiKeyName: "remote"}
	st.RefreshConfig(context.Background())
	if st.GeminiAPIKey() != "remote" {
		t.Errorf("expected remote key, got %q", st.GeminiAPIKey())
	}
}

func TestDraftMedia(t *testing.T) {
	st := New(&fakeStore{}, Options{Now: clock})
	img := models.MediaFile{Name: "a.png", MimeType: "image/png"}

	d := st.AddMedia(img)
	if d.PostType != models.PostTypeSingleImage {
		t.Errorf("expected single image, got %q", d.PostType)
	}
	d = st.AddMedia(img)
	if d.PostType != models.PostTypeMultipleImages {
		t.Errorf("expected multiple images, got %q", d.PostType)
	}

	if _, err := st.RemoveMedia(5); !errors.Is(err, ErrMediaIndex) {
		t.Errorf("expected ErrMediaIndex, got %v", err)
	}
	st.RemoveMedia(0)
	d, _ = st.RemoveMedia(0)
	if d.PostType != models.PostTypeTextOnly || len(d.Media) != 0 {
		t.Errorf("expected text post without media, got %+v", d)
	}
}

func TestUpdateDraft(t *testing.T) {
	st := New(&fakeStore{}, Options{Now: clock})

	draft := models.StatusDraft
	content := "hello"
	d, err := st.UpdateDraft(transfer.DraftUpdate{Content: &content, Status: &draft})
	if err != nil || d.Content != "hello" || d.Status != models.StatusDraft {
		t.Fatalf("unexpected draft %+v (%v)", d, err)
	}

	deferred := models.ScheduleDeferred
	d, _ = st.UpdateDraft(transfer.DraftUpdate{ScheduleMode: &deferred})
	if d.Status != models.StatusScheduled {
		t.Errorf("expected deferred mode to force scheduled, got %q", d.Status)
	}

	scheduled := models.StatusScheduled
	d, _ = st.UpdateDraft(transfer.DraftUpdate{Status: &draft})
	if d.ScheduleMode != models.ScheduleImmediate {
		t.Errorf("expected non-scheduled status to select immediate mode, got %q", d.ScheduleMode)
	}
	d, _ = st.UpdateDraft(transfer.DraftUpdate{Status: &scheduled})
	if d.ScheduleMode != models.ScheduleDeferred {
		t.Errorf("expected scheduled status to select deferred mode, got %q", d.ScheduleMode)
	}

	bad := models.PostType("Carousel")
	if _, err := st.UpdateDraft(transfer.DraftUpdate{PostType: &bad}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}

	st.AddMedia(models.MediaFile{Name: "v.mp4", MimeType: "video/mp4"})
	st.ClearDraft()
	d = st.Draft()
	if d.Content != "" || len(d.Media) != 0 || d.PostType != models.PostTypeTextOnly {
		t.Errorf("expected cleared draft, got %+v", d)
	}
	if d.ScheduleMode != models.ScheduleDeferred {
		t.Errorf("expected schedule choice kept, got %q", d.ScheduleMode)
	}
}
