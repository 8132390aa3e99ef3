package state

import (
	"context"
	"log/slog"
	"slices"

	"github.com/maheshrc27/postbatch/internal/models"
)

// Refresh reloads the post list and flags Loading while it runs.
func (s *AppState) Refresh(ctx context.Context) error {
	return s.fetchPosts(ctx, false)
}

// RefreshSilently reloads the post list without touching Loading.
func (s *AppState) RefreshSilently(ctx context.Context) error {
	return s.fetchPosts(ctx, true)
}

// fetchPosts never clears the list on failure. Concurrent fetches are not
// cancelled; whichever finishes last wins.
func (s *AppState) fetchPosts(ctx context.Context, silent bool) error {
	if !silent {
		s.mu.Lock()
		s.loading++
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			s.loading--
			s.mu.Unlock()
		}()
	}

	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		slog.Error("failed to fetch posts", "silent", silent, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.posts = posts
	}
	return nil
}

// RefreshDestinations reloads destinations and selects the first one when
// nothing is selected yet.
func (s *AppState) RefreshDestinations(ctx context.Context) error {
	dests, err := s.store.ListDestinations(ctx)
	if err != nil {
		slog.Error("failed to fetch destinations", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.destinations = dests
	if len(s.selected) == 0 && len(dests) > 0 {
		s.selected = []string{dests[0].ID}
	}
	return nil
}

func (s *AppState) RefreshConfig(ctx context.Context) error {
	config, err := s.store.GetConfig(ctx)
	if err != nil {
		slog.Error("failed to fetch config", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.config = config
	}
	return nil
}

// Sync is the focus-time refresh: posts silently, then destinations and
// config. Failures are logged and the previous data kept.
func (s *AppState) Sync(ctx context.Context) {
	_ = s.RefreshSilently(ctx)
	_ = s.RefreshDestinations(ctx)
	_ = s.RefreshConfig(ctx)
}

// UpdatePost applies u locally first, then sends it to the store.
func (s *AppState) UpdatePost(ctx context.Context, id string, u models.PostUpdate) error {
	if u.Status != nil && !u.Status.Valid() {
		return ErrInvalidValue
	}

	s.mu.Lock()
	i := slices.IndexFunc(s.posts, func(p models.ScheduledPost) bool { return p.ID == id })
	if i >= 0 {
		u.Apply(&s.posts[i])
	}
	s.mu.Unlock()

	if i < 0 {
		return ErrUnknownPost
	}
	return s.store.UpdatePost(ctx, id, u)
}

// DeletePost removes the post locally first, then from the store.
func (s *AppState) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	s.posts = slices.DeleteFunc(s.posts, func(p models.ScheduledPost) bool { return p.ID == id })
	s.mu.Unlock()

	return s.store.DeletePost(ctx, id)
}

// AddDestination adds and selects d locally, then persists it.
func (s *AppState) AddDestination(ctx context.Context, d models.Destination) error {
	s.mu.Lock()
	if s.destinationIndex(d.ID) >= 0 {
		s.mu.Unlock()
		return ErrDuplicateDestination
	}
	s.destinations = append(s.destinations, d)
	s.selected = append(s.selected, d.ID)
	s.mu.Unlock()

	return s.store.AddDestination(ctx, d)
}

// UpdateDestination replaces the destination with the same id.
func (s *AppState) UpdateDestination(ctx context.Context, d models.Destination) error {
	s.mu.Lock()
	i := s.destinationIndex(d.ID)
	if i >= 0 {
		s.destinations[i] = d
	}
	s.mu.Unlock()

	if i < 0 {
		return ErrUnknownDestination
	}
	return s.store.UpdateDestination(ctx, d)
}

func (s *AppState) RemoveDestination(ctx context.Context, id string) error {
	s.mu.Lock()
	s.destinations = slices.DeleteFunc(s.destinations, func(d models.Destination) bool { return d.ID == id })
	s.selected = slices.DeleteFunc(s.selected, func(sel string) bool { return sel == id })
	s.mu.Unlock()

	return s.store.RemoveDestination(ctx, id)
}
