// Package store owns the dashboard's canonical project and bug state. It
// translates user intents into API calls and re-derives the whole snapshot
// from the server after every write: no optimistic local mutation, no
// patching. The extra round trip per mutation buys out any client/server
// divergence.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/internal/dashboard/client"
	"github.com/highimexy/Bugly/internal/dashboard/session"
	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("store is closed")

// createAttempts bounds the retry loop when the server rejects a
// client-generated ID as a duplicate.
const createAttempts = 3

// Store is the single mutable owner of the project/bug snapshot. UI
// consumers read copies via Snapshot; only the store writes.
type Store struct {
	api     *client.Client
	session *session.Session

	root   context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	projects []domain.Project
	bugs     []domain.Bug
	loading  bool
	closed   bool
}

// New creates a store in the loading state; callers usually follow up with
// an initial Refresh.
func New(api *client.Client, sess *session.Session) *Store {
	root, cancel := context.WithCancel(context.Background())
	return &Store{
		api:     api,
		session: sess,
		root:    root,
		cancel:  cancel,
		loading: true,
	}
}

// Close tears the store down: in-flight requests are cancelled and any late
// response is discarded instead of being applied to a disposed store.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// opContext scopes a request to both the caller's context and the store's
// lifetime, so Close cancels whatever is still in flight.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.root, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Refresh replaces the snapshot with the server's current state. Without a
// credential it empties the snapshot and returns without any network call.
// On transport failure the previous snapshot is retained; on an unauthorized
// response the credential is discarded and the snapshot emptied.
func (s *Store) Refresh(ctx context.Context) error {
	ctx, done := s.opContext(ctx)
	defer done()

	token, ok := s.session.Token()
	if !ok {
		return s.apply(nil)
	}

	projects, err := s.api.ListProjects(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.session.Invalidate()
			if applyErr := s.apply(nil); applyErr != nil {
				return applyErr
			}
			return err
		}
		log.Error().Err(err).Msg("refresh failed, keeping previous snapshot")
		s.stopLoading()
		return err
	}
	if applyErr := s.apply(projects); applyErr != nil {
		return applyErr
	}
	return nil
}

// AddProject mints a project ID, creates the project and refreshes. The new
// ID is returned so navigation can route to the project; it is empty exactly
// when creation failed. A duplicate-ID rejection is retried with a fresh ID.
func (s *Store) AddProject(ctx context.Context, name, color string) (string, error) {
	if name == "" {
		return "", domain.ErrNameRequired
	}

	ctx, done := s.opContext(ctx)
	defer done()

	token, ok := s.session.Token()
	if !ok {
		return "", domain.ErrUnauthorized
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		id, err := domain.NewProjectID()
		if err != nil {
			return "", fmt.Errorf("generate project id: %w", err)
		}

		err = s.api.CreateProject(ctx, token, domain.Project{ID: id, Name: name, Color: color})
		if err == nil {
			return id, s.Refresh(ctx)
		}
		if errors.Is(err, domain.ErrDuplicateID) {
			lastErr = err
			continue
		}
		return "", s.observe(err)
	}
	return "", lastErr
}

// DeleteProject deletes a project and refreshes. Existence is the server's
// call; the store does not pre-validate.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	ctx, done := s.opContext(ctx)
	defer done()

	token, ok := s.session.Token()
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.api.DeleteProject(ctx, token, id); err != nil {
		return s.observe(err)
	}
	return s.Refresh(ctx)
}

// AddBug allocates the next sequential bug ID for the draft's project from
// the local snapshot, creates the bug and refreshes. The allocation is not
// done under any server-side lock, so a concurrent session can race to the
// same ID; the server rejects the duplicate and the store retries after a
// refresh with a freshly computed maximum.
func (s *Store) AddBug(ctx context.Context, draft domain.BugDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	ctx, done := s.opContext(ctx)
	defer done()

	token, ok := s.session.Token()
	if !ok {
		return domain.ErrUnauthorized
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		if attempt > 0 {
			if err := s.Refresh(ctx); err != nil {
				return err
			}
		}

		s.mu.RLock()
		id := domain.NextBugID(s.bugs, draft.ProjectID)
		s.mu.RUnlock()

		bug := domain.Bug{
			ID:               id,
			ProjectID:        draft.ProjectID,
			Title:            draft.Title,
			StepsToReproduce: draft.StepsToReproduce,
			ActualResult:     draft.ActualResult,
			ExpectedResult:   draft.ExpectedResult,
			Priority:         draft.Priority,
			Device:           draft.Device,
			ScreenshotURL:    draft.ScreenshotURL,
		}

		err := s.api.CreateBug(ctx, token, bug)
		if err == nil {
			return s.Refresh(ctx)
		}
		if errors.Is(err, domain.ErrDuplicateID) {
			log.Warn().Str("bug_id", id).Str("project_id", draft.ProjectID).
				Msg("bug id taken by a concurrent session, refreshing and retrying")
			lastErr = err
			continue
		}
		return s.observe(err)
	}
	return lastErr
}

// DeleteBug deletes one bug, addressed by the composite key, and refreshes.
func (s *Store) DeleteBug(ctx context.Context, bugID, projectID string) error {
	ctx, done := s.opContext(ctx)
	defer done()

	token, ok := s.session.Token()
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.api.DeleteBug(ctx, token, projectID, bugID); err != nil {
		return s.observe(err)
	}
	return s.Refresh(ctx)
}

// Snapshot returns copies of the current project list and the flattened bug
// list. The two are always consistent: the bug list is derived from the
// project list under the same lock that replaced it.
func (s *Store) Snapshot() ([]domain.Project, []domain.Bug) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]domain.Project, len(s.projects))
	copy(projects, s.projects)
	bugs := make([]domain.Bug, len(s.bugs))
	copy(bugs, s.bugs)
	return projects, bugs
}

// Loading reports whether the store has yet to settle after creation or a
// refresh attempt.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// apply atomically replaces the snapshot and its flattened derivation.
// A store closed while the request was in flight refuses the late result.
func (s *Store) apply(projects []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.projects = projects
	s.bugs = domain.FlattenBugs(projects)
	s.loading = false
	return nil
}

func (s *Store) stopLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// observe maps an API error to session state: an unauthorized response
// discards the credential so subsequent guarded calls short-circuit.
func (s *Store) observe(err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		s.session.Invalidate()
	}
	return err
}
