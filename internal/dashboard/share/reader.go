// Package share implements the credential-less read path behind public
// share links. A Reader fetches exactly one project by its public ID and is
// never handed the synchronization store or the session, so it structurally
// cannot observe or leak any other project's data.
package share

import (
	"context"
	"errors"
	"sync"

	"github.com/highimexy/Bugly/internal/dashboard/client"
	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// State describes what the share view should render.
type State int

const (
	StateLoading State = iota
	StateFound
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not found"
	}
	return "unknown"
}

// Reader serves a single public project view.
type Reader struct {
	api *client.Client

	mu      sync.Mutex
	state   State
	project *domain.Project
}

// NewReader creates a reader talking directly to the API at baseURL. It
// builds its own client on purpose: isolation from the rest of the dashboard
// is the point, not an implementation detail.
func NewReader(baseURL string) *Reader {
	return &Reader{api: client.New(baseURL)}
}

// Load fetches the project once. A missing project resolves to NotFound; a
// transport failure leaves the reader in Loading and returns the error so
// the caller can retry.
func (r *Reader) Load(ctx context.Context, projectID string) error {
	project, err := r.api.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.set(StateNotFound, nil)
			return nil
		}
		return err
	}
	r.set(StateFound, project)
	return nil
}

// State returns the current state and, when found, the project.
func (r *Reader) State() (State, *domain.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.project
}

func (r *Reader) set(state State, project *domain.Project) {
	r.mu.Lock()
	r.state = state
	r.project = project
	r.mu.Unlock()
}
