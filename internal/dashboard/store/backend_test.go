package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// fakeBackend is an in-memory stand-in for the Bugly API implementing the
// slice of the REST contract the store talks to. It counts requests so tests
// can assert that gated operations never hit the network.
type fakeBackend struct {
	mu       sync.Mutex
	projects []domain.Project
	token    string
	requests int

	server *httptest.Server
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{token: "tok-valid"}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *fakeBackend) Close()      { b.server.Close() }
func (b *fakeBackend) URL() string { return b.server.URL }

func (b *fakeBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

// revokeToken makes every subsequent guarded request come back 401.
func (b *fakeBackend) revokeToken() {
	b.mu.Lock()
	b.token = ""
	b.mu.Unlock()
}

func (b *fakeBackend) seed(projects ...domain.Project) {
	b.mu.Lock()
	b.projects = projects
	b.mu.Unlock()
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests++

	if r.URL.Path == "/login" {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-valid"})
		return
	}

	if b.token == "" || r.Header.Get("Authorization") != "Bearer "+b.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/projects":
		json.NewEncoder(w).Encode(b.projects)

	case r.Method == http.MethodPost && r.URL.Path == "/projects":
		var p domain.Project
		json.NewDecoder(r.Body).Decode(&p)
		for _, existing := range b.projects {
			if existing.ID == p.ID {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		p.CreatedAt = time.Now()
		b.projects = append(b.projects, p)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)

	case r.Method == http.MethodPost && r.URL.Path == "/bugs":
		var bug domain.Bug
		json.NewDecoder(r.Body).Decode(&bug)
		for i, p := range b.projects {
			if p.ID != bug.ProjectID {
				continue
			}
			for _, existing := range p.Bugs {
				if existing.ID == bug.ID {
					w.WriteHeader(http.StatusConflict)
					return
				}
			}
			bug.CreatedAt = time.Now()
			b.projects[i].Bugs = append(b.projects[i].Bugs, bug)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(bug)
			return
		}
		w.WriteHeader(http.StatusNotFound)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/projects/"):
		rest := strings.TrimPrefix(r.URL.Path, "/projects/")
		if projectID, bugID, isBug := strings.Cut(rest, "/bugs/"); isBug {
			b.deleteBug(w, projectID, bugID)
		} else {
			b.deleteProject(w, rest)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) deleteProject(w http.ResponseWriter, id string) {
	for i, p := range b.projects {
		if p.ID == id {
			b.projects = append(b.projects[:i], b.projects[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *fakeBackend) deleteBug(w http.ResponseWriter, projectID, bugID string) {
	for i, p := range b.projects {
		if p.ID != projectID {
			continue
		}
		for j, bug := range p.Bugs {
			if bug.ID == bugID {
				b.projects[i].Bugs = append(p.Bugs[:j], p.Bugs[j+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}
