package share

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects/PRJ-1000", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "share reads carry no credential")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"PRJ-1000","name":"Alpha","color":"blue","bugs":[{"id":"BUG-1","projectId":"PRJ-1000","title":"crash","priority":"High"}]}`))
	}))
	defer server.Close()

	r := NewReader(server.URL)

	state, _ := r.State()
	assert.Equal(t, StateLoading, state)

	require.NoError(t, r.Load(context.Background(), "PRJ-1000"))

	state, project := r.State()
	assert.Equal(t, StateFound, state)
	require.NotNil(t, project)
	assert.Equal(t, "Alpha", project.Name)
	require.Len(t, project.Bugs, 1)
}

func TestLoad_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewReader(server.URL)
	require.NoError(t, r.Load(context.Background(), "PRJ-9999"))

	state, project := r.State()
	assert.Equal(t, StateNotFound, state)
	assert.Nil(t, project)
}

// A reader never sees more than the one project it asked for, no matter how
// much data the backend holds. The single-project endpoint is the only call
// it can make.
func TestLoad_IsolatedToOneProject(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewReader(server.URL)
	require.NoError(t, r.Load(context.Background(), "PRJ-9999"))

	state, project := r.State()
	assert.Equal(t, StateNotFound, state)
	assert.Nil(t, project)
	assert.Equal(t, []string{"/projects/PRJ-9999"}, paths, "exactly one scoped fetch, never the collection")
}

func TestLoad_TransportFailureStaysLoading(t *testing.T) {
	r := NewReader("http://127.0.0.1:1")
	err := r.Load(context.Background(), "PRJ-1000")
	require.Error(t, err)

	state, _ := r.State()
	assert.Equal(t, StateLoading, state, "a transport failure is not a NotFound")
}
