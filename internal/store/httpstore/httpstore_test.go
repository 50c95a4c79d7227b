package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/testutil"
)

type captured struct {
	method, path, contentType string
	body                      map[string]any
}

// recorder answers every request with status/body and hands back what it saw.
func recorder(t *testing.T, status int, body string) (*httptest.Server, <-chan captured) {
	t.Helper()
	seen := make(chan captured, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := captured{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &got.body)
		}
		seen <- got
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com/", Options{})
	assert.ErrorContains(t, err, "unsupported scheme")

	_, err = New("://nope", Options{})
	assert.Error(t, err)
}

func TestEndpointJoinsBasePath(t *testing.T) {
	s, err := New("https://example.com/api/", Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/items", s.endpoint())
	assert.Equal(t, "https://example.com/api/items/12", s.endpoint("12"))

	s, err = New("http://localhost:4000", Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/items", s.endpoint())
}

func TestCreateSendsBody(t *testing.T) {
	srv, seen := recorder(t, http.StatusCreated, `{"id":5,"description":"x","status":"pending","creationDate":"2024-01-01T00:00:00Z"}`)
	s, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)

	created, err := s.Create(context.Background(), model.NewItem{
		Description:  "x",
		Status:       model.StatusPending,
		CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	got := <-seen
	assert.Equal(t, 5, created.ID)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/items", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, map[string]any{
		"description":  "x",
		"status":       "pending",
		"creationDate": "2024-01-01T00:00:00Z",
	}, got.body)
}

func TestUpdateStatusSendsPatch(t *testing.T) {
	srv, seen := recorder(t, http.StatusOK, "")
	s, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)

	_, err = s.UpdateStatus(context.Background(), 3, model.StatusUpdate{Description: "d", Status: model.StatusCompleted})

	require.NoError(t, err)
	got := <-seen
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/items/3", got.path)
	assert.Equal(t, map[string]any{"description": "d", "status": "completed"}, got.body)
}

func TestDeleteSendsNoBody(t *testing.T) {
	srv, seen := recorder(t, http.StatusOK, `{"deleted":true}`)
	s, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), 8))
	got := <-seen
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/items/8", got.path)
	assert.Empty(t, got.contentType)
	assert.Nil(t, got.body)
}

func TestNon2xxIsStatusError(t *testing.T) {
	srv, _ := recorder(t, http.StatusServiceUnavailable, "down")
	s, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)

	_, err = s.List(context.Background())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.MethodGet, se.Method)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.ErrorContains(t, err, "list items")
}

func TestListDecodeFailure(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, `[{"id":1,"status":"archived"}]`)
	s, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)

	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestListEmptyBodyIsEmptyList(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, "")
	s, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)

	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/"
	srv.Close()

	s, err := New(url, Options{})
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.Error(t, err)
}

func TestTimeoutAppliesPerRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	s, err := New(srv.URL+"/", Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = s.List(context.Background())
	assert.Error(t, err)
}

func TestRequestsAreLoggedWithIDs(t *testing.T) {
	remote := testutil.NewFakeRemote(t)
	var buf bytes.Buffer
	s, err := New(remote.URL(), Options{Logger: log.New(&buf, "", 0)})
	require.NoError(t, err)

	_, err = s.List(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "GET "+remote.URL()+"items")
	assert.Contains(t, out, "] 200")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var ids []string
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "["), line)
		end := strings.Index(line, "]")
		require.Positive(t, end, line)
		id := line[1:end]
		_, err := uuid.Parse(id)
		assert.NoError(t, err, line)
		ids = append(ids, id)
	}
	assert.Equal(t, ids[0], ids[1], "request and response share an id")
}

func TestRoundTripAgainstFake(t *testing.T) {
	remote := testutil.NewFakeRemote(t)
	s, err := New(remote.URL(), Options{})
	require.NoError(t, err)
	ctx := context.Background()

	created, err := s.Create(ctx, model.NewItem{Description: "buy milk", Status: model.StatusPending, CreationDate: time.Now()})
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, created.ID, model.StatusUpdate{Description: "buy milk", Status: model.StatusCompleted})
	require.NoError(t, err)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.StatusCompleted, items[0].Status)

	require.NoError(t, s.Delete(ctx, created.ID))
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
