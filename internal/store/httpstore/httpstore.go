package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskboard/internal/model"
)

// HTTP-backed storage. The remote collaborator is the source of truth;
// nothing is cached here.

const collection = "items"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Options tune the store. The zero value is usable.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// Client overrides the HTTP client (tests).
	Client *http.Client
	// Logger receives one line per request. Nil disables request logging.
	Logger *log.Logger
}

type Store struct {
	base   *url.URL
	client *http.Client
	logger *log.Logger
}

// New builds a store rooted at baseURL, e.g. "http://localhost:4000/".
func New(baseURL string, opt Options) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url: unsupported scheme %q", u.Scheme)
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: opt.Timeout}
	}
	return &Store{base: u, client: client, logger: opt.Logger}, nil
}

// BaseURL reports where the store sends requests.
func (s *Store) BaseURL() string { return s.base.String() }

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := s.do(ctx, http.MethodGet, s.endpoint(), nil, &items); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, in model.NewItem) (model.Item, error) {
	var out model.Item
	if err := s.do(ctx, http.MethodPost, s.endpoint(), in, &out); err != nil {
		return model.Item{}, fmt.Errorf("create item: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int, upd model.StatusUpdate) (model.Item, error) {
	var out model.Item
	if err := s.do(ctx, http.MethodPatch, s.endpoint(strconv.Itoa(id)), upd, &out); err != nil {
		return model.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	if err := s.do(ctx, http.MethodDelete, s.endpoint(strconv.Itoa(id)), nil, nil); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}

func (s *Store) endpoint(elem ...string) string {
	return s.base.JoinPath(append([]string{collection}, elem...)...).String()
}

// do sends one JSON request. A nil body sends nothing; a nil out discards the
// response body. An empty success body leaves out untouched.
func (s *Store) do(ctx context.Context, method, target string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqID := uuid.NewString()
	s.logf("[%s] %s %s", reqID, method, target)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logf("[%s] failed: %v", reqID, err)
		return err
	}
	defer resp.Body.Close()
	s.logf("[%s] %d", reqID, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, URL: target, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
