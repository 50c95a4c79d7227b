// Package testutil provides an in-process stand-in for the remote task API.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/idilsaglam/taskboard/internal/model"
)

// Request is one call the fake received.
type Request struct {
	Method string
	Path   string
}

// FakeRemote serves the items collection from memory.
type FakeRemote struct {
	mu       sync.Mutex
	items    []model.Item
	nextID   int
	requests []Request

	failures  map[string]int // method -> status code
	malformed bool

	server *httptest.Server
}

// NewFakeRemote starts a fake seeded with items and stops it when t ends.
func NewFakeRemote(t testing.TB, seed ...model.Item) *FakeRemote {
	t.Helper()

	f := &FakeRemote{nextID: 1, failures: make(map[string]int)}
	for _, it := range seed {
		f.items = append(f.items, it)
		if it.ID >= f.nextID {
			f.nextID = it.ID + 1
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(f.record)
	e.GET("/items", f.list)
	e.POST("/items", f.create)
	e.PATCH("/items/:id", f.update)
	e.DELETE("/items/:id", f.delete)

	f.server = httptest.NewServer(e)
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base URL to hand to the store, with a trailing slash.
func (f *FakeRemote) URL() string { return f.server.URL + "/" }

// Items returns a copy of the remote state.
func (f *FakeRemote) Items() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Item(nil), f.items...)
}

// Requests returns every call received so far, in order.
func (f *FakeRemote) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count reports how many calls matched method.
func (f *FakeRemote) Count(method string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// Fail makes every request with method answer code. Zero clears it.
func (f *FakeRemote) Fail(method string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = code
}

// MalformList makes GET /items answer 200 with a body that is not JSON.
func (f *FakeRemote) MalformList(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.malformed = on
}

// Reset forgets recorded requests.
func (f *FakeRemote) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

func (f *FakeRemote) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f.mu.Lock()
		f.requests = append(f.requests, Request{Method: c.Request().Method, Path: c.Request().URL.Path})
		f.mu.Unlock()
		return next(c)
	}
}

func (f *FakeRemote) list(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code := f.failures[http.MethodGet]; code != 0 {
		return c.NoContent(code)
	}
	if f.malformed {
		return c.String(http.StatusOK, "<html>not json</html>")
	}
	out := append([]model.Item{}, f.items...)
	return c.JSON(http.StatusOK, out)
}

func (f *FakeRemote) create(c echo.Context) error {
	var in model.NewItem
	if err := c.Bind(&in); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if code := f.failures[http.MethodPost]; code != 0 {
		return c.NoContent(code)
	}
	it := model.Item{
		ID:           f.nextID,
		Description:  in.Description,
		Status:       in.Status,
		CreationDate: in.CreationDate,
	}
	f.nextID++
	f.items = append(f.items, it)
	return c.JSON(http.StatusCreated, it)
}

func (f *FakeRemote) update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	var in model.StatusUpdate
	if err := c.Bind(&in); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if code := f.failures[http.MethodPatch]; code != 0 {
		return c.NoContent(code)
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Description = in.Description
			f.items[i].Status = in.Status
			return c.JSON(http.StatusOK, f.items[i])
		}
	}
	return c.NoContent(http.StatusNotFound)
}

func (f *FakeRemote) delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if code := f.failures[http.MethodDelete]; code != 0 {
		return c.NoContent(code)
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.NoContent(http.StatusNotFound)
}

// SetStatus lets a test flip an item on the remote side directly.
func (f *FakeRemote) SetStatus(id int, st model.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = st
		}
	}
}
