// Package board holds the task board state and the operations that keep it
// in step with the remote collaborator.
//
// A Board is not safe for concurrent use. Its remote halves (Fetch, Submit,
// Patch, Remove) read only fields fixed at construction and may run on any
// goroutine; everything else belongs to the goroutine that owns the board.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"github.com/idilsaglam/taskboard/internal/model"
)

// ErrItemNotFound means an operation named an id the board does not hold.
var ErrItemNotFound = errors.New("item not found")

// Remote is the collaborator owning durable task storage.
type Remote interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, in model.NewItem) (model.Item, error)
	UpdateStatus(ctx context.Context, id int, upd model.StatusUpdate) (model.Item, error)
	Delete(ctx context.Context, id int) error
}

// Options configure a Board.
type Options struct {
	Logger   *log.Logger
	SortMode model.SortMode
	// Now stamps new items. Defaults to time.Now.
	Now func() time.Time
}

type Board struct {
	remote Remote
	logger *log.Logger
	now    func() time.Time

	items    []model.Item
	draft    string
	sortMode model.SortMode
}

func New(remote Remote, opt Options) *Board {
	b := &Board{
		remote:   remote,
		logger:   opt.Logger,
		now:      opt.Now,
		items:    []model.Item{},
		sortMode: opt.SortMode,
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard, "", 0)
	}
	if b.now == nil {
		b.now = time.Now
	}
	if !b.sortMode.Valid() {
		b.sortMode = model.OldestFirst
	}
	return b
}

// ---------------------------------------------------
// State
// ---------------------------------------------------

// Items returns the cached list in display order.
func (b *Board) Items() []model.Item { return slices.Clone(b.items) }

func (b *Board) Pending() []model.Item {
	p, _ := Partition(b.items)
	return p
}

func (b *Board) Completed() []model.Item {
	_, c := Partition(b.items)
	return c
}

func (b *Board) Draft() string            { return b.draft }
func (b *Board) SetDraft(s string)        { b.draft = s }
func (b *Board) ClearDraft()              { b.draft = "" }
func (b *Board) SortMode() model.SortMode { return b.sortMode }

// SetSortMode reports false, changing nothing, for an invalid mode.
func (b *Board) SetSortMode(m model.SortMode) bool {
	if !m.Valid() {
		return false
	}
	b.sortMode = m
	return true
}

// Lookup finds a cached item by id.
func (b *Board) Lookup(id int) (model.Item, bool) {
	for _, it := range b.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// Apply replaces the cache wholesale with a fetched list. Repeated ids keep
// their first occurrence.
func (b *Board) Apply(items []model.Item) {
	seen := make(map[int]struct{}, len(items))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			b.logger.Printf("refresh: dropped duplicate item %d", it.ID)
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	b.items = out
}

// ToggleRequest builds the status flip for id from the cached item.
func (b *Board) ToggleRequest(id int) (model.StatusUpdate, error) {
	it, ok := b.Lookup(id)
	if !ok {
		err := fmt.Errorf("toggle %d: %w", id, ErrItemNotFound)
		b.logger.Printf("internal error: %v", err)
		return model.StatusUpdate{}, err
	}
	return model.StatusUpdate{Description: it.Description, Status: it.Status.Toggle()}, nil
}

// ---------------------------------------------------
// Remote halves: no board state is read or written
// ---------------------------------------------------

// Fetch reads the whole collection and orders it for mode.
func (b *Board) Fetch(ctx context.Context, mode model.SortMode) ([]model.Item, error) {
	items, err := b.remote.List(ctx)
	if err != nil {
		b.logger.Printf("refresh: %v", err)
		return nil, err
	}
	return SortItems(items, mode), nil
}

// Submit creates a pending item stamped with the current time.
func (b *Board) Submit(ctx context.Context, description string) error {
	_, err := b.remote.Create(ctx, model.NewItem{
		Description:  description,
		Status:       model.StatusPending,
		CreationDate: b.now(),
	})
	if err != nil {
		b.logger.Printf("create: %v", err)
	}
	return err
}

func (b *Board) Patch(ctx context.Context, id int, upd model.StatusUpdate) error {
	_, err := b.remote.UpdateStatus(ctx, id, upd)
	if err != nil {
		b.logger.Printf("toggle: %v", err)
	}
	return err
}

func (b *Board) Remove(ctx context.Context, id int) error {
	if err := b.remote.Delete(ctx, id); err != nil {
		b.logger.Printf("delete: %v", err)
		return err
	}
	b.logger.Printf("deleted item %d", id)
	return nil
}

// ---------------------------------------------------
// Operations
// ---------------------------------------------------

// Refresh replaces the cache from the remote. On failure the cache is kept.
func (b *Board) Refresh(ctx context.Context) error {
	items, err := b.Fetch(ctx, b.sortMode)
	if err != nil {
		return err
	}
	b.Apply(items)
	return nil
}

// CreateItem submits description and clears the draft once it is accepted.
func (b *Board) CreateItem(ctx context.Context, description string) error {
	if err := b.Submit(ctx, description); err != nil {
		return err
	}
	b.ClearDraft()
	return b.Refresh(ctx)
}

// DeleteItem does not check that id is cached; the remote decides.
func (b *Board) DeleteItem(ctx context.Context, id int) error {
	if err := b.Remove(ctx, id); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

func (b *Board) ToggleStatus(ctx context.Context, id int) error {
	upd, err := b.ToggleRequest(id)
	if err != nil {
		return err
	}
	if err := b.Patch(ctx, id, upd); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

// ChangeSortMode ignores invalid modes and otherwise refreshes once.
func (b *Board) ChangeSortMode(ctx context.Context, m model.SortMode) error {
	if !b.SetSortMode(m) {
		return nil
	}
	return b.Refresh(ctx)
}
