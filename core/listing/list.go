// Package listing implements a server-paginated, searchable, filterable list.
package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
)

var (
	ErrNoNextPage      = errors.New("already on the last page")
	ErrNoPrevPage      = errors.New("already on the first page")
	ErrBusy            = errors.New("a fetch is in progress")
	ErrNoDeleter       = errors.New("delete is not available for this list")
	ErrNoConfirmer     = errors.New("delete needs a confirmation prompt")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

const defaultErrMessage = "Failed to fetch data."

type ListOption func(*config)

type config struct {
	size    int
	sortBy  string
	sortDir string
	del     Deleter
	confirm Confirmer
	logger  core.Logger
	defs    []FilterDef
	name    string
	filters FilterSet
}

func WithPageSize(n int) ListOption {
	return func(c *config) {
		if n > 0 {
			c.size = n
		}
	}
}

func WithSort(by, dir string) ListOption {
	return func(c *config) {
		if by != "" {
			c.sortBy = by
		}
		c.sortDir = normSortDir(dir)
	}
}

func WithDeleter(d Deleter) ListOption { return func(c *config) { c.del = d } }

func WithConfirmer(fn Confirmer) ListOption { return func(c *config) { c.confirm = fn } }

func WithLogger(l core.Logger) ListOption { return func(c *config) { c.logger = l } }

func WithFilterDefs(defs ...FilterDef) ListOption { return func(c *config) { c.defs = defs } }

// WithName sets the entity name used in the delete prompt.
func WithName(name string) ListOption { return func(c *config) { c.name = name } }

// WithFilters presets filters before the first load.
func WithFilters(f FilterSet) ListOption { return func(c *config) { c.filters = f.Clone() } }

// List is one paginated view over a Fetcher.
// Every mutation of search, filters, page or size refetches; a newer fetch
// supersedes and cancels an older one.
type List[T any] struct {
	fetch Fetcher[T]
	conf  config

	mu     sync.Mutex
	query  Query
	page   PageState
	items  []T
	state  State
	err    error
	gen    uint64
	cancel context.CancelFunc
}

func New[T any](fetch Fetcher[T], opts ...ListOption) *List[T] {
	c := config{size: DefaultPageSize, sortBy: DefaultSortBy, sortDir: SortAsc, logger: core.NopLogger()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.filters == nil {
		c.filters = FilterSet{}
	}
	return &List[T]{
		fetch: fetch,
		conf:  c,
		query: Query{Size: c.size, SortBy: c.sortBy, SortDir: c.sortDir, Filters: c.filters},
		page:  PageState{Size: c.size},
	}
}

// Load fetches the current page.
func (l *List[T]) Load(ctx context.Context) error {
	return l.run(ctx)
}

// Refresh refetches the current page, e.g. after the underlying data changed.
func (l *List[T]) Refresh(ctx context.Context) error {
	return l.run(ctx)
}

func (l *List[T]) SetSearch(ctx context.Context, s string) error {
	l.mu.Lock()
	if l.query.Search == s {
		l.mu.Unlock()
		return nil
	}
	l.query.Search = s
	l.resetPageLocked()
	l.mu.Unlock()
	return l.run(ctx)
}

// SetFilter sets one filter; an empty value clears it.
func (l *List[T]) SetFilter(ctx context.Context, key, value string) error {
	l.mu.Lock()
	if l.query.Filters[key] == value {
		l.mu.Unlock()
		return nil
	}
	if value == "" {
		delete(l.query.Filters, key)
	} else {
		l.query.Filters[key] = value
	}
	l.resetPageLocked()
	l.mu.Unlock()
	return l.run(ctx)
}

func (l *List[T]) ClearFilter(ctx context.Context, key string) error {
	return l.SetFilter(ctx, key, "")
}

func (l *List[T]) ResetFilters(ctx context.Context) error {
	l.mu.Lock()
	if len(l.query.Filters) == 0 {
		l.mu.Unlock()
		return nil
	}
	l.query.Filters = FilterSet{}
	l.resetPageLocked()
	l.mu.Unlock()
	return l.run(ctx)
}

func (l *List[T]) SetPageSize(ctx context.Context, n int) error {
	if n <= 0 {
		return ErrInvalidPageSize
	}
	l.mu.Lock()
	if l.query.Size == n {
		l.mu.Unlock()
		return nil
	}
	l.query.Size = n
	l.page.Size = n
	l.resetPageLocked()
	l.mu.Unlock()
	return l.run(ctx)
}

func (l *List[T]) Next(ctx context.Context) error {
	l.mu.Lock()
	if l.state == Loading {
		l.mu.Unlock()
		return ErrBusy
	}
	if !l.page.HasNext() {
		l.mu.Unlock()
		return ErrNoNextPage
	}
	l.page.Index++
	l.mu.Unlock()
	return l.run(ctx)
}

func (l *List[T]) Prev(ctx context.Context) error {
	l.mu.Lock()
	if l.state == Loading {
		l.mu.Unlock()
		return ErrBusy
	}
	if !l.page.HasPrev() {
		l.mu.Unlock()
		return ErrNoPrevPage
	}
	l.page.Index--
	l.mu.Unlock()
	return l.run(ctx)
}

// GoTo moves to page p, clamped into the known page range.
func (l *List[T]) GoTo(ctx context.Context, p int) error {
	l.mu.Lock()
	l.page.Index = l.page.clamp(p)
	l.mu.Unlock()
	return l.run(ctx)
}

// Delete asks for confirmation, deletes id and reloads the current page.
// It reports whether the record was deleted.
func (l *List[T]) Delete(ctx context.Context, id string) (bool, error) {
	if l.conf.del == nil {
		return false, ErrNoDeleter
	}
	if l.conf.confirm == nil {
		return false, ErrNoConfirmer
	}
	name := l.conf.name
	if name == "" {
		name = "record"
	}
	ok, err := l.conf.confirm(ctx, fmt.Sprintf("Are you sure you want to delete %s %s?", name, id))
	if err != nil {
		return false, errors.Wrap(err, "confirming delete")
	}
	if !ok {
		return false, nil
	}
	if err = l.conf.del(ctx, id); err != nil {
		l.conf.logger.Error("deleting record", errors.Wrap(err, id))
		return false, err
	}
	return true, l.run(ctx)
}

func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Page() PageState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Query returns the query the next fetch would send.
func (l *List[T]) Query() Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queryLocked()
}

func (l *List[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *List[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// ErrMessage is the text to show for the last failed fetch, if any.
func (l *List[T]) ErrMessage() string {
	err := l.Err()
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return defaultErrMessage
}

func (l *List[T]) FilterDefs() []FilterDef {
	return l.conf.defs
}

func (l *List[T]) resetPageLocked() {
	l.page.Index = 0
}

func (l *List[T]) queryLocked() Query {
	q := l.query.clone()
	q.Page = l.page.Index
	q.Size = l.page.Size
	return q
}

// run fetches until the page index is valid for the returned total.
func (l *List[T]) run(ctx context.Context) error {
	for {
		again, err := l.fetchOnce(ctx)
		if err != nil || !again {
			return err
		}
	}
}

func (l *List[T]) fetchOnce(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	fctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = Loading
	q := l.queryLocked()
	l.mu.Unlock()

	res, err := l.fetch(fctx, q)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// superseded by a newer fetch
		return false, nil
	}
	l.cancel = nil
	if err != nil {
		l.items = nil
		l.page.Total = 0
		l.page.Index = 0
		l.state = Failed
		l.err = err
		l.conf.logger.Warn("fetching list", err)
		return false, err
	}

	total := res.Total
	if total < len(res.Items) {
		total = len(res.Items)
	}
	l.items = res.Items
	l.page.Total = total
	l.state = Loaded
	l.err = nil

	if idx := l.page.clamp(l.page.Index); idx != l.page.Index {
		l.page.Index = idx
		return true, nil
	}
	return false, nil
}
