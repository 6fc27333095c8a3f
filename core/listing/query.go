package listing

import (
	"context"
	"sort"
	"strings"
)

const (
	DefaultPageSize = 10
	DefaultSortBy   = "id"
	SortAsc         = "asc"
	SortDesc        = "desc"
)

// FilterSet holds the selected filter values. Empty values are never stored.
type FilterSet map[string]string

func (f FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (f FilterSet) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Query is everything a fetch depends on.
type Query struct {
	Page    int
	Size    int
	Search  string
	SortBy  string
	SortDir string
	Filters FilterSet
}

func (q Query) clone() Query {
	q.Filters = q.Filters.Clone()
	return q
}

// PageState is the pagination window of the last completed fetch.
type PageState struct {
	Index int
	Size  int
	Total int
}

// Pages is never below 1, so an empty list still has a page 0.
func (p PageState) Pages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

func (p PageState) HasPrev() bool { return p.Index > 0 }

func (p PageState) HasNext() bool { return p.Index+1 < p.Pages() }

func (p PageState) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if last := p.Pages() - 1; i > last {
		return last
	}
	return i
}

type Result[T any] struct {
	Items []T
	Total int
}

type (
	Fetcher[T any] func(ctx context.Context, q Query) (Result[T], error)
	Deleter        func(ctx context.Context, id string) error
	// Confirmer asks the user before a destructive action.
	Confirmer func(ctx context.Context, prompt string) (bool, error)
)

type Option struct {
	Label string
	Value string
}

// FilterDef describes one filter for the filter panel.
type FilterDef struct {
	Key     string
	Label   string
	Options []Option
}

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "idle"
}

func normSortDir(dir string) string {
	if strings.EqualFold(dir, SortDesc) {
		return SortDesc
	}
	return SortAsc
}
