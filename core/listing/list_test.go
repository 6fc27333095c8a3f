package listing

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	ClassID string `json:"classId"`
}

// fakeBackend is a mutable in-memory table recording each query it serves.
type fakeBackend struct {
	mu      sync.Mutex
	rows    []row
	queries []Query
	fail    error
}

func newBackend(n int) *fakeBackend {
	b := &fakeBackend{}
	for i := 1; i <= n; i++ {
		b.rows = append(b.rows, row{ID: i, Name: fmt.Sprintf("student %02d", i), ClassID: strconv.Itoa(i%2 + 1)})
	}
	return b
}

func (b *fakeBackend) fetch(ctx context.Context, q Query) (Result[row], error) {
	b.mu.Lock()
	b.queries = append(b.queries, q)
	rows := append([]row(nil), b.rows...)
	fail := b.fail
	b.mu.Unlock()
	if fail != nil {
		return Result[row]{}, fail
	}
	return FromSlice(rows)(ctx, q)
}

func (b *fakeBackend) delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.rows {
		if strconv.Itoa(r.ID) == id {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queries)
}

func (b *fakeBackend) last() Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queries[len(b.queries)-1]
}

func ids(items []row) []int {
	out := make([]int, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestList_paging(t *testing.T) {
	ctx := context.Background()
	b := newBackend(25)
	l := New(b.fetch)

	require.NoError(t, l.Load(ctx))
	assert.Equal(t, PageState{Index: 0, Size: 10, Total: 25}, l.Page())
	assert.Equal(t, 3, l.Page().Pages())
	assert.Equal(t, Loaded, l.State())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(l.Items()))
	assert.Equal(t, Query{Page: 0, Size: 10, SortBy: "id", SortDir: "asc", Filters: FilterSet{}}, b.last())

	calls := b.calls()
	assert.Equal(t, ErrNoPrevPage, l.Prev(ctx))
	assert.Equal(t, calls, b.calls(), "no fetch at the first page")

	require.NoError(t, l.Next(ctx))
	require.NoError(t, l.Next(ctx))
	assert.Equal(t, 2, l.Page().Index)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, ids(l.Items()))
	calls = b.calls()
	assert.Equal(t, ErrNoNextPage, l.Next(ctx))
	assert.Equal(t, calls, b.calls(), "no fetch at the last page")

	require.NoError(t, l.Prev(ctx))
	assert.Equal(t, 1, b.last().Page)

	require.NoError(t, l.GoTo(ctx, 99))
	assert.Equal(t, 2, l.Page().Index)
	require.NoError(t, l.GoTo(ctx, -3))
	assert.Equal(t, 0, l.Page().Index)
}

func TestList_searchAndFilters(t *testing.T) {
	ctx := context.Background()
	b := newBackend(25)
	l := New(b.fetch, WithPageSize(5), WithSort("name", "DESC"))
	require.NoError(t, l.Load(ctx))
	require.NoError(t, l.GoTo(ctx, 3))

	require.NoError(t, l.SetSearch(ctx, "STUDENT 1"))
	assert.Equal(t, 0, l.Page().Index, "search resets the page")
	assert.Equal(t, Query{Page: 0, Size: 5, Search: "STUDENT 1", SortBy: "name", SortDir: "desc", Filters: FilterSet{}}, b.last())
	assert.Equal(t, 10, l.Page().Total) // 10..19
	assert.Equal(t, []int{19, 18, 17, 16, 15}, ids(l.Items()))

	calls := b.calls()
	require.NoError(t, l.SetSearch(ctx, "STUDENT 1"))
	assert.Equal(t, calls, b.calls(), "unchanged search does not refetch")

	require.NoError(t, l.Next(ctx))
	require.NoError(t, l.SetFilter(ctx, "classId", "1"))
	assert.Equal(t, 0, l.Page().Index, "filter resets the page")
	assert.Equal(t, FilterSet{"classId": "1"}, b.last().Filters)
	assert.Equal(t, 5, l.Page().Total)

	calls = b.calls()
	require.NoError(t, l.SetFilter(ctx, "classId", "1"))
	require.NoError(t, l.ClearFilter(ctx, "divisionId"))
	assert.Equal(t, calls, b.calls())

	require.NoError(t, l.ResetFilters(ctx))
	assert.Empty(t, b.last().Filters)
	assert.Equal(t, 10, l.Page().Total)

	require.NoError(t, l.SetPageSize(ctx, 3))
	assert.Equal(t, 4, l.Page().Pages())
	assert.Equal(t, ErrInvalidPageSize, l.SetPageSize(ctx, 0))
}

func TestList_failure(t *testing.T) {
	ctx := context.Background()
	b := newBackend(25)
	l := New(b.fetch)
	require.NoError(t, l.Load(ctx))
	require.NoError(t, l.Next(ctx))

	b.fail = errors.New("Network Error")
	err := l.Refresh(ctx)
	require.EqualError(t, err, "Network Error")
	assert.Empty(t, l.Items())
	assert.Equal(t, Failed, l.State())
	assert.Equal(t, "Network Error", l.ErrMessage())
	assert.Equal(t, PageState{Index: 0, Size: 10, Total: 0}, l.Page())

	b.fail = nil
	require.NoError(t, l.Refresh(ctx))
	assert.Equal(t, "", l.ErrMessage())
	assert.Len(t, l.Items(), 10)
}

func TestList_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("no deleter", func(t *testing.T) {
		l := New(newBackend(1).fetch)
		_, err := l.Delete(ctx, "1")
		assert.Equal(t, ErrNoDeleter, err)
	})

	t.Run("declined", func(t *testing.T) {
		b := newBackend(3)
		var prompt string
		l := New(b.fetch, WithDeleter(b.delete), WithName("Student"), WithConfirmer(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return false, nil
		}))
		require.NoError(t, l.Load(ctx))
		ok, err := l.Delete(ctx, "2")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "Are you sure you want to delete Student 2?", prompt)
		assert.Len(t, b.rows, 3)
	})

	t.Run("last item of last page", func(t *testing.T) {
		b := newBackend(11)
		yes := func(context.Context, string) (bool, error) { return true, nil }
		l := New(b.fetch, WithDeleter(b.delete), WithConfirmer(yes))
		require.NoError(t, l.Load(ctx))
		require.NoError(t, l.Next(ctx))
		assert.Equal(t, []int{11}, ids(l.Items()))

		ok, err := l.Delete(ctx, "11")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, PageState{Index: 0, Size: 10, Total: 10}, l.Page())
		assert.Len(t, l.Items(), 10)
	})

	t.Run("delete failure keeps items", func(t *testing.T) {
		b := newBackend(2)
		yes := func(context.Context, string) (bool, error) { return true, nil }
		l := New(b.fetch, WithDeleter(b.delete), WithConfirmer(yes))
		require.NoError(t, l.Load(ctx))
		_, err := l.Delete(ctx, "99")
		require.Error(t, err)
		assert.Len(t, l.Items(), 2)
	})
}

func TestList_staleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	fetch := func(ctx context.Context, q Query) (Result[row], error) {
		if q.Search == "" {
			once.Do(func() { close(started) })
			<-release // a slow server ignoring cancellation
			return Result[row]{Items: []row{{ID: 1, Name: "old"}}, Total: 1}, nil
		}
		return Result[row]{Items: []row{{ID: 2, Name: "new"}}, Total: 1}, nil
	}
	l := New(fetch)

	done := make(chan error)
	go func() { done <- l.Load(ctx) }()
	<-started
	assert.Equal(t, ErrBusy, l.Next(ctx))
	require.NoError(t, l.SetSearch(ctx, "new"))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []int{2}, ids(l.Items()))
	assert.Equal(t, Loaded, l.State())
}

func TestPageState(t *testing.T) {
	tests := []struct {
		p         PageState
		wantPages int
		wantNext  bool
	}{
		{p: PageState{Size: 10}, wantPages: 1},
		{p: PageState{Size: 10, Total: 10}, wantPages: 1},
		{p: PageState{Size: 10, Total: 11}, wantPages: 2, wantNext: true},
		{p: PageState{Index: 1, Size: 10, Total: 11}, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+v", tt.p), func(t *testing.T) {
			assert.Equal(t, tt.wantPages, tt.p.Pages())
			assert.Equal(t, tt.wantNext, tt.p.HasNext())
		})
	}
}

func TestFromSlice(t *testing.T) {
	rows := newBackend(12).rows
	fetch := FromSlice(rows)
	res, err := fetch(context.Background(), Query{Page: 1, Size: 5, Filters: FilterSet{"classId": "2"}, SortBy: "id", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, []int{11}, ids(res.Items))

	res, err = fetch(context.Background(), Query{Size: 5, Search: "STUDENT 0", Filters: FilterSet{"id": "3"}})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids(res.Items))
}
