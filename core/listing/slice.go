package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FromSlice serves a list from memory. Filters match the item's JSON fields by
// their string form and search is a case-insensitive match on the whole encoded item.
func FromSlice[T any](items []T) Fetcher[T] {
	type entry struct {
		item   T
		fields map[string]interface{}
		text   string
	}
	entries := make([]entry, 0, len(items))
	for _, it := range items {
		b, _ := json.Marshal(it)
		var fields map[string]interface{}
		_ = json.Unmarshal(b, &fields)
		entries = append(entries, entry{item: it, fields: fields, text: strings.ToLower(string(b))})
	}

	return func(ctx context.Context, q Query) (Result[T], error) {
		if err := ctx.Err(); err != nil {
			return Result[T]{}, err
		}
		search := strings.ToLower(strings.TrimSpace(q.Search))
		matched := make([]entry, 0, len(entries))
	next:
		for _, e := range entries {
			for k, v := range q.Filters {
				if v != "" && fieldString(e.fields[k]) != v {
					continue next
				}
			}
			if search != "" && !strings.Contains(e.text, search) {
				continue
			}
			matched = append(matched, e)
		}

		if q.SortBy != "" {
			desc := q.SortDir == SortDesc
			sort.SliceStable(matched, func(i, j int) bool {
				c := compareValues(matched[i].fields[q.SortBy], matched[j].fields[q.SortBy])
				if desc {
					return c > 0
				}
				return c < 0
			})
		}

		res := Result[T]{Total: len(matched)}
		size := q.Size
		if size <= 0 {
			size = DefaultPageSize
		}
		start := q.Page * size
		if start >= len(matched) {
			return res, nil
		}
		end := start + size
		if end > len(matched) {
			end = len(matched)
		}
		res.Items = make([]T, 0, end-start)
		for _, e := range matched[start:end] {
			res.Items = append(res.Items, e.item)
		}
		return res, nil
	}
}

func fieldString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	}
	return fmt.Sprint(v)
}

func compareValues(a, b interface{}) int {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(fieldString(a)), strings.ToLower(fieldString(b)))
}
