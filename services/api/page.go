package api

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// PageRequest is the body of a getAllBy call. Filters are flattened into the object.
type PageRequest struct {
	Page         int
	Size         int
	SortBy       string
	SortDir      string
	Search       string
	Filters      map[string]string
	ClassList    []string
	DivisionList []string
}

func (p PageRequest) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(p.Filters)+7)
	for k, v := range p.Filters {
		if v != "" {
			m[k] = v
		}
	}
	m["page"] = p.Page
	m["size"] = p.Size
	m["sortBy"] = p.SortBy
	m["sortDir"] = p.SortDir
	m["search"] = p.Search
	if len(p.ClassList) > 0 {
		m["classList"] = p.ClassList
	}
	if len(p.DivisionList) > 0 {
		m["divisionList"] = p.DivisionList
	}
	return json.Marshal(m)
}

// PageResponse accepts the shapes the backend answers lists with:
// {content, totalElements}, {data, totalElements} or a bare array.
type PageResponse[T any] struct {
	Items []T
	Total int
}

func (p *PageResponse[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &p.Items); err != nil {
			return errors.Wrap(err, "decoding list")
		}
		p.Total = len(p.Items)
		return nil
	}

	var env struct {
		Content       json.RawMessage `json:"content"`
		Data          json.RawMessage `json:"data"`
		TotalElements int             `json:"totalElements"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return errors.Wrap(err, "decoding page")
	}
	raw := env.Content
	if isNull(raw) {
		raw = env.Data
	}
	p.Items = nil
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &p.Items); err != nil {
			return errors.Wrap(err, "decoding page items")
		}
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	p.Total = env.TotalElements
	if p.Total <= 0 {
		p.Total = len(p.Items)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// envelope decodes a single record, either bare or wrapped in {data: ...}.
type envelope[T any] struct {
	value T
}

func (e *envelope[T]) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err == nil {
		if data, ok := fields["data"]; ok && len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
			b = data
		}
	}
	return errors.Wrap(json.Unmarshal(b, &e.value), "decoding record")
}
