package echoapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core/entity"
)

// keys of a page request body that are not record filters
var pageKeys = map[string]bool{
	"page": true, "size": true, "sortBy": true, "sortDir": true, "search": true,
	"classList": true, "divisionList": true,
	"accountId": true, "createdBy": true, "updatedBy": true, "type": true,
}

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")

// bindRecord decodes a JSON object body. Numbers keep their exact text.
// echo's Bind cannot be used here: it also binds path params into maps.
func bindRecord(ctx echo.Context) (entity.Record, error) {
	dec := json.NewDecoder(ctx.Request().Body)
	dec.UseNumber()
	var rec entity.Record
	if err := dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return entity.Record{}, nil
		}
		return nil, errInvalidBody
	}
	if rec == nil {
		rec = entity.Record{}
	}
	return rec, nil
}

func bindPageQuery(ctx echo.Context) (inmemdb.Query, error) {
	body, err := bindRecord(ctx)
	if err != nil {
		return inmemdb.Query{}, err
	}
	q := inmemdb.Query{
		AccountID: ctx.Param("accountId"),
		Type:      ctx.QueryParam("type"),
		Page:      intOf(body.Text("page")),
		Size:      intOf(body.Text("size")),
		Search:    body.Text("search"),
		SortBy:    body.Text("sortBy"),
		SortDir:   body.Text("sortDir"),
		Filters:   make(map[string]string),
	}
	q.ClassList = idList(body["classList"])
	q.DivisionList = idList(body["divisionList"])
	for k := range body {
		if !pageKeys[k] {
			q.Filters[k] = body.Text(k)
		}
	}
	return q, nil
}

func intOf(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func idList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if id := entity.IDOf(it); !id.IsZero() {
			out = append(out, id.String())
		}
	}
	return out
}

type PageResponse struct {
	Content       []entity.Record `json:"content"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	Number        int             `json:"number"`
	Size          int             `json:"size"`
}

func newPageResponse(rows []entity.Record, total int, q inmemdb.Query) PageResponse {
	size := q.Size
	if size <= 0 {
		size = 10
	}
	return PageResponse{
		Content:       rows,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
		Number:        q.Page,
		Size:          size,
	}
}
