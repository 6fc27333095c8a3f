package api

import (
	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

// Scoped turns a list query into a page request restricted to the session:
// students only ever see their own school, class and division; teachers their
// school and, unless a class or division is picked, their allocated classes.
func Scoped(sess *session.Session, q listing.Query) PageRequest {
	req := PageRequest{
		Page:    q.Page,
		Size:    q.Size,
		SortBy:  q.SortBy,
		SortDir: q.SortDir,
		Search:  q.Search,
		Filters: map[string]string{},
	}
	if req.SortBy == "" {
		req.SortBy = listing.DefaultSortBy
	}
	if req.SortDir == "" {
		req.SortDir = listing.SortAsc
	}
	if req.Size <= 0 {
		req.Size = listing.DefaultPageSize
	}
	for k, v := range q.Filters {
		if v != "" {
			req.Filters[k] = v
		}
	}

	if sess == nil {
		return req
	}
	sc := sess.Scope
	force := func(key, value string) {
		if value != "" {
			req.Filters[key] = value
		}
	}
	// pin never keeps a filter picked in the UI.
	pin := func(key, value string) {
		if value == "" {
			delete(req.Filters, key)
			return
		}
		req.Filters[key] = value
	}
	switch sess.Type() {
	case session.Student:
		pin("schoolId", sc.SchoolID.String())
		pin("classId", sc.ClassID.String())
		pin("divisionId", sc.DivisionID.String())
	case session.Teacher:
		force("schoolId", sc.SchoolID.String())
		if req.Filters["classId"] == "" && req.Filters["divisionId"] == "" && len(sc.AllocatedClasses) > 0 {
			classes := make([]string, 0, len(sc.AllocatedClasses))
			divisions := make([]string, 0, len(sc.AllocatedClasses))
			for _, a := range sc.AllocatedClasses {
				classes = append(classes, a.ClassID.String())
				divisions = append(divisions, a.DivisionID.String())
			}
			req.ClassList = core.Unique(classes)
			req.DivisionList = core.Unique(divisions)
		}
	}
	return req
}
