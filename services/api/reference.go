package api

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

const referencePageSize = 1000

// ReferenceData feeds the filter panels and select fields.
type ReferenceData struct {
	Schools   []entity.School
	Classes   []entity.Class
	Divisions []entity.Division
	Subjects  []entity.Subject
}

// ReferenceData fetches the four lookup lists concurrently.
func (c *Client) ReferenceData(ctx context.Context, accountID string) (ReferenceData, error) {
	var rd ReferenceData
	all := PageRequest{Size: referencePageSize, SortBy: listing.DefaultSortBy, SortDir: listing.SortAsc}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.Schools().Page(gctx, accountID, all)
		rd.Schools = resp.Items
		return errors.Wrap(err, "fetching schools")
	})
	g.Go(func() error {
		resp, err := c.Classes().Page(gctx, accountID, all)
		rd.Classes = resp.Items
		return errors.Wrap(err, "fetching classes")
	})
	g.Go(func() error {
		resp, err := c.Divisions().Page(gctx, accountID, all)
		rd.Divisions = resp.Items
		return errors.Wrap(err, "fetching divisions")
	})
	g.Go(func() error {
		resp, err := c.Subjects().Page(gctx, accountID, all)
		rd.Subjects = resp.Items
		return errors.Wrap(err, "fetching subjects")
	})
	if err := g.Wait(); err != nil {
		return ReferenceData{}, err
	}
	return rd, nil
}

// FilterDefs returns the school, class and division filters.
func (rd ReferenceData) FilterDefs() []listing.FilterDef {
	schools := listing.FilterDef{Key: "schoolId", Label: "School"}
	for _, s := range rd.Schools {
		schools.Options = append(schools.Options, listing.Option{Label: s.Name, Value: s.ID.String()})
	}
	classes := listing.FilterDef{Key: "classId", Label: "Class"}
	for _, cl := range rd.Classes {
		label := cl.Name
		if cl.Section != "" {
			label += " " + cl.Section
		}
		classes.Options = append(classes.Options, listing.Option{Label: label, Value: cl.ID.String()})
	}
	divisions := listing.FilterDef{Key: "divisionId", Label: "Division"}
	for _, d := range rd.Divisions {
		divisions.Options = append(divisions.Options, listing.Option{Label: d.Name, Value: d.ID.String()})
	}
	return []listing.FilterDef{schools, classes, divisions}
}

type DashboardStats struct {
	Students    int
	Teachers    int
	Classes     int
	Fees        int
	PendingFees int
}

// Dashboard fetches the counts shown on the dashboard concurrently, within the
// session scope. Counts of entities the session may not view stay zero.
func (c *Client) Dashboard(ctx context.Context, sess *session.Session) (DashboardStats, error) {
	var st DashboardStats
	acc := sess.AccountID().String()
	count := Scoped(sess, listing.Query{Size: 1})
	pending := Scoped(sess, listing.Query{Size: 1, Filters: listing.FilterSet{"status": "Pending"}})

	g, gctx := errgroup.WithContext(ctx)
	tally := func(kind entity.Kind, dst *int, page func(context.Context) (int, error)) {
		if !sess.HasPermission(string(kind), session.ActionView) {
			return
		}
		g.Go(func() error {
			n, err := page(gctx)
			*dst = n
			return errors.Wrapf(err, "counting %s", strings.ToLower(string(kind)))
		})
	}
	tally(entity.KindStudent, &st.Students, func(ctx context.Context) (int, error) {
		resp, err := c.Students().Page(ctx, acc, count)
		return resp.Total, err
	})
	tally(entity.KindTeacher, &st.Teachers, func(ctx context.Context) (int, error) {
		resp, err := c.Teachers().Page(ctx, acc, teacherScope(count))
		return resp.Total, err
	})
	tally(entity.KindClass, &st.Classes, func(ctx context.Context) (int, error) {
		resp, err := c.Classes().Page(ctx, acc, count)
		return resp.Total, err
	})
	tally(entity.KindFee, &st.Fees, func(ctx context.Context) (int, error) {
		resp, err := c.Fees().Page(ctx, acc, count)
		return resp.Total, err
	})
	tally(entity.KindFee, &st.PendingFees, func(ctx context.Context) (int, error) {
		resp, err := c.Fees().Page(ctx, acc, pending)
		return resp.Total, err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return st, nil
}

// teacherScope keeps only the school restriction: teachers carry no class or division.
func teacherScope(req PageRequest) PageRequest {
	out := req
	out.Filters = map[string]string{}
	if v := req.Filters["schoolId"]; v != "" {
		out.Filters["schoolId"] = v
	}
	out.ClassList, out.DivisionList = nil, nil
	return out
}
