package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

// Resource is the typed CRUD client of one backend resource.
// Users-backed resources (students, teachers) carry their user type.
type Resource[T any] struct {
	c        *Client
	ep       Endpoints
	userType string
}

func NewResource[T any](c *Client, base, userType string) *Resource[T] {
	return &Resource[T]{c: c, ep: Endpoints{Base: base}, userType: userType}
}

func (r *Resource[T]) Endpoints() Endpoints { return r.ep }

func (r *Resource[T]) typeQuery() url.Values {
	if r.userType == "" {
		return nil
	}
	return url.Values{"type": {r.userType}}
}

func (r *Resource[T]) typeField() map[string]interface{} {
	if r.userType == "" {
		return nil
	}
	return map[string]interface{}{"type": r.userType}
}

func (r *Resource[T]) Page(ctx context.Context, accountID string, req PageRequest) (PageResponse[T], error) {
	var resp PageResponse[T]
	err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   r.ep.GetAllBy(accountID),
		query:  r.typeQuery(),
		body:   req,
	}, &resp)
	return resp, err
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var env envelope[T]
	err := r.c.do(ctx, request{method: http.MethodGet, path: r.ep.GetByID(id)}, &env)
	return env.value, err
}

// Save creates a record from body, a struct or a map.
func (r *Resource[T]) Save(ctx context.Context, body interface{}) (T, error) {
	var env envelope[T]
	err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   r.ep.Save(),
		body:   body,
		extra:  r.typeField(),
		stamp:  true,
	}, &env)
	return env.value, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, body interface{}) (T, error) {
	extra := r.typeField()
	if extra == nil {
		extra = map[string]interface{}{}
	}
	extra["id"] = entity.ID(id)
	var env envelope[T]
	err := r.c.do(ctx, request{
		method: http.MethodPut,
		path:   r.ep.Update(id),
		body:   body,
		extra:  extra,
		stamp:  true,
	}, &env)
	return env.value, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, request{
		method: http.MethodPost,
		path:   r.ep.Delete(),
		body:   map[string]interface{}{"id": entity.ID(id)},
		stamp:  true,
	}, nil)
}

// Fetcher pages the resource within what sess is allowed to see.
func (r *Resource[T]) Fetcher(sess *session.Session) listing.Fetcher[T] {
	return func(ctx context.Context, q listing.Query) (listing.Result[T], error) {
		resp, err := r.Page(ctx, sess.AccountID().String(), Scoped(sess, q))
		if err != nil {
			return listing.Result[T]{}, err
		}
		return listing.Result[T]{Items: resp.Items, Total: resp.Total}, nil
	}
}

func (r *Resource[T]) Deleter() listing.Deleter {
	return r.Delete
}

func resourceOf[T any](c *Client, name string) *Resource[T] {
	d, ok := entity.Lookup(name)
	if !ok {
		panic("api: unregistered resource " + name)
	}
	return NewResource[T](c, d.Path, d.UserType)
}

// Records is the untyped resource behind a descriptor.
func (c *Client) Records(d entity.Descriptor) *Resource[entity.Record] {
	return NewResource[entity.Record](c, d.Path, d.UserType)
}

func (c *Client) Students() *Resource[entity.Student] { return resourceOf[entity.Student](c, "students") }

func (c *Client) Teachers() *Resource[entity.Teacher] { return resourceOf[entity.Teacher](c, "teachers") }

func (c *Client) Classes() *Resource[entity.Class] { return resourceOf[entity.Class](c, "classes") }

func (c *Client) Schools() *Resource[entity.School] { return resourceOf[entity.School](c, "schools") }

func (c *Client) Divisions() *Resource[entity.Division] { return resourceOf[entity.Division](c, "divisions") }

func (c *Client) Subjects() *Resource[entity.Subject] { return resourceOf[entity.Subject](c, "subjects") }

func (c *Client) Attendance() *Resource[entity.Attendance] {
	return resourceOf[entity.Attendance](c, "attendance")
}

func (c *Client) Assignments() *Resource[entity.Assignment] {
	return resourceOf[entity.Assignment](c, "assignments")
}

func (c *Client) Announcements() *Resource[entity.Announcement] {
	return resourceOf[entity.Announcement](c, "announcements")
}

func (c *Client) Fees() *Resource[entity.Fee] { return resourceOf[entity.Fee](c, "fees") }

func (c *Client) Timetable() *Resource[entity.TimetableEntry] {
	return resourceOf[entity.TimetableEntry](c, "timetable")
}
