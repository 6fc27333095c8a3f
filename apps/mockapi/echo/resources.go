package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

type resourceDef struct {
	table    string
	kind     entity.Kind
	required []string
}

var resources = []resourceDef{
	{"schools", entity.KindSchool, []string{"name"}},
	{"classes", entity.KindClass, []string{"name"}},
	{"divisions", entity.KindDivision, []string{"name"}},
	{"subjects", entity.KindSubject, []string{"name"}},
	{"attendance", entity.KindAttendance, []string{"attendanceDate"}},
	{"assignments", entity.KindAssignment, []string{"name"}},
	{"announcements", entity.KindAnnouncement, []string{"title", "message"}},
	{"fees", entity.KindFee, []string{"studentId", "amount"}},
	{"timetable", entity.KindTimetable, []string{"day", "time"}},
}

type resourceApi struct {
	s   *server
	def resourceDef
}

func registerResourceAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *server, def resourceDef) {
	api := resourceApi{s: s, def: def}
	perm := func(act session.Action) echo.MiddlewareFunc {
		return s.permissionMiddleware(def.kind, act)
	}

	rg := g.Group("/"+def.table, jwt)
	rg.POST("/getAllBy/:accountId", api.query, perm(session.ActionView))
	rg.GET("/getById/:id", api.retrieve, perm(session.ActionView))
	rg.POST("/save", api.create, perm(session.ActionAdd))
	rg.PUT("/update/:id", api.update, perm(session.ActionEdit))
	rg.POST("/delete", api.destroy, perm(session.ActionDelete))
}

func (api *resourceApi) query(ctx echo.Context) error {
	q, err := bindPageQuery(ctx)
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if q.AccountID != claims.AccountID {
		return errHttpForbidden
	}
	q.Type = ""

	rows, total, err := api.s.deps.DB.Query(api.def.table, q)
	if err != nil {
		return errors.Wrapf(err, "querying %s", api.def.table)
	}
	return ctx.JSON(http.StatusOK, newPageResponse(rows, total, q))
}

func (api *resourceApi) retrieve(ctx echo.Context) error {
	rec, err := api.s.ownRecord(ctx, api.def.table, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": rec})
}

func (api *resourceApi) create(ctx echo.Context) error {
	rec, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	if err = requireFields(rec, api.def.required); err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	delete(rec, "id")
	rec["accountId"] = claims.AccountID

	rec, err = api.s.deps.DB.Create(api.def.table, rec)
	if err != nil {
		return errors.Wrapf(err, "creating %s", api.def.table)
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *resourceApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.s.ownRecord(ctx, api.def.table, id); err != nil {
		return err
	}
	rec, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	delete(rec, "accountId")

	rec, err = api.s.deps.DB.Update(api.def.table, id, rec)
	if err != nil {
		return errors.Wrapf(err, "updating %s", api.def.table)
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	body, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	id := body.ID().String()
	if id == "" {
		return core.NewValidationError(errors.New("id is required"), core.FieldError{Field: "id", Error: "is required"})
	}
	if _, err = api.s.ownRecord(ctx, api.def.table, id); err != nil {
		return err
	}
	if err = api.s.deps.DB.Delete(api.def.table, id); err != nil {
		return errors.Wrapf(err, "deleting %s", api.def.table)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ownRecord loads a row of the caller's account. Rows of other accounts are not found.
func (s *server) ownRecord(ctx echo.Context, table, id string) (entity.Record, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}
	rec, err := s.deps.DB.Get(table, id)
	if err != nil {
		if err == inmemdb.ErrNotFound {
			return nil, errHttpNotFound
		}
		return nil, errors.Wrapf(err, "getting %s", table)
	}
	if rec.Text("accountId") != claims.AccountID {
		return nil, errHttpNotFound
	}
	return rec, nil
}

func requireFields(rec entity.Record, keys []string) error {
	var flds []core.FieldError
	for _, k := range keys {
		if rec.Text(k) == "" {
			flds = append(flds, core.FieldError{Field: k, Error: "is required"})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("validation failed"), flds...)
	}
	return nil
}
