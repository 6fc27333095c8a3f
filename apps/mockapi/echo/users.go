package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

type LoginRequest struct {
	UserName  string `json:"userName" validate:"required"`
	Password  string `json:"password" validate:"required"`
	AccountID string `json:"accountId" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

type RoleResponse struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	Permissions []session.Permission `json:"permissions"`
}

type LoginResponse struct {
	Status      string        `json:"status"`
	Message     string        `json:"message"`
	AccessToken string        `json:"accessToken"`
	Data        entity.Record `json:"data"`
	Role        RoleResponse  `json:"role"`
}

var userRequired = []string{"userName", "firstName", "lastName", "type"}

type userApi struct {
	s *server
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *server) {
	api := userApi{s: s}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/getAllBy/:accountId", api.query)
	ag.GET("/getById/:id", api.retrieve)
	ag.POST("/save", api.create)
	ag.PUT("/update/:id", api.update)
	ag.POST("/delete", api.destroy)
}

// authorize checks act against the entity guarding users of userType.
// Admin accounts are only managed by admins.
func (api *userApi) authorize(ctx echo.Context, userType string, act session.Action) error {
	switch strings.ToUpper(userType) {
	case "STUDENT":
		return api.s.authorize(ctx, entity.KindStudent, act)
	case "TEACHER":
		return api.s.authorize(ctx, entity.KindTeacher, act)
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if strings.EqualFold(claims.Type, "ADMIN") {
		return nil
	}
	return errHttpForbidden
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	data.UserName = core.CleanString(data.UserName)
	data.Type = strings.ToUpper(core.CleanString(data.Type))
	if err := api.s.deps.Validate.Struct(data); err != nil {
		return err
	}

	usr, err := api.s.deps.DB.Authenticate(data.AccountID, data.UserName, data.Type, data.Password)
	if err != nil {
		if errors.Cause(err) == inmemdb.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	role, ok := api.s.deps.DB.Role(data.Type)
	if !ok {
		return errHttpForbidden
	}
	token, err := api.s.GenerateToken(GetUserClaims(usr, api.s.deps.Conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Status:      "SUCCESS",
		Message:     "Login successful",
		AccessToken: token,
		Data:        usr,
		Role:        RoleResponse{ID: role.ID, Name: role.Name, Permissions: role.Permissions},
	})
}

func (api *userApi) query(ctx echo.Context) error {
	q, err := bindPageQuery(ctx)
	if err != nil {
		return err
	}
	if err = api.authorize(ctx, q.Type, session.ActionView); err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if q.AccountID != claims.AccountID {
		return errHttpForbidden
	}

	rows, total, err := api.s.deps.DB.Query(inmemdb.UsersTable, q)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, newPageResponse(rows, total, q))
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.s.ownRecord(ctx, inmemdb.UsersTable, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.authorize(ctx, usr.Text("type"), session.ActionView); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": usr})
}

func (api *userApi) create(ctx echo.Context) error {
	rec, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	if err = requireFields(rec, userRequired); err != nil {
		return err
	}
	rec["type"] = strings.ToUpper(rec.Text("type"))
	if err = api.authorize(ctx, rec.Text("type"), session.ActionAdd); err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.s.deps.DB.CheckUserName(claims.AccountID, rec.Text("userName"), ""); err != nil {
		return err
	}

	pwd := rec.Text("password")
	delete(rec, "password")
	delete(rec, "id")
	rec["accountId"] = claims.AccountID

	usr, err := api.s.deps.DB.Create(inmemdb.UsersTable, rec)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	if pwd != "" {
		if err = api.s.deps.DB.SetPassword(usr.ID().String(), pwd); err != nil {
			return errors.Wrap(err, "setting password")
		}
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	cur, err := api.s.ownRecord(ctx, inmemdb.UsersTable, id)
	if err != nil {
		return err
	}
	if err = api.authorize(ctx, cur.Text("type"), session.ActionEdit); err != nil {
		return err
	}
	rec, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	if t := rec.Text("type"); t != "" && !strings.EqualFold(t, cur.Text("type")) {
		return core.NewValidationError(errors.New("validation failed"), core.FieldError{Field: "type", Error: "cannot be changed"})
	}
	if name := rec.Text("userName"); name != "" {
		if err = api.s.deps.DB.CheckUserName(cur.Text("accountId"), name, id); err != nil {
			return err
		}
	}

	pwd := rec.Text("password")
	delete(rec, "password")
	delete(rec, "accountId")
	delete(rec, "type")

	usr, err := api.s.deps.DB.Update(inmemdb.UsersTable, id, rec)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	if pwd != "" {
		if err = api.s.deps.DB.SetPassword(id, pwd); err != nil {
			return errors.Wrap(err, "setting password")
		}
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	body, err := bindRecord(ctx)
	if err != nil {
		return err
	}
	id := body.ID().String()
	if id == "" {
		return core.NewValidationError(errors.New("id is required"), core.FieldError{Field: "id", Error: "is required"})
	}
	usr, err := api.s.ownRecord(ctx, inmemdb.UsersTable, id)
	if err != nil {
		return err
	}
	if err = api.authorize(ctx, usr.Text("type"), session.ActionDelete); err != nil {
		return err
	}
	if err = api.s.deps.DB.Delete(inmemdb.UsersTable, id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
