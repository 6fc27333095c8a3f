package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

const defaultLoginFailure = "Login failed. Please check your credentials."

type LoginRequest struct {
	UserName  string `json:"userName" validate:"required"`
	Password  string `json:"password" validate:"required"`
	AccountID string `json:"accountId" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

type UserData struct {
	ID               entity.ID           `json:"id"`
	UserName         string              `json:"userName"`
	Type             string              `json:"type"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	Email            string              `json:"email"`
	AccountID        entity.ID           `json:"accountId"`
	SchoolID         entity.ID           `json:"schoolId"`
	ClassID          entity.ID           `json:"classId"`
	DivisionID       entity.ID           `json:"divisionId"`
	AllocatedClasses []entity.Allocation `json:"allocatedClasses"`
}

type RoleData struct {
	ID          entity.ID            `json:"id"`
	Name        string               `json:"name"`
	Permissions []session.Permission `json:"permissions"`
}

type LoginResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	AccessToken string    `json:"accessToken"`
	Data        *UserData `json:"data"`
	Role        *RoleData `json:"role"`
}

// Session builds the session of a successful login.
func (r LoginResponse) Session() (*session.Session, error) {
	if r.Status != "SUCCESS" || r.AccessToken == "" || r.Data == nil || r.Role == nil {
		msg := r.Message
		if msg == "" {
			msg = defaultLoginFailure
		}
		return nil, errors.New(msg)
	}
	d := r.Data
	profile := session.Profile{
		UserID:    d.ID,
		UserName:  d.UserName,
		Type:      session.ParseUserType(d.Type),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		AccountID: d.AccountID,
	}
	scope := session.Scope{
		SchoolID:         d.SchoolID,
		ClassID:          d.ClassID,
		DivisionID:       d.DivisionID,
		AllocatedClasses: d.AllocatedClasses,
	}
	return session.New(r.AccessToken, profile, r.Role.Name, r.Role.Permissions, scope), nil
}

// Login authenticates without touching the current session. Bad credentials
// come back as an *Error or a plain error carrying the server message.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*session.Session, error) {
	req.UserName = core.CleanString(req.UserName)
	req.AccountID = core.CleanString(req.AccountID)
	req.Type = strings.ToUpper(core.CleanString(req.Type))
	if err := c.validate.Struct(req); err != nil {
		return nil, c.validationError(err)
	}

	var resp LoginResponse
	err := c.do(ctx, request{method: http.MethodPost, path: LoginPath, body: req, anonymous: true}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data != nil && resp.Data.AccountID.IsZero() {
		resp.Data.AccountID = entity.ID(req.AccountID)
	}
	if resp.Data != nil && resp.Data.Type == "" {
		resp.Data.Type = req.Type
	}
	return resp.Session()
}
