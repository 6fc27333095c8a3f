package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

// permissionMiddleware lets the request through when the caller's role grants act on kind.
func (s *server) permissionMiddleware(kind entity.Kind, act session.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := s.authorize(ctx, kind, act); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func (s *server) authorize(ctx echo.Context, kind entity.Kind, act session.Action) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if s.deps.DB.Allows(claims.Type, kind, act) {
		return nil
	}
	return errHttpForbidden
}
