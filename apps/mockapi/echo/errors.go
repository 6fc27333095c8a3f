package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler answering
// {message} bodies, with {errors} per field on validation failures.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var fields map[string]string
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = "missing or malformed jwt"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fields[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = "validation failed"
		case *core.ValidationError:
			fields = origErr.FieldMap()
			code = http.StatusBadRequest
			message = origErr.Error()
			if message == "" {
				message = "validation failed"
			}
		default:
			switch errors.Cause(err) {
			case inmemdb.ErrNotFound:
				code, message = http.StatusNotFound, "not found"
			case inmemdb.ErrUserNameTaken:
				code, message = http.StatusConflict, "user name already taken"
				fields = map[string]string{"userName": "is already taken"}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = http.StatusText(code)

				var sess *session.Session
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					sess = session.New("", session.Profile{
						UserID:   entity.ID(claims.Subject),
						UserName: claims.UserName,
					}, claims.Type, nil, session.Scope{})
				}
				logger.Error(message, errors.Wrap(err, message), sess)
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				body := echo.Map{"message": message}
				if len(fields) > 0 {
					body["errors"] = fields
				}
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
