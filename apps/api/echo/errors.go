package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var actor access.Actor
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				actor = access.Actor{Role: access.Role(claims.Role), UserID: claims.Subject}
			}
			logger.Error(msg, errors.Wrap(err, msg), actor)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// mutationDone renders the uniform mutation body. Field-level details stay
// server side; dashboards only toast success or failure.
func mutationDone(ctx echo.Context, logger core.Logger, err error) error {
	if err == nil {
		return ctx.JSON(http.StatusOK, MutationResponse{Success: true})
	}
	code := mutationStatusCode(err)
	if code >= http.StatusInternalServerError {
		logger.Error("mutation failed", err)
	}
	return ctx.JSON(code, MutationResponse{Error: true})
}

func mutationStatusCode(err error) int {
	switch errors.Cause(err).(type) {
	case validator.ValidationErrors, *core.ValidationError:
		return http.StatusBadRequest
	}

	switch errors.Cause(err) {
	case access.ErrPermissionDenied, access.ErrNotOwner, access.ErrUnknownRole, access.ErrMissingIdentity:
		return http.StatusForbidden
	case access.ErrCapacityExceeded:
		return http.StatusBadRequest
	case school.ErrNotFound:
		return http.StatusNotFound
	case school.ErrIdentityProvider:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// renderList renders a list page. Actor-resolution failures fail closed as an
// empty page, never an unfiltered query.
func renderList(ctx echo.Context, items interface{}, count, page int, err error) error {
	if err != nil {
		switch errors.Cause(err) {
		case access.ErrUnknownRole, access.ErrMissingIdentity:
			return ctx.JSON(http.StatusOK, ListResponse{Items: items, Count: 0, Page: page})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, ListResponse{Items: items, Count: count, Page: page})
}
