package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
)

// roleMiddleware allows only the listed roles through. It sits in front of
// the resolver and gate checks, mirroring the dashboard's per-route menu
// visibility; it never replaces them.
func roleMiddleware(roles ...access.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if access.Role(claims.Role) == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(access.RoleAdmin)
}
