package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// roleMiddleware restricts an endpoint to users carrying the given role.
func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Role == role {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
