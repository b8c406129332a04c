package middleware

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/authz"
	apperrors "marketplace/internal/errors"
)

// Resolver loads the resource a route addresses, e.g. the listing behind :id.
type Resolver func(c echo.Context) (authz.Resource, error)

// RequireOwnership lets the request through only when the authenticated identity
// owns the resource stored under key. A resource already bound under key is used
// as is; otherwise resolve is called and its result is bound for the handler.
func RequireOwnership(key string, resolve Resolver, notFound error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return apperrors.ErrUnauthenticated
			}

			resource, bound := c.Get(key).(authz.Resource)
			if !bound {
				resolved, err := resolve(c)
				if err != nil {
					return err
				}
				resource = resolved
			}

			if err := authz.Authorize(identity, resource, notFound); err != nil {
				return err
			}

			c.Set(key, resource)
			return next(c)
		}
	}
}
