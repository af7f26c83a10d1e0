// Package handler contains the echo HTTP handlers. Handlers translate
// between the HTTP surface and the service layer; authentication has
// already happened in middleware, so they receive the user id from the
// request context.
package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// errUnauthenticated signals a missing or malformed user id in context.
var errUnauthenticated = errors.New("unauthenticated")

// getUserID extracts the authenticated user id injected by the JWT
// middleware.
func getUserID(c echo.Context) (string, error) {
	v, ok := c.Get("user_id").(string)
	if !ok || v == "" {
		return "", errUnauthenticated
	}
	return v, nil
}
