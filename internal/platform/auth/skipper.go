package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that should bypass authentication. These are
// infrastructure endpoints (health checks) and the public lab-test catalog,
// which must be browsable without credentials.
var publicPaths = map[string]bool{
	"/health":               true,
	"/health/db":            true,
	"/api/tests":            true,
	"/api/tests/:id":        true,
	"/api/doctors/register": true,
}

// AuthSkipper returns true for requests whose path should skip authentication.
// Pass this function as the Skipper on the auth middleware so that
// health-check and catalog endpoints remain accessible without a bearer token.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given path is a public endpoint that
// should bypass auth middleware.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
