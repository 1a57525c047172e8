package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestIsPublicPath(t *testing.T) {
	public := []string{
		"/health",
		"/health/db",
		"/api/tests",
		"/api/tests/:id",
		"/api/doctors/register",
	}
	for _, p := range public {
		if !IsPublicPath(p) {
			t.Errorf("expected %s to be public", p)
		}
	}

	private := []string{
		"/api/cart",
		"/api/orders",
		"/api/appointments",
		"/api/doctors/status",
		"/",
		"",
	}
	for _, p := range private {
		if IsPublicPath(p) {
			t.Errorf("expected %s to be private", p)
		}
	}
}

func TestAuthSkipper(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/health")

	if !AuthSkipper(c) {
		t.Error("expected skipper to return true for /health")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetPath("/api/cart")

	if AuthSkipper(c) {
		t.Error("expected skipper to return false for /api/cart")
	}
}

func TestAuthSkipper_ParamPath(t *testing.T) {
	e := echo.New()

	// Echo matches /api/tests/:id for /api/tests/abc; the skipper keys on
	// the registered route path, not the raw URL.
	req := httptest.NewRequest(http.MethodGet, "/api/tests/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/tests/:id")

	if !AuthSkipper(c) {
		t.Error("expected skipper to return true for catalog detail route")
	}
}
