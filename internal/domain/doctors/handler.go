package doctors

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Registration is public (see auth.AuthSkipper); review and removal are
// admin actions. The POST-with-verb shape is kept for client compatibility.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/doctors/register", h.Register)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/doctors/status", h.SetStatus)
	admin.POST("/doctors/delete", h.Delete)
	admin.GET("/doctors", h.List)
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]interface{}{"success": false, "error": msg})
}

func (h *Handler) Register(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &d); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return fail(c, http.StatusConflict, err.Error())
		}
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "data": d})
}

func (h *Handler) SetStatus(c echo.Context) error {
	var body struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if body.ID == uuid.Nil {
		return fail(c, http.StatusBadRequest, "id is required")
	}
	d, err := h.svc.SetStatus(c.Request().Context(), body.ID, body.Status)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": d})
}

func (h *Handler) Delete(c echo.Context) error {
	var body struct {
		ID uuid.UUID `json:"id"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if body.ID == uuid.Nil {
		return fail(c, http.StatusBadRequest, "id is required")
	}
	if err := h.svc.Delete(c.Request().Context(), body.ID); err != nil {
		return fail(c, http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"status", "specialty"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
