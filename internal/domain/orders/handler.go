package orders

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/checkout", h.Checkout)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.GET("/orders/:id/results", h.GetResults)

	lab := api.Group("", auth.RequireRole("admin", "lab-tech"))
	lab.POST("/orders/:id/results", h.UpsertResult)
	lab.PUT("/orders/:id/status", h.UpdateStatus)
}

func (h *Handler) Checkout(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	order, err := h.svc.Checkout(c.Request().Context(), uid, req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
		case errors.Is(err, ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		case errors.Is(err, ErrPaymentDeclined):
			return echo.NewHTTPError(http.StatusPaymentRequired, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Order numbers (LAB-......) double as confirmation lookups.
		order, nerr := h.svc.GetOrderByNumber(c.Request().Context(), c.Param("id"))
		if nerr != nil {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return c.JSON(http.StatusOK, order)
	}
	order, err := h.svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c echo.Context) error {
	pg := pagination.FromContext(c)
	roles := auth.RolesFromContext(c.Request().Context())
	isStaff := false
	for _, r := range roles {
		if r == "admin" || r == "lab-tech" {
			isStaff = true
			break
		}
	}
	if isStaff {
		params := map[string]string{}
		for _, k := range []string{"status", "email"} {
			if v := c.QueryParam(k); v != "" {
				params[k] = v
			}
		}
		items, total, err := h.svc.ListOrders(c.Request().Context(), params, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	items, total, err := h.svc.ListOrdersByUser(c.Request().Context(), uid, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpsertResult(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var in ResultInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.TestID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "test_id is required")
	}
	res, err := h.svc.UpsertResult(c.Request().Context(), orderID, in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
		case errors.Is(err, ErrTestNotInOrder):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GetResults(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	statuses, err := h.svc.ResultsForOrder(c.Request().Context(), orderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, statuses)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateOrderStatus(c.Request().Context(), id, body.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "status": body.Status})
}
