package cart

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddItem)
	api.PUT("/cart/items/:testId", h.UpdateQuantity)
	api.DELETE("/cart/items/:testId", h.RemoveItem)
	api.DELETE("/cart", h.ClearCart)
}

func userID(c echo.Context) (string, error) {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return uid, nil
}

func (h *Handler) GetCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	crt, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, crt)
}

func (h *Handler) AddItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var body struct {
		TestID uuid.UUID `json:"test_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.TestID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "test_id is required")
	}
	crt, err := h.svc.AddItem(c.Request().Context(), uid, body.TestID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, crt)
}

func (h *Handler) UpdateQuantity(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	crt, err := h.svc.UpdateQuantity(c.Request().Context(), uid, testID, body.Quantity)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, crt)
}

func (h *Handler) RemoveItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}
	crt, err := h.svc.RemoveItem(c.Request().Context(), uid, testID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, crt)
}

func (h *Handler) ClearCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Clear(c.Request().Context(), uid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
