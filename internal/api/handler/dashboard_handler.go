package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/catalog-system/internal/core/ports"
)

// DashboardHandler serves the role landing pages: a quick summary for
// admins, the signed-in identity for students.
type DashboardHandler struct {
	users ports.UserService
	items ports.ItemService
}

func NewDashboardHandler(users ports.UserService, items ports.ItemService) *DashboardHandler {
	return &DashboardHandler{users: users, items: items}
}

func (h *DashboardHandler) Admin(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	items, err := h.items.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		User:      act,
		UserCount: len(users),
		ItemCount: len(items),
	})
}

func (h *DashboardHandler) Student(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{User: act})
}
