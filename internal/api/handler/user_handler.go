package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/api/metrics"
	"github.com/campuskit/catalog-system/internal/api/validation"
	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// UserHandler exposes admin-only account management.
type UserHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, verr := validation.ParseID(c.Param("id"))
	if verr != nil {
		return verr
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	req, err := bind[userFormRequest](c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	normalized, failures := validation.Evaluate(validation.UserCreate, req.fields())
	if len(failures) > 0 {
		metrics.ValidationFailuresTotal.WithLabelValues(validation.UserCreate.Name).Inc()
		return domain.NewValidationError(failures...)
	}

	id, err := h.users.Create(c.Request().Context(), act,
		normalized["username"], normalized["password"], domain.Role(normalized["role"]))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, idResponse{ID: id}, "/admin/users")
}

// Update applies a partial update: only fields present in the request
// change, everything else is preserved.
func (h *UserHandler) Update(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, verr := validation.ParseID(c.Param("id"))
	if verr != nil {
		return verr
	}
	req, err := bind[userFormRequest](c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	normalized, failures := validation.Evaluate(validation.UserUpdate, req.fields())
	if len(failures) > 0 {
		metrics.ValidationFailuresTotal.WithLabelValues(validation.UserUpdate.Name).Inc()
		return domain.NewValidationError(failures...)
	}

	patch := domain.UserPatch{}
	if v, ok := normalized["username"]; ok {
		patch.Username = &v
	}
	if v, ok := normalized["password"]; ok {
		patch.Password = &v
	}
	if v, ok := normalized["role"]; ok {
		role := domain.Role(v)
		patch.Role = &role
	}

	if err := h.users.Update(c.Request().Context(), act, id, patch); err != nil {
		return err
	}
	return respond(c, http.StatusOK, idResponse{ID: id}, "/admin/users")
}

func (h *UserHandler) Delete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, verr := validation.ParseID(c.Param("id"))
	if verr != nil {
		return verr
	}
	if err := h.users.Delete(c.Request().Context(), act, id); err != nil {
		return err
	}
	return respond(c, http.StatusNoContent, nil, "/admin/users")
}
