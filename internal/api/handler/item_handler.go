package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/api/metrics"
	"github.com/campuskit/catalog-system/internal/api/validation"
	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// ItemHandler exposes catalog management. Every authenticated role can
// read and mutate the catalog; only the route group decides where a
// browser lands afterwards.
type ItemHandler struct {
	items ports.ItemService
	log   zerolog.Logger
}

func NewItemHandler(items ports.ItemService, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{items: items, log: log}
}

func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.items.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemListResponse{Items: items})
}

func (h *ItemHandler) Get(c echo.Context) error {
	id, verr := validation.ParseID(c.Param("id"))
	if verr != nil {
		return verr
	}
	item, err := h.items.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Search matches the query case-insensitively against item names. An empty
// query returns the full catalog.
func (h *ItemHandler) Search(c echo.Context) error {
	query := validation.SanitizeText(c.QueryParam("query"))
	items, err := h.items.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemListResponse{Items: items})
}

func (h *ItemHandler) Create(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	name, description, price, verr := h.itemForm(c)
	if verr != nil {
		return verr
	}
	id, err := h.items.Create(c.Request().Context(), act, name, description, price)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, idResponse{ID: id}, itemsPath(act.Role))
}

// Update replaces the whole record; there is no partial form for items.
func (h *ItemHandler) Update(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, verr := validation.ParseID(c.Param("id"))
	if verr != nil {
		return verr
	}
	name, description, price, ferr := h.itemForm(c)
	if ferr != nil {
		return ferr
	}
	if err := h.items.Update(c.Request().Context(), act, id, name, description, price); err != nil {
		return err
	}
	return respond(c, http.StatusOK, idResponse{ID: id}, itemsPath(act.Role))
}

func (h *ItemHandler) Delete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, verr := validation.ParseID(c.Param("id"))
	if verr != nil {
		return verr
	}
	if err := h.items.Delete(c.Request().Context(), act, id); err != nil {
		return err
	}
	return respond(c, http.StatusNoContent, nil, itemsPath(act.Role))
}

// itemsPath is where a browser lands after a catalog mutation, per role.
func itemsPath(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin/items"
	}
	return "/student/items"
}

// itemForm binds and validates the shared create/update form. The price
// reaches the service as a number; the string form only exists at this
// boundary.
func (h *ItemHandler) itemForm(c echo.Context) (name, description string, price float64, err error) {
	req, berr := bind[itemFormRequest](c)
	if berr != nil {
		return "", "", 0, echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(berr)
	}

	normalized, failures := validation.Evaluate(validation.ItemForm, req.fields())
	if len(failures) > 0 {
		metrics.ValidationFailuresTotal.WithLabelValues(validation.ItemForm.Name).Inc()
		return "", "", 0, domain.NewValidationError(failures...)
	}

	price, perr := strconv.ParseFloat(normalized["price"], 64)
	if perr != nil {
		return "", "", 0, domain.NewValidationError(domain.FieldError{Field: "price", Message: "price must be a number"})
	}
	return normalized["name"], normalized["description"], price, nil
}
