package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// Request bodies bind from either form-encoded or JSON input; the rule set
// evaluation that follows works on the flat string map either way.

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type userFormRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

func (r userFormRequest) fields() map[string]string {
	return map[string]string{
		"username": r.Username,
		"password": r.Password,
		"role":     r.Role,
	}
}

type itemFormRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
}

func (r itemFormRequest) fields() map[string]string {
	return map[string]string{
		"name":        r.Name,
		"description": r.Description,
		"price":       r.Price,
	}
}

type idResponse struct {
	ID int64 `json:"id"`
}

type loginResponse struct {
	User domain.Principal `json:"user"`
}

type userListResponse struct {
	Users []domain.UserInfo `json:"users"`
}

type itemListResponse struct {
	Items []domain.Item `json:"items"`
}

type dashboardResponse struct {
	User      domain.Principal `json:"user"`
	UserCount int              `json:"user_count,omitempty"`
	ItemCount int              `json:"item_count,omitempty"`
}

func bind[T any](c echo.Context) (T, error) {
	var req T
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	return req, nil
}
