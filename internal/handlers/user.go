package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-authgate/payapproval/internal/response"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/store"

	"github.com/gin-gonic/gin"
)

type listUsersQuery struct {
	Page     int    `form:"page"     binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
}

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers returns one page of accounts
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failValidation(c, err)
		return
	}

	params := store.NewPaginationParams(q.Page, q.PageSize, q.Search)
	users, pagination, err := h.users.ListUsers(c.Request.Context(), params)
	if err != nil {
		log.Printf("[User] Failed to list users: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Failed to list users", response.CodeInternal)
		return
	}

	response.Page(c, users, pagination, "")
}

// GetUser returns one account by id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "User not found", "")
		return
	case err != nil:
		log.Printf("[User] Failed to load user %s: %v", c.Param("id"), err)
		response.Fail(c, http.StatusInternalServerError, "Failed to load user", response.CodeInternal)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"user": user}, "")
}
