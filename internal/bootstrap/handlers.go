package bootstrap

import (
	"github.com/go-authgate/payapproval/internal/handlers"
	"github.com/go-authgate/payapproval/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth *handlers.AuthHandler
	user *handlers.UserHandler
	xero *handlers.XeroHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(userService *services.UserService, xeroService *services.XeroService) handlerSet {
	return handlerSet{
		auth: handlers.NewAuthHandler(userService),
		user: handlers.NewUserHandler(userService),
		xero: handlers.NewXeroHandler(xeroService),
	}
}
