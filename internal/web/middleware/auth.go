package middleware

import (
	"net/http"

	"campuscms/internal/auth"
	"campuscms/internal/models"
)

// WithUser returns a new with user middleware
func WithUser(authService *auth.Service) func(http.Handler) http.Handler {
	return authService.WithUser
}

// Auth returns a middleware letting through any logged-in user.
func Auth() func(http.Handler) http.Handler {
	return auth.RequireLogin
}

// Editor lets through administrators and writers.
func Editor() func(http.Handler) http.Handler {
	return auth.RequireRole(models.RoleAdmin, models.RoleWriter)
}

// Admin lets through administrators only.
func Admin() func(http.Handler) http.Handler {
	return auth.RequireRole(models.RoleAdmin)
}
