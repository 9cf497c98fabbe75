package routes

import (
	"github.com/go-chi/chi/v5"

	"accounts/internal/handlers"
	"accounts/internal/middleware"
)

func RegisterAuthRoutes(router chi.Router, accounts handlers.Lifecycle, tokens middleware.TokenParser) {
	authHandler := handlers.NewAuthHandler(accounts)

	router.Route("/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/validate", authHandler.Validate)
		r.Post("/login", authHandler.Login)
		r.Post("/forgotpassword", authHandler.ForgotPassword)
		r.Post("/resetpassword", authHandler.ResetPassword)

		r.With(middleware.JWTAuth(tokens)).Get("/current", authHandler.Current)
	})
}
