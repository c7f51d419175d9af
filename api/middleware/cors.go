package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS opens the API to any origin. The desk client is not a browser, and
// the service is meant for an internal network.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", ActorHeader, IdempotencyHeader, "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Content-Disposition"},
		MaxAge:         300,
	}).Handler
}
