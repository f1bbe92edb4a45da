package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, a browser may cache a preflight.
const preflightMaxAge = 300

// NewCORSHandler returns a middleware that lets browser clients on
// allowedOrigins call the API with a bearer token. Every origin must be a full
// origin (scheme + host, no trailing slash).
// The request ID header is exposed so clients can quote it in bug reports.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         preflightMaxAge,
	})
	return c.Handler
}
