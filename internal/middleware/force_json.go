package middleware

import "net/http"

// ForceJSON overwrites the Accept header of every request with
// application/json, whatever the client sent. Every response of this API is
// JSON, including errors, so content negotiation is settled up front.
func ForceJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("Accept", "application/json")
		next.ServeHTTP(w, r)
	})
}
