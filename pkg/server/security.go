package server

import (
	"net/http"
)

func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME-sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// the API is never framed
		w.Header().Set("X-Frame-Options", "DENY")

		// channel values change every refresh
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}
