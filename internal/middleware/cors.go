package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// EnableCORS wraps next with the CORS policy. An empty origin list accepts
// any origin, which is what local front-end development needs.
func EnableCORS(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", "X-Request-ID"},
		ExposedHeaders:   []string{"HX-Trigger", "Content-Disposition", "X-Request-ID", "X-Import-Imported", "X-Import-Failed"},
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts).Handler
}
