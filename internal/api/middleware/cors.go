package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS admits browser requests from the whitelisted origins. With allowAll
// any origin is echoed back, which is what development uses. Credentials are
// allowed so the refresh cookie can travel.
func CORS(origins []string, allowAll bool) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return allowAll || slices.Contains(origins, origin)
		},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
