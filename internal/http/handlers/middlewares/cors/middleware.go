package cors

import (
	"net/http"

	"urlshortener/internal/http/httputils"

	"github.com/rs/cors"
)

func MiddlewareCORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{httputils.HeaderAuthorization, httputils.HeaderContentType, httputils.HeaderRequestID},
		ExposedHeaders:   []string{httputils.HeaderContentLength, httputils.HeaderRequestID},
		MaxAge:           3600,
		AllowCredentials: false,
	})

	return handler.Handler
}
