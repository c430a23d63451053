package create_link

import (
	"context"
	"net/http"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/dto"
	"urlshortener/internal/http/handlers/middlewares/auth"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServiceLinks interface {
	Create(ctx context.Context, userID int64, originalURL string) (models.ShortenedLink, error)
	dto.LinkURLs
}

func HandlerCreateLink(svc ServiceLinks, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			httputils.WriteDetail(w, http.StatusUnauthorized, httputils.DetailNotAuthenticated)
			return
		}

		var req dto.CreateLinkRequest
		if err := httputils.DecodeJSON(r, &req); err != nil {
			httputils.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		link, err := svc.Create(r.Context(), user.ID, req.OriginalURL)
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusCreated, dto.LinkResponseFromDomain(link, svc))
	}
}
