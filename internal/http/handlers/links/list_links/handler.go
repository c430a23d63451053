package list_links

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
	List(ctx context.Context, userID int64) ([]models.ShortenedLink, error)
	dto.LinkURLs
}

func HandlerListLinks(svc ServiceLinks, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			httputils.WriteDetail(w, http.StatusUnauthorized, httputils.DetailNotAuthenticated)
			return
		}

		links, err := svc.List(r.Context(), user.ID)
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.LinksResponseFromDomain(links, svc))
	}
}
