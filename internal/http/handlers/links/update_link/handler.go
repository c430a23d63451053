package update_link

import (
	"context"
	"net/http"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/dto"
	"urlshortener/internal/http/handlers/links/find_link"
	"urlshortener/internal/http/handlers/middlewares/auth"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServiceLinks interface {
	Update(ctx context.Context, userID, id int64, patch models.LinkPatch) (models.ShortenedLink, error)
	dto.LinkURLs
}

// HandlerUpdateLink - частичное обновление и для PUT, и для PATCH.
func HandlerUpdateLink(svc ServiceLinks, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			httputils.WriteDetail(w, http.StatusUnauthorized, httputils.DetailNotAuthenticated)
			return
		}

		id, err := find_link.LinkID(r)
		if err != nil {
			httputils.WriteDetail(w, http.StatusNotFound, httputils.DetailNotFound)
			return
		}

		var req dto.UpdateLinkRequest
		if err := httputils.DecodeJSON(r, &req); err != nil {
			httputils.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		link, err := svc.Update(r.Context(), user.ID, id, req.ToDomain())
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.LinkResponseFromDomain(link, svc))
	}
}
