package find_link

import (
	"context"
	"net/http"
	"strconv"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/dto"
	"urlshortener/internal/http/handlers/middlewares/auth"
	"urlshortener/internal/http/httputils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ServiceLinks interface {
	Get(ctx context.Context, userID, id int64) (models.ShortenedLink, error)
	dto.LinkURLs
}

func HandlerFindLink(svc ServiceLinks, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			httputils.WriteDetail(w, http.StatusUnauthorized, httputils.DetailNotAuthenticated)
			return
		}

		id, err := LinkID(r)
		if err != nil {
			httputils.WriteDetail(w, http.StatusNotFound, httputils.DetailNotFound)
			return
		}

		link, err := svc.Get(r.Context(), user.ID, id)
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.LinkResponseFromDomain(link, svc))
	}
}

// LinkID - {id} из маршрута.
func LinkID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
