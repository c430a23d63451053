package delete_link

import (
	"context"
	"net/http"

	"urlshortener/internal/http/handlers/links/find_link"
	"urlshortener/internal/http/handlers/middlewares/auth"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServiceLinks interface {
	Delete(ctx context.Context, userID, id int64) error
}

func HandlerDeleteLink(svc ServiceLinks, log *zerolog.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), user.ID, id); err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
