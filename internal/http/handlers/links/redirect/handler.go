package redirect

import (
	"context"
	"net/http"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/httputils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ServiceLinks interface {
	Resolve(ctx context.Context, code string) (models.ShortenedLink, error)
}

// HandlerRedirect - 302 на оригинальный адрес, неактивная или неизвестная
// ссылка дает 404.
func HandlerRedirect(svc ServiceLinks, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := svc.Resolve(r.Context(), mux.Vars(r)["code"])
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		http.Redirect(w, r, link.OriginalURL, http.StatusFound)
	}
}
