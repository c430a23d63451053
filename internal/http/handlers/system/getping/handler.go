package getping

import (
	"context"
	"net/http"

	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServicePinger interface {
	PingDataBase(ctx context.Context) error
}

func HandlerPing(svc ServicePinger, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.PingDataBase(r.Context()); err != nil {
			log.Error().Err(err).Msg("storage ping failed")
			httputils.WriteDetail(w, http.StatusInternalServerError, "storage is unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
