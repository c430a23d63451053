package refresh

import (
	"context"
	"net/http"

	"urlshortener/internal/http/dto"
	"urlshortener/internal/http/httputils"

	"github.com/rs/zerolog"
)

type ServiceAccounts interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

func HandlerRefresh(svc ServiceAccounts, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RefreshRequest
		if err := httputils.DecodeJSON(r, &req); err != nil {
			httputils.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		if req.Refresh == "" {
			httputils.WriteFieldErrors(w, map[string]string{"refresh": "This field is required."})
			return
		}

		access, err := svc.Refresh(r.Context(), req.Refresh)
		if err != nil {
			httputils.WriteError(w, log, err)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.RefreshResponse{Access: access})
	}
}
