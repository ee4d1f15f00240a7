package http

import (
	"context"

	"github.com/MKhiriev/go-route-keeper/internal/route"
)

type versionResponse struct {
	Version string `json:"version"`
}

func (h *Handler) getServerVersion(ctx context.Context, _ *route.Request) (any, error) {
	return versionResponse{Version: h.services.AppInfoService.GetAppVersion(ctx)}, nil
}
