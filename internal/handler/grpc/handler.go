package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/service"
)

// ItemsServiceName is the health service name reported for the item routes.
const ItemsServiceName = "routekeeper.items"

// Handler is the root gRPC transport handler. It serves the standard
// grpc.health.v1 service so that orchestrators can probe the process
// without going through the HTTP routes.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] reporting SERVING for the whole server
// and for [ItemsServiceName].
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}

	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	if services != nil && services.ItemService != nil {
		h.health.SetServingStatus(ItemsServiceName, healthpb.HealthCheckResponse_SERVING)
	} else {
		h.health.SetServingStatus(ItemsServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	}

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Shutdown switches every status to NOT_SERVING.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
