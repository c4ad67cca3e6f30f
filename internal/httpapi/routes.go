package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/PranavOak12/dotsandboxes/internal/hub"
	"github.com/PranavOak12/dotsandboxes/internal/monitor"
	"github.com/PranavOak12/dotsandboxes/internal/ws"
)

func SetupRoutes(h *hub.Hub, mon *monitor.Metrics, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/rooms", CreateRoom(h))
	r.Get("/rooms/{id}", RoomState(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, mon, log))
	r.Handle("/metrics", promhttp.Handler())
	return r
}
