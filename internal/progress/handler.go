package progress

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.HandleGet).Methods("GET").Name("get-progress")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.Progress(ctx, ownerID)
	if err != nil {
		log.Errorf("get progress for %s: %s", ownerID, err)
		http.Error(w, "error, failed to load progress", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}
