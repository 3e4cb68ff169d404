package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

// base64 adds a third on top of the max image size
const maxImageRequestBody = MaxImageSize*4/3 + 64<<10

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UploadImageRequest struct {
	Image string `json:"image"`
}

type UploadImageResponse struct {
	PhotoURL string `json:"photoURL"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	router.HandleFunc("", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-profile")
	router.HandleFunc("/password", handler.HandleChangePassword).Methods("PUT", "OPTIONS").Name("change-password")
	router.HandleFunc("/image", handler.HandleUploadImage).Methods("POST", "OPTIONS").Name("upload-profile-image")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.service.Get(ctx, userID)
	if err != nil {
		writeUserError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		http.Error(w, "invalid profile", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		http.Error(w, "error, display name empty", http.StatusBadRequest)
		return
	}

	user, err := handler.service.SetDisplayName(ctx, userID, req.DisplayName)
	if err != nil {
		writeUserError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.changePassword")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("change password, unmarshal json params: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := handler.service.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrWrongCredentials):
			http.Error(w, "error, wrong credentials", http.StatusForbidden)
		case errors.Is(err, auth.ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			writeUserError(w, userID, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.uploadImage")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequestBody)
	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "error, image too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Tracef("upload image, unmarshal json params: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	photoURL, err := handler.service.UploadImage(ctx, userID, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, ErrImageTooLarge):
			http.Error(w, "error, image too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, ErrInvalidImage):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			writeUserError(w, userID, err)
		}
		return
	}

	pkg.WriteJSON(w, UploadImageResponse{PhotoURL: photoURL}, http.StatusOK)
}

func writeUserError(w http.ResponseWriter, userID string, err error) {
	if errors.Is(err, auth.ErrUserNotFound) {
		http.Error(w, "error, user not found", http.StatusNotFound)
		return
	}
	log.Errorf("profile request for user %s: %s", userID, err)
	http.Error(w, "error, profile request failed", http.StatusInternalServerError)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// MediaHandler serves objects from a DiskStore.
type MediaHandler struct {
	store *DiskStore
}

func NewMediaHandler(store *DiskStore) *MediaHandler {
	return &MediaHandler{store: store}
}

func (handler *MediaHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/{key:.+}", handler.HandleGet).Methods("GET").Name("get-media")
}

func (handler *MediaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.media.get")
	defer span.End()

	key := mux.Vars(r)["key"]
	data, contentType, err := handler.store.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, ErrObjectNotFound), errors.Is(err, ErrInvalidKey):
			http.Error(w, "not found", http.StatusNotFound)
		default:
			log.Errorf("get media %s: %s", key, err)
			http.Error(w, "error, get media failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	pkg.WriteResponseBytes(w, contentType, data, http.StatusOK)
}
