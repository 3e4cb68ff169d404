package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type SignOutResponse struct {
	LoggedOut bool `json:"loggedOut"`
}

type Handler struct {
	authService    *Service
	metricsManager *metrics.Manager
}

func NewHandler(authService *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		authService:    authService,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/signup", handler.HandleSignUp).Methods("POST", "OPTIONS").Name("signup")
	router.HandleFunc("/signin", handler.HandleSignIn).Methods("POST", "OPTIONS").Name("signin")
	router.HandleFunc("/signout", handler.HandleSignOut).Methods("GET", "OPTIONS").Name("signout")
}

func (handler *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signUp")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("sign up, unmarshal json params: %s", err)
		http.Error(w, "sign up failed", http.StatusBadRequest)
		return
	}

	user, err := handler.authService.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "error, email already taken", http.StatusConflict)
		default:
			log.Errorf("sign up failed: %s", err)
			http.Error(w, "error, sign up failed", http.StatusInternalServerError)
		}
		return
	}
	handler.metricsManager.CounterSignUps.Inc()

	token, _, err := handler.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		log.Errorf("sign in after sign up failed for %s: %s", user.ID, err)
		http.Error(w, "error, sign in failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new user signed up: %s", user.ID)
	pkg.WriteJSON(w, SessionResponse{Token: token, User: user}, http.StatusCreated)
}

func (handler *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signIn")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("sign in, unmarshal json params: %s", err)
		http.Error(w, "sign in failed", http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, user, err := handler.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("sign in failed: %s", err)
		http.Error(w, "error, sign in failed", http.StatusInternalServerError)
		return
	}

	log.Trace("new sign in success")
	pkg.WriteJSON(w, SessionResponse{Token: token, User: user}, http.StatusOK)
}

func (handler *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signOut")
	defer span.End()

	token := TokenFromRequest(r)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.SignOut(ctx, token)
	if err != nil {
		log.Errorf("sign out failed: %s", err)
		http.Error(w, "error, sign out failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, SignOutResponse{LoggedOut: loggedOut}, http.StatusOK)
}
