package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"
	"github.com/senolsoyleyici/poemsite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type adminService interface {
	Setup(ctx context.Context) error
	Login(ctx context.Context, username, password string) (string, error)
}

type Handler struct {
	service adminService
}

func NewHandler(service adminService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/admin/setup", handler.handleSetup).Methods("POST", "OPTIONS").Name("admin-setup")
	router.HandleFunc("/admin/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("admin-login")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (handler *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "auth.handler.setup")
	defer span.End()

	if err := handler.service.Setup(ctx); err != nil {
		if errors.Is(err, ErrAdminExists) {
			pkg.WriteJSONError(w, "admin already exists", http.StatusBadRequest)
			return
		}
		log.Errorf("admin setup failed: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugln("admin setup done")
	pkg.WriteJSONResponseOK(w, `{"message":"admin created"}`)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "auth.handler.login")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("login failed, decode request: %s", err)
		pkg.WriteJSONError(w, "invalid login request", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		pkg.WriteJSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			pkg.WriteJSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed for user [%s]: %s", req.Username, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(loginResponse{
		Token:   token,
		Message: "logged in",
	})
	if err != nil {
		log.Errorf("login failed, marshal response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Tracef("user [%s] logged in", req.Username)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
