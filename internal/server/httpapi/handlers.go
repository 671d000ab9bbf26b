package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebak/authd/internal/common"
	"github.com/sebak/authd/internal/logging"
	"github.com/sebak/authd/internal/server/services"
)

// AuthHandler serves the account registration and login endpoints.
type AuthHandler struct {
	service *services.AuthService
	log     logging.Logger
	metrics *Metrics
}

func NewAuthHandler(service *services.AuthService, log logging.Logger, metrics *Metrics) *AuthHandler {
	return &AuthHandler{service: service, log: log, metrics: metrics}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeRegisterError(w, r, err)
		return
	}

	h.metrics.ObserveRegistration("ok")
	writeJSON(w, http.StatusCreated, view)
}

func (h *AuthHandler) writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		h.metrics.ObserveRegistration("invalid")
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, common.ErrEmailTaken):
		h.metrics.ObserveRegistration("email_taken")
		writeError(w, http.StatusConflict, common.ErrEmailTaken.Error())
	case errors.Is(err, common.ErrStoreUnavailable):
		h.metrics.ObserveRegistration("error")
		h.log.Error(r.Context(), "registration failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, common.ErrStoreUnavailable.Error())
	default:
		h.metrics.ObserveRegistration("error")
		h.log.Error(r.Context(), "registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			h.metrics.ObserveLogin("invalid_credentials")
			writeError(w, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
		case errors.Is(err, common.ErrStoreUnavailable):
			h.metrics.ObserveLogin("error")
			h.log.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, common.ErrStoreUnavailable.Error())
		default:
			h.metrics.ObserveLogin("error")
			h.log.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.metrics.ObserveLogin("ok")
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/me for authenticated callers.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    id.AccountID,
		"email": id.Email,
	})
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
