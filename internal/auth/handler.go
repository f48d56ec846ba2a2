package auth

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/schedulo/schedulo/internal/platform/httpx"
	"github.com/schedulo/schedulo/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenService
	throttle  *LoginThrottle
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenService, throttle *LoginThrottle) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		throttle:  throttle,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, r, validationError(err))
		return
	}

	addr := clientAddr(r)
	if h.throttle != nil {
		if err := h.throttle.Reserve(r.Context(), req.Email, addr); err != nil {
			httpx.RespondError(w, r, err)
			return
		}
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	token, err := h.tokens.Generate(account.Email)
	if err != nil {
		h.logger.Error("generate token", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	if h.throttle != nil {
		if err := h.throttle.Clear(r.Context(), req.Email, addr); err != nil {
			h.logger.Warn("clear login throttle", slog.Any("error", err))
		}
	}
	httpx.JSON(w, r, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, r, validationError(err))
		return
	}

	account, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	token, err := h.tokens.Generate(account.Email)
	if err != nil {
		h.logger.Error("generate token", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, tokenResponse{Token: token})
}

func validationError(err error) error {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return fmt.Errorf("%w: field %s is invalid", shared.ErrValidation, fieldErrs[0].Field())
	}
	return shared.ErrValidation
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
