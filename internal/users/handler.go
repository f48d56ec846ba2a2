package users

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/platform/httpx"
	"github.com/schedulo/schedulo/internal/shared"
)

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type listResponse struct {
	Users      []User            `json:"users"`
	Pagination shared.Pagination `json:"pagination"`
}

type updateRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	out, pagination, err := h.service.List(r.Context(), actor, page, perPage)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, listResponse{Users: out, Pagination: pagination})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	user, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	user, err := h.service.Update(r.Context(), actor, id, req.Name, req.Email)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, user)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	return id, nil
}
