package courses

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/platform/httpx"
	"github.com/schedulo/schedulo/internal/shared"
)

// Handler manages course endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers course routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type courseRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type listResponse struct {
	Courses    []Course          `json:"courses"`
	Pagination shared.Pagination `json:"pagination"`
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
		h.logger.Error("list courses", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, listResponse{Courses: out, Pagination: pagination})
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
	course, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, course)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	var req courseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	course, err := h.service.Create(r.Context(), actor, Course{Name: req.Name, Abbreviation: req.Abbreviation})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, course)
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
	var req courseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.service.Update(r.Context(), actor, id, Course{Name: req.Name, Abbreviation: req.Abbreviation}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
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
