package rooms

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

// Handler manages room and verification endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers room routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.remove)
		r.Get("/verifications", h.listVerifications)
		r.Post("/verifications", h.createVerification)
	})
	r.Put("/verifications/{verificationId}", h.updateVerification)
}

type roomRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type verificationRequest struct {
	CourseID    int64  `json:"courseId"`
	ClassNumber int    `json:"classNumber"`
	Condition   string `json:"condition"`
	Note        string `json:"note"`
}

type listResponse struct {
	Rooms      []Room            `json:"rooms"`
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
		h.logger.Error("list rooms", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, listResponse{Rooms: out, Pagination: pagination})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	room, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, room)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	var req roomRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	room, err := h.service.Create(r.Context(), actor, Room{Name: req.Name, Capacity: req.Capacity})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, room)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req roomRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.service.Update(r.Context(), actor, id, Room{Name: req.Name, Capacity: req.Capacity}); err != nil {
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
	id, err := pathInt64(r, "id")
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

func (h *Handler) listVerifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	out, err := h.service.ListVerifications(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, out)
}

func (h *Handler) createVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req verificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	v, err := h.service.CreateVerification(r.Context(), actor, Verification{
		RoomID:      id,
		CourseID:    req.CourseID,
		ClassNumber: req.ClassNumber,
		Condition:   req.Condition,
		Note:        req.Note,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, v)
}

func (h *Handler) updateVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	id, err := pathInt64(r, "verificationId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req verificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.service.UpdateVerification(r.Context(), actor, id, req.Condition, req.Note); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", shared.ErrValidation, name)
	}
	return value, nil
}
