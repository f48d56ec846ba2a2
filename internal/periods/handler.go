package periods

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/platform/httpx"
	"github.com/schedulo/schedulo/internal/shared"
)

// Handler manages period endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers period routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type createRequest struct {
	CourseID    int64     `json:"courseId"`
	ClassNumber int       `json:"classNumber"`
	TeacherID   int64     `json:"teacherId"`
	RoomID      int64     `json:"roomId"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
}

type rescheduleRequest struct {
	RoomID   int64     `json:"roomId"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	courseID, err := strconv.ParseInt(r.URL.Query().Get("courseId"), 10, 64)
	if err != nil || courseID <= 0 {
		httpx.RespondError(w, r, fmt.Errorf("%w: courseId query parameter is required", shared.ErrValidation))
		return
	}
	classNumber, err := strconv.Atoi(r.URL.Query().Get("classNumber"))
	if err != nil || classNumber <= 0 {
		httpx.RespondError(w, r, fmt.Errorf("%w: classNumber query parameter is required", shared.ErrValidation))
		return
	}
	out, err := h.service.ListByClass(r.Context(), actor, courseID, classNumber)
	if err != nil {
		h.logger.Error("list periods", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, out)
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
	period, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, period)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrAuthentication)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	period, err := h.service.Create(r.Context(), actor, Period{
		CourseID:    req.CourseID,
		ClassNumber: req.ClassNumber,
		TeacherID:   req.TeacherID,
		RoomID:      req.RoomID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, period)
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
	var req rescheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.service.Reschedule(r.Context(), actor, id, Reschedule{
		RoomID:   req.RoomID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}); err != nil {
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
