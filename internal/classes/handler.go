package classes

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

// Handler manages class and enrollment endpoints. It is mounted under
// /courses/{courseId}/classes.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers class routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{number}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.remove)
		r.Get("/users", h.listMembers)
		r.Post("/users", h.addMember)
		r.Put("/users/{userId}", h.updateMember)
		r.Delete("/users/{userId}", h.removeMember)
	})
}

type classRequest struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type memberRequest struct {
	UserID int64  `json:"userId"`
	Type   string `json:"type"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	out, err := h.service.ListByCourse(r.Context(), actor, courseID)
	if err != nil {
		h.logger.Error("list classes", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	class, err := h.service.Get(r.Context(), actor, courseID, number)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, class)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req classRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	class, err := h.service.Create(r.Context(), actor, Class{CourseID: courseID, Number: req.Number, Name: req.Name})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, class)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req classRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	if err := h.service.Update(r.Context(), actor, courseID, number, req.Name); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), actor, courseID, number); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	out, err := h.service.ListMembers(r.Context(), actor, courseID, number)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, out)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req memberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	membershipType, err := authz.ParseMembershipType(req.Type)
	if err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: unknown membership type", shared.ErrValidation))
		return
	}
	membership, err := h.service.AddMember(r.Context(), actor, Membership{
		UserID:      req.UserID,
		CourseID:    courseID,
		ClassNumber: number,
		Type:        membershipType,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusCreated, membership)
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	userID, err := pathInt64(r, "userId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req memberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: invalid JSON body", shared.ErrValidation))
		return
	}
	membershipType, err := authz.ParseMembershipType(req.Type)
	if err != nil {
		httpx.RespondError(w, r, fmt.Errorf("%w: unknown membership type", shared.ErrValidation))
		return
	}
	if err := h.service.UpdateMember(r.Context(), actor, Membership{
		UserID:      userID,
		CourseID:    courseID,
		ClassNumber: number,
		Type:        membershipType,
	}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	actor, courseID, err := requestScope(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	number, err := pathInt(r, "number")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	userID, err := pathInt64(r, "userId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if err := h.service.RemoveMember(r.Context(), actor, userID, courseID, number); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, nil)
}

func requestScope(r *http.Request) (authz.Principal, int64, error) {
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		return authz.Principal{}, 0, shared.ErrAuthentication
	}
	courseID, err := pathInt64(r, "courseId")
	if err != nil {
		return authz.Principal{}, 0, err
	}
	return actor, courseID, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", shared.ErrValidation, name)
	}
	return value, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	value, err := pathInt64(r, name)
	return int(value), err
}
