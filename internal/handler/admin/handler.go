package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/handler"
	"github.com/medibook/clinic-api/internal/middleware"
	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/service/admin"
	"github.com/medibook/clinic-api/internal/service/appointment"
	"github.com/medibook/clinic-api/pkg/errors"
)

// Handler exposes the clinic-wide admin surface.
type Handler struct {
	appointments *appointment.Service
	admin        *admin.Service
}

func NewHandler(appointments *appointment.Service, adminSvc *admin.Service) *Handler {
	return &Handler{appointments: appointments, admin: adminSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	adminGroup := r.Group("/admin")
	{
		adminGroup.GET("/appointments", h.ListAppointments)
		adminGroup.PATCH("/appointments/:id/status", h.UpdateStatus)
		adminGroup.GET("/stats", h.Stats)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	var sort model.SortOrder
	if err := c.ShouldBindQuery(&sort); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	appointments, err := h.appointments.ListAll(c.Request.Context(), filters, sort)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondError(c, errors.Validation("invalid appointment ID"))
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	apt, err := h.appointments.UpdateStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, apt)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, stats)
}
