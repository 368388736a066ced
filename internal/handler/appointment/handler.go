package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/handler"
	"github.com/medibook/clinic-api/internal/middleware"
	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/service/appointment"
	"github.com/medibook/clinic-api/internal/service/schedule"
	"github.com/medibook/clinic-api/pkg/errors"
)

// Handler exposes the patient-facing booking surface.
type Handler struct {
	service  *appointment.Service
	schedule *schedule.Service
}

func NewHandler(service *appointment.Service, scheduleSvc *schedule.Service) *Handler {
	return &Handler{service: service, schedule: scheduleSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/available-slots", h.AvailableSlots)
		appointments.GET("/my-appointments", h.MyAppointments)
		appointments.GET("/recent", h.RecentAppointments)
		appointments.PUT("/cancel/:id", h.CancelAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusCreated, apt)
}

// AvailableSlots resolves the free slots for ?doctorId=...&date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctorId"))
	if err != nil {
		handler.RespondError(c, errors.Validation("invalid doctor ID"))
		return
	}

	date := c.Query("date")
	if date == "" {
		handler.RespondError(c, errors.Validation("date is required"))
		return
	}

	slots, err := h.schedule.Resolve(c.Request.Context(), doctorID, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) MyAppointments(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	appointments, err := h.service.ListForPatient(c.Request.Context(), caller, filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) RecentAppointments(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	appointments, err := h.service.Recent(c.Request.Context(), caller)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
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

	apt, err := h.service.Cancel(c.Request.Context(), caller, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, apt)
}
