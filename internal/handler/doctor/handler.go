package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/handler"
	"github.com/medibook/clinic-api/internal/middleware"
	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/internal/service/appointment"
	"github.com/medibook/clinic-api/internal/service/schedule"
	"github.com/medibook/clinic-api/pkg/errors"
)

// Handler exposes the doctor workspace: their ledger, availability and
// dashboard. The public directory listing lives here too.
type Handler struct {
	appointments *appointment.Service
	schedule     *schedule.Service
	doctors      repository.DoctorRepository
}

func NewHandler(appointments *appointment.Service, scheduleSvc *schedule.Service, doctors repository.DoctorRepository) *Handler {
	return &Handler{
		appointments: appointments,
		schedule:     scheduleSvc,
		doctors:      doctors,
	}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.ListDoctors)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("/appointments", h.ListAppointments)
		doctors.PATCH("/appointments/:id/status", h.UpdateStatus)
		doctors.PUT("/appointments/:id/notes", h.UpdateNotes)
		doctors.GET("/availability", h.GetAvailability)
		doctors.PUT("/availability", h.ReplaceAvailability)
		doctors.GET("/dashboard", h.Dashboard)
		doctors.GET("/patients/:id/history", h.PatientHistory)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.ListPublic(c.Request.Context())
	if err != nil {
		handler.RespondError(c, errors.Internal(err))
		return
	}

	handler.RespondSuccess(c, http.StatusOK, doctors)
}

func (h *Handler) ListAppointments(c *gin.Context) {
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

	appointments, err := h.appointments.ListForDoctor(c.Request.Context(), caller, filters)
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

func (h *Handler) UpdateNotes(c *gin.Context) {
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

	var req model.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	apt, err := h.appointments.UpdateNotes(c.Request.Context(), caller, id, req.Notes)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, apt)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	availability, err := h.schedule.GetAvailability(c.Request.Context(), caller.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, gin.H{"availability": availability})
}

func (h *Handler) ReplaceAvailability(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	var req model.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	availability, err := h.schedule.ReplaceAvailability(c.Request.Context(), caller.ID, req.Availability)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, gin.H{"availability": availability})
}

func (h *Handler) Dashboard(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	dashboard, err := h.appointments.Dashboard(c.Request.Context(), caller)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, dashboard)
}

func (h *Handler) PatientHistory(c *gin.Context) {
	caller, ok := middleware.IdentityFromContext(c)
	if !ok {
		handler.RespondError(c, errors.Authentication("authentication required"))
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondError(c, errors.Validation("invalid patient ID"))
		return
	}

	history, err := h.appointments.History(c.Request.Context(), caller, patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, history)
}
