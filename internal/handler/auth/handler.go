package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/clinic-api/internal/handler"
	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/service/auth"
	"github.com/medibook/clinic-api/pkg/errors"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/patients/login", h.LoginPatient)
		authGroup.POST("/doctors/login", h.LoginDoctor)
		authGroup.POST("/admins/login", h.LoginAdmin)
	}
}

func (h *Handler) LoginPatient(c *gin.Context) {
	h.login(c, h.service.LoginPatient)
}

func (h *Handler) LoginDoctor(c *gin.Context) {
	h.login(c, h.service.LoginDoctor)
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	h.login(c, h.service.LoginAdmin)
}

func (h *Handler) login(c *gin.Context, fn func(context.Context, *model.LoginRequest) (*model.TokenResponse, error)) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, errors.Validation(err.Error()))
		return
	}

	token, err := fn(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, token)
}
