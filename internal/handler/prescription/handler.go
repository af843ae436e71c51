package prescription

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medremind/medremind-api/internal/handler"
	"github.com/medremind/medremind-api/internal/middleware"
	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/service/prescription"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("no doctor identity"))
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller.ID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "prescription created", "prescription": created})
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	prescriptions, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, prescriptions)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid prescription ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("no doctor identity"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid prescription ID", err))
		return
	}

	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), caller.ID, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prescription updated", "prescription": updated})
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid prescription ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prescription deleted"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctorOnly := middleware.RequireRole(model.RoleDoctor)
	doctorOrAdmin := middleware.RequireRole(model.RoleDoctor, model.RoleAdmin)

	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", doctorOnly, h.CreatePrescription)
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", doctorOnly, h.UpdatePrescription)
		prescriptions.DELETE("/:id", doctorOrAdmin, h.DeletePrescription)
	}
}
