package medicine

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medremind/medremind-api/internal/handler"
	"github.com/medremind/medremind-api/internal/middleware"
	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/service/medicine"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
)

type Handler struct {
	service *medicine.Service
}

func NewHandler(service *medicine.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateMedicine(c *gin.Context) {
	var req model.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "medicine created", "medicine": created})
}

func (h *Handler) GetMedicine(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid medicine ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) ListMedicines(c *gin.Context) {
	medicines, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, medicines)
}

func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid medicine ID", err))
		return
	}

	var req model.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "medicine updated", "medicine": updated})
}

func (h *Handler) DeleteMedicine(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid medicine ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "medicine deleted"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	write := middleware.RequireRole(model.RolePharmacist, model.RoleAdmin)

	medicines := r.Group("/medicines")
	{
		medicines.POST("", write, h.CreateMedicine)
		medicines.GET("", h.ListMedicines)
		medicines.GET("/:id", h.GetMedicine)
		medicines.PUT("/:id", write, h.UpdateMedicine)
		medicines.DELETE("/:id", write, h.DeleteMedicine)
	}
}
