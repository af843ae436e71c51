package reminder

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medremind/medremind-api/internal/handler"
	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/service/reminder"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

// FetchPendingReminders lists not-yet-sent reminders due at or before the
// `before` cutoff (default now), capped at `limit` (default 100).
func (h *Handler) FetchPendingReminders(c *gin.Context) {
	before := time.Now()
	if q := c.Query("before"); q != "" {
		parsed, err := time.Parse(time.RFC3339, q)
		if err != nil {
			handler.Error(c, apperrors.BadRequest("invalid before: must be an RFC3339 timestamp", err))
			return
		}
		before = parsed
	}

	limit := 0
	if q := c.Query("limit"); q != "" {
		// Non-numeric limits fall back to the service default.
		limit, _ = strconv.Atoi(q)
	}

	reminders, err := h.service.FetchPending(c.Request.Context(), before, limit)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// bulkUpdateStatus serves both PATCH /reminders/acknowledged and
// PATCH /reminders/sent. Ids that resolve are updated even when others do
// not; that outcome is reported as 207 rather than an error.
func (h *Handler) bulkUpdateStatus(field model.ReminderStatusField) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BulkStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			handler.Error(c, apperrors.BadRequest(`"ids" must be a non-empty array of numbers`, err))
			return
		}

		result, err := h.service.BulkSetStatus(c.Request.Context(), field, req.IDs)
		if err != nil {
			handler.Error(c, err)
			return
		}

		status := http.StatusOK
		if len(result.NotFoundIDs) > 0 {
			status = http.StatusMultiStatus
		}

		c.JSON(status, gin.H{
			"message":     fmt.Sprintf("updated %s status", field),
			"updatedIds":  result.UpdatedIDs,
			"notFoundIds": result.NotFoundIDs,
		})
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.GET("", h.FetchPendingReminders)
		reminders.PATCH("/acknowledged", h.bulkUpdateStatus(model.ReminderFieldAcknowledged))
		reminders.PATCH("/sent", h.bulkUpdateStatus(model.ReminderFieldSent))
	}
}
