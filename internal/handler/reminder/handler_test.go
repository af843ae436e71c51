package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medremind/medremind-api/internal/middleware"
	"github.com/medremind/medremind-api/internal/model"
	reminderservice "github.com/medremind/medremind-api/internal/service/reminder"
	"github.com/medremind/medremind-api/pkg/logger"
)

type stubRepo struct {
	reminders map[int64]*model.ReminderDetail
}

func (r *stubRepo) BulkCreate(ctx context.Context, tx *sqlx.Tx, reminders []*model.MedicineReminder) error {
	return nil
}

func (r *stubRepo) DeleteForPrescription(ctx context.Context, tx *sqlx.Tx, prescriptionID int64) error {
	return nil
}

func (r *stubRepo) ListPending(ctx context.Context, before time.Time, limit int) ([]*model.ReminderDetail, error) {
	var out []*model.ReminderDetail
	for _, detail := range r.reminders {
		if detail.Sent || detail.ReminderTime.After(before) {
			continue
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderTime.Before(out[j].ReminderTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubRepo) FilterExisting(ctx context.Context, ids []int64) ([]int64, error) {
	var found []int64
	for _, id := range ids {
		if _, ok := r.reminders[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *stubRepo) BulkSetStatus(ctx context.Context, field model.ReminderStatusField, ids []int64) error {
	return nil
}

func newTestRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())

	svc := reminderservice.NewService(repo, logger.NewLogger(nil))
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func seedRepo(ids ...int64) *stubRepo {
	repo := &stubRepo{reminders: make(map[int64]*model.ReminderDetail)}
	past := time.Now().Add(-time.Hour)
	for i, id := range ids {
		detail := &model.ReminderDetail{}
		detail.ID = id
		detail.ReminderTime = past.Add(time.Duration(i) * time.Minute)
		repo.reminders[id] = detail
	}
	return repo
}

type bulkResponse struct {
	Message     string  `json:"message"`
	UpdatedIDs  []int64 `json:"updatedIds"`
	NotFoundIDs []int64 `json:"notFoundIds"`
}

func patchStatus(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBulkAcknowledgeFullSuccess(t *testing.T) {
	router := newTestRouter(seedRepo(1, 2))

	rec := patchStatus(t, router, "/api/v1/reminders/acknowledged", `{"ids":[1,2]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bulkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{1, 2}, resp.UpdatedIDs)
	assert.Empty(t, resp.NotFoundIDs)
	assert.Contains(t, resp.Message, "acknowledged")
}

func TestBulkAcknowledgePartialSuccess(t *testing.T) {
	router := newTestRouter(seedRepo(1, 2))

	rec := patchStatus(t, router, "/api/v1/reminders/acknowledged", `{"ids":[1,2,999]}`)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var resp bulkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{1, 2}, resp.UpdatedIDs)
	assert.Equal(t, []int64{999}, resp.NotFoundIDs)
}

func TestBulkSentSharesBehavior(t *testing.T) {
	router := newTestRouter(seedRepo(3))

	rec := patchStatus(t, router, "/api/v1/reminders/sent", `{"ids":[3,4]}`)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var resp bulkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{3}, resp.UpdatedIDs)
	assert.Equal(t, []int64{4}, resp.NotFoundIDs)
	assert.Contains(t, resp.Message, "sent")
}

func TestBulkStatusRejectsBadPayloads(t *testing.T) {
	router := newTestRouter(seedRepo(1))

	cases := []struct {
		name string
		body string
	}{
		{"empty array", `{"ids":[]}`},
		{"missing ids", `{}`},
		{"non-numeric ids", `{"ids":["a","b"]}`},
		{"malformed json", `{"ids":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := patchStatus(t, router, "/api/v1/reminders/acknowledged", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Message, "ids")
		})
	}
}

func TestFetchPendingReminders(t *testing.T) {
	router := newTestRouter(seedRepo(1, 2, 3))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reminders?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reminders []model.ReminderDetail `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Reminders, 2)
}

func TestFetchPendingRemindersBeforeCutoff(t *testing.T) {
	repo := seedRepo(1)
	// A reminder far in the past, requested with an even earlier cutoff.
	repo.reminders[1].ReminderTime = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reminders?before=2025-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reminders []model.ReminderDetail `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Reminders)
}

func TestFetchPendingRemindersInvalidBefore(t *testing.T) {
	router := newTestRouter(seedRepo(1))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reminders?before=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "RFC3339")
}
