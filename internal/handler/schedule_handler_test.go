package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhtran/scorekeeper-api/internal/middleware"
	"github.com/vhtran/scorekeeper-api/internal/models"
	"github.com/vhtran/scorekeeper-api/internal/service"
	"github.com/vhtran/scorekeeper-api/internal/store/memory"
)

func TestScheduleHandlerCreateStampsCreator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewScheduleStore()
	handler := NewScheduleHandler(service.NewScheduleService(store, nil, nil, nil))

	start := time.Now().UTC().Add(-time.Hour)
	payload := map[string]interface{}{
		"name":          "S1 entry",
		"class_name":    "10A2",
		"academic_year": 2024,
		"semester":      "1",
		"start_at":      start,
		"end_at":        start.Add(2 * time.Hour),
		// A spoofed creator in the payload must be ignored.
		"created_by": "intruder",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/schedules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	window, err := store.FindActiveWindow(c.Request.Context(), "10A2", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", window.CreatedBy)
}

func TestScheduleHandlerCreateRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(service.NewScheduleService(memory.NewScheduleStore(), nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/schedules", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
