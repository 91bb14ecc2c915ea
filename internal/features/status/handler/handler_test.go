package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shipment-status/internal/core/cache"
	"shipment-status/internal/features/status/adapters"
	"shipment-status/internal/features/status/domain"
	"shipment-status/internal/features/status/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUnmappedRecorder is a mock implementation of ports.UnmappedRecorder
type MockUnmappedRecorder struct {
	mock.Mock
}

func (m *MockUnmappedRecorder) Record(ctx context.Context, canonical string) error {
	args := m.Called(ctx, canonical)
	return args.Error(0)
}

func (m *MockUnmappedRecorder) Top(ctx context.Context, limit int) ([]domain.UnmappedStatus, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnmappedStatus), args.Error(1)
}

func setupApp(recorder *MockUnmappedRecorder) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	NewStatusHandler(service.NewStatusService(recorder, zap.NewNop())).Register(app)
	return app
}

func TestStatusHandler_Normalize(t *testing.T) {
	t.Run("Recognized", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		req := httptest.NewRequest("GET", "/status/normalize?raw=RTO_Initiated", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result domain.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, domain.Describe(domain.StageReturned), result)
	})

	t.Run("MissingRawIsDefault", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		req := httptest.NewRequest("GET", "/status/normalize", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result domain.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, domain.StageOrderPlaced, result.Stage)
	})

	t.Run("UnknownIsRecorded", func(t *testing.T) {
		recorder := new(MockUnmappedRecorder)
		app := setupApp(recorder)
		recorder.On("Record", mock.Anything, "held at customs").Return(nil).Once()

		req := httptest.NewRequest("GET", "/status/normalize?raw=HELD_AT_CUSTOMS", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		recorder.AssertExpectations(t)
	})
}

func TestStatusHandler_NormalizeBatch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		body, _ := json.Marshal(BatchRequest{Statuses: []string{"delivered", "in_transit", "Pickup Scheduled"}})
		req := httptest.NewRequest("POST", "/status/normalize", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result BatchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result.Results, 3)
		assert.Equal(t, 5, result.Results[0].ProgressIndex)
		assert.Equal(t, 3, result.Results[1].ProgressIndex)
		assert.Equal(t, 1, result.Results[2].ProgressIndex)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		req := httptest.NewRequest("POST", "/status/normalize", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "test-ray-id", errResp.RayID)
	})

	t.Run("TooMany", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		body, _ := json.Marshal(BatchRequest{Statuses: make([]string, maxBatchSize+1)})
		req := httptest.NewRequest("POST", "/status/normalize", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestStatusHandler_Stages(t *testing.T) {
	app := setupApp(new(MockUnmappedRecorder))

	resp, err := app.Test(httptest.NewRequest("GET", "/status/stages", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result StagesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Stages, 8)
	assert.Len(t, result.HappyPath, 6)
	assert.Equal(t, "Returned", result.Stages[7].DisplayLabel)
}

func TestStatusHandler_Unmapped(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		recorder := new(MockUnmappedRecorder)
		app := setupApp(recorder)
		recorder.On("Top", mock.Anything, 3).Return([]domain.UnmappedStatus{{Canonical: "lost", Count: 9}}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/admin/unmapped-statuses?limit=3", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result UnmappedResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, []domain.UnmappedStatus{{Canonical: "lost", Count: 9}}, result.Statuses)
		recorder.AssertExpectations(t)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		resp, err := app.Test(httptest.NewRequest("GET", "/admin/unmapped-statuses?limit=abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("LimitTooLarge", func(t *testing.T) {
		app := setupApp(new(MockUnmappedRecorder))

		resp, err := app.Test(httptest.NewRequest("GET", "/admin/unmapped-statuses?limit=100000", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("RecorderError", func(t *testing.T) {
		recorder := new(MockUnmappedRecorder)
		app := setupApp(recorder)
		recorder.On("Top", mock.Anything, service.DefaultUnmappedLimit).Return(nil, errors.New("redis down")).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/admin/unmapped-statuses", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		recorder.AssertExpectations(t)
	})
}

// TestStatusHandler_Normalize_UnmappedStorageIsBounded floods the public endpoint with
// distinct unknown statuses and checks the Redis counter set stays small.
func TestStatusHandler_Normalize_UnmappedStorageIsBounded(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer redisCache.Close()

	recorder := adapters.NewRedisUnmappedRecorder(redisCache, 10)
	app := fiber.New()
	NewStatusHandler(service.NewStatusService(recorder, zap.NewNop())).Register(app)

	long := strings.Repeat("z", 1000)
	for i := 0; i < 100; i++ {
		path := fmt.Sprintf("/status/normalize?raw=%s%d", long, i)
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.False(t, mr.Exists("status:unmapped"))

	for i := 0; i < 40; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/status/normalize?raw=vendor_code_%d", i), nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	members, err := mr.ZMembers("status:unmapped")
	require.NoError(t, err)
	assert.Len(t, members, 10)
	for _, m := range members {
		assert.LessOrEqual(t, len(m), service.MaxRecordedLength)
	}
}
