package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelbook/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type apiHarness struct {
	*fixture
	router *gin.Engine
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	SetupBookingRoutes(r.Group("/api/v1"), NewController(f.svc, NewReconciler(f.repo, f.repo, 50)), cfg)
	return &apiHarness{fixture: f, router: r}
}

func token(t *testing.T, actor Actor) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": actor.ID.String(),
		"email":   "someone@example.com",
		"role":    actor.Role.String(),
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (h *apiHarness) do(t *testing.T, actor *Actor, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, *actor))
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func (h *apiHarness) createBooking(t *testing.T) BookingResponse {
	t.Helper()
	code, env := h.do(t, &h.owner, http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"package":        h.pkg.ID.String(),
		"startDate":      "2025-06-01",
		"numberOfPeople": 4,
		"paymentMethod":  "credit_card",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var b BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func TestCreateBookingEndpoint(t *testing.T) {
	h := newAPIHarness(t)

	code, env := h.do(t, &h.owner, http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"package":        h.pkg.ID.String(),
		"startDate":      "2025-06-01",
		"numberOfPeople": 4,
		"paymentMethod":  "credit_card",
		"endDate":        "2030-01-01",
		"totalPrice":     1,
		"status":         "confirmed",
	})
	require.Equal(t, http.StatusCreated, code)

	var b BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, "2025-06-06", b.EndDate, "client end date is ignored")
	assert.Equal(t, 100000.0, b.TotalPrice, "client total is ignored")
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "pending", b.PaymentStatus)
	assert.Equal(t, h.pkg.ID.String(), b.Package)
	assert.Equal(t, h.owner.ID.String(), b.User)
}

func TestCreateBookingEndpointErrors(t *testing.T) {
	h := newAPIHarness(t)

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
	}{
		{"unknown package", map[string]interface{}{
			"package": uuid.NewString(), "startDate": "2025-06-01", "numberOfPeople": 2, "paymentMethod": "cash",
		}, http.StatusNotFound},
		{"zero people", map[string]interface{}{
			"package": h.pkg.ID.String(), "startDate": "2025-06-01", "numberOfPeople": 0, "paymentMethod": "cash",
		}, http.StatusBadRequest},
		{"malformed package id", map[string]interface{}{
			"package": "not-a-uuid", "startDate": "2025-06-01", "numberOfPeople": 2, "paymentMethod": "cash",
		}, http.StatusBadRequest},
		{"missing payment method", map[string]interface{}{
			"package": h.pkg.ID.String(), "startDate": "2025-06-01", "numberOfPeople": 2,
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := h.do(t, &h.owner, http.MethodPost, "/api/v1/bookings", tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestBookingEndpointsRequireAuth(t *testing.T) {
	h := newAPIHarness(t)

	code, _ := h.do(t, nil, http.MethodGet, "/api/v1/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStatusEndpointCodes(t *testing.T) {
	h := newAPIHarness(t)
	b := h.createBooking(t)
	statusPath := "/api/v1/bookings/" + b.ID + "/status"

	code, _ := h.do(t, &h.owner, http.MethodPut, statusPath, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(t, &h.agency, http.MethodPut, "/api/v1/bookings/"+uuid.NewString()+"/status", map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(t, &h.agency, http.MethodPut, statusPath, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := h.do(t, &h.agency, http.MethodPut, statusPath, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, code)
	var updated BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "confirmed", updated.Status)

	code, _ = h.do(t, &h.admin, http.MethodPut, "/api/v1/bookings/"+b.ID+"/payment", map[string]string{"paymentStatus": "paid"})
	assert.Equal(t, http.StatusOK, code)
}

func TestCancelEndpoint(t *testing.T) {
	h := newAPIHarness(t)
	b := h.createBooking(t)
	cancelPath := "/api/v1/bookings/" + b.ID + "/cancel"

	code, _ := h.do(t, &h.stranger, http.MethodPut, cancelPath, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := h.do(t, &h.owner, http.MethodPut, cancelPath, nil)
	require.Equal(t, http.StatusOK, code)
	var cancelled BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	code, _ = h.do(t, &h.owner, http.MethodPut, cancelPath, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetAndListEndpoints(t *testing.T) {
	h := newAPIHarness(t)
	b := h.createBooking(t)

	code, _ := h.do(t, &h.stranger, http.MethodGet, "/api/v1/bookings/"+b.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = h.do(t, &h.agency, http.MethodGet, "/api/v1/bookings/"+b.ID, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = h.do(t, &h.owner, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := h.do(t, &h.owner, http.MethodGet, "/api/v1/bookings?limit=5", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items      []BookingResponse `json:"items"`
		TotalCount int64             `json:"totalCount"`
		Limit      int               `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.TotalCount)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	code, env = h.do(t, &h.owner, http.MethodGet, "/api/v1/users/trips", nil)
	require.Equal(t, http.StatusOK, code)
	var trips []BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, b.ID, trips[0].ID)
}

func TestReconcileEndpointIsAdminOnly(t *testing.T) {
	h := newAPIHarness(t)
	h.repo.skipTrip = true
	h.createBooking(t)

	code, _ := h.do(t, &h.agency, http.MethodPost, "/api/v1/admin/bookings/reconcile", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := h.do(t, &h.admin, http.MethodPost, "/api/v1/admin/bookings/reconcile", nil)
	require.Equal(t, http.StatusOK, code)
	var report ReconcileReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, ReconcileReport{Scanned: 1, Repaired: 1}, report)
}
