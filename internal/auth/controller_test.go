package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	r := gin.New()
	SetupAuthRoutes(r.Group("/api/v1"), NewController(NewService(newFakeRepo(), cfg)), cfg)
	return r
}

func send(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestAuthRoutes(t *testing.T) {
	r := newAuthEngine()

	code, _ := send(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := send(t, r, http.MethodPost, "/api/v1/auth/register", "", registerReq("route@example.com", "9000000030", ""))
	require.Equal(t, http.StatusCreated, code)
	var registered AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &registered))

	code, _ = send(t, r, http.MethodPost, "/api/v1/auth/register", "", registerReq("other@example.com", "9000000030", ""))
	assert.Equal(t, http.StatusConflict, code)

	code, env = send(t, r, http.MethodGet, "/api/v1/auth/me", registered.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var me UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "route@example.com", me.Email)

	// refresh tokens are not accepted on account routes
	code, _ = send(t, r, http.MethodGet, "/api/v1/auth/me", registered.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = send(t, r, http.MethodPut, "/api/v1/auth/change-password", registered.AccessToken,
		ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "brandnew1"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = send(t, r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "route@example.com", Password: "brandnew1"})
	assert.Equal(t, http.StatusOK, code)
}
