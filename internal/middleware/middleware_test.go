package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"leave_portal/internal/model"
	"leave_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	users map[string]*model.User
	err   error
}

func (s stubVerifier) Verify(_ context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: unknown", service.ErrInvalidToken)
}

func newTestRouter(verifier TokenVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequestIDMiddleware(), JWTAuthMiddleware(verifier)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetInt64(AuthUserKey), "role": c.MustGet(AuthRoleKey)})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	verifier := stubVerifier{users: map[string]*model.User{
		"good": {ID: 7, Role: model.RoleEmployee},
	}}
	r := newTestRouter(verifier)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"too many parts", "Bearer a b", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := doGet(r, "Bearer good")
	assert.JSONEq(t, `{"user":7,"role":"EMPLOYEE"}`, w.Body.String())
}

func TestJWTAuthMiddleware_VerifierFailure(t *testing.T) {
	r := newTestRouter(stubVerifier{err: errors.New("db down")})

	w := doGet(r, "Bearer anything")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestManagerOrAdminMiddleware(t *testing.T) {
	verifier := stubVerifier{users: map[string]*model.User{
		"employee": {ID: 1, Role: model.RoleEmployee},
		"manager":  {ID: 2, Role: model.RoleManager},
		"admin":    {ID: 3, Role: model.RoleAdmin},
	}}
	r := newTestRouter(verifier, ManagerOrAdminMiddleware())

	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer employee").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer manager").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer admin").Code)
}

func TestRoleMiddleware_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RoleMiddleware(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, doGet(r, "").Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}
