package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"leave_portal/internal/middleware"
	"leave_portal/internal/model"
	"leave_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*model.User)
	return user, args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*model.User)
	return user, args.String(1), args.Error(2)
}

func (m *mockAuthService) Verify(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type mockLeaveService struct {
	mock.Mock
}

func (m *mockLeaveService) CreateLeave(ctx context.Context, employeeID int64, req model.CreateLeaveRequest) (*model.Leave, error) {
	args := m.Called(ctx, employeeID, req)
	leave, _ := args.Get(0).(*model.Leave)
	return leave, args.Error(1)
}

func (m *mockLeaveService) GetMyLeaves(ctx context.Context, employeeID int64) ([]model.Leave, error) {
	args := m.Called(ctx, employeeID)
	leaves, _ := args.Get(0).([]model.Leave)
	return leaves, args.Error(1)
}

func (m *mockLeaveService) GetLeave(ctx context.Context, leaveID, callerID int64, callerRole model.Role) (*model.Leave, error) {
	args := m.Called(ctx, leaveID, callerID, callerRole)
	leave, _ := args.Get(0).(*model.Leave)
	return leave, args.Error(1)
}

func (m *mockLeaveService) UpdateLeave(ctx context.Context, leaveID, employeeID int64, req model.UpdateLeaveRequest) (*model.Leave, error) {
	args := m.Called(ctx, leaveID, employeeID, req)
	leave, _ := args.Get(0).(*model.Leave)
	return leave, args.Error(1)
}

func (m *mockLeaveService) CancelLeave(ctx context.Context, leaveID, employeeID int64) (*model.Leave, error) {
	args := m.Called(ctx, leaveID, employeeID)
	leave, _ := args.Get(0).(*model.Leave)
	return leave, args.Error(1)
}

func (m *mockLeaveService) GetAllLeaves(ctx context.Context, filters model.LeaveFilters) ([]model.Leave, error) {
	args := m.Called(ctx, filters)
	leaves, _ := args.Get(0).([]model.Leave)
	return leaves, args.Error(1)
}

func (m *mockLeaveService) DecideLeave(ctx context.Context, leaveID, approverID int64, approverRole model.Role, req model.DecisionRequest) (*model.Leave, error) {
	args := m.Called(ctx, leaveID, approverID, approverRole, req)
	leave, _ := args.Get(0).(*model.Leave)
	return leave, args.Error(1)
}

func (m *mockLeaveService) GetStatistics(ctx context.Context, filters model.LeaveFilters) (*model.LeaveStats, error) {
	args := m.Called(ctx, filters)
	stats, _ := args.Get(0).(*model.LeaveStats)
	return stats, args.Error(1)
}

func (m *mockLeaveService) ExportLeaves(ctx context.Context, filters model.LeaveFilters, format service.ExportFormat) (*service.Export, error) {
	args := m.Called(ctx, filters, format)
	export, _ := args.Get(0).(*service.Export)
	return export, args.Error(1)
}

// Test tokens map straight to identities: "<id>:<ROLE>"
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		id, role, found := strings.Cut(token, ":")
		userID, err := strconv.ParseInt(id, 10, 64)
		if !found || err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(middleware.AuthUserKey, userID)
		c.Set(middleware.AuthRoleKey, model.Role(role))
		c.Next()
	}
}

func newRouter(auth *mockAuthService, leaves *mockLeaveService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	api := r.Group("/api")
	if auth != nil {
		NewAuthHandler(auth).RegisterAuthRoutes(api, fakeAuth())
	}
	if leaves != nil {
		NewLeaveHandler(leaves).RegisterLeaveRoutes(api, fakeAuth(), middleware.ManagerOrAdminMiddleware())
	}
	return r
}
