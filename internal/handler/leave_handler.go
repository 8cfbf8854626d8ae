package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"leave_portal/internal/middleware"
	"leave_portal/internal/model"
	"leave_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// LeaveHandler handles leave request routes
type LeaveHandler struct {
	service service.LeaveService
}

// NewLeaveHandler creates a new LeaveHandler
func NewLeaveHandler(s service.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int64, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (model.Role, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(model.Role)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

func parseLeaveID(c *gin.Context) (int64, bool) {
	leaveID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || leaveID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leave ID"})
		return 0, false
	}
	return leaveID, true
}

// parseFilters reads ?status= and ?employee= shared by the manager routes
func parseFilters(c *gin.Context) (model.LeaveFilters, bool) {
	var filters model.LeaveFilters
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.LeaveStatus(strings.ToUpper(statusParam))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return filters, false
		}
		filters.Status = &status
	}
	if employeeParam := c.Query("employee"); employeeParam != "" {
		eid, err := strconv.ParseInt(employeeParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee format"})
			return filters, false
		}
		filters.EmployeeID = &eid
	}
	return filters, true
}

func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	leave, err := h.service.CreateLeave(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create leave request")
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *LeaveHandler) GetMyLeaves(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	leaves, err := h.service.GetMyLeaves(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve leave requests")
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func (h *LeaveHandler) GetLeave(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}
	leaveID, ok := parseLeaveID(c)
	if !ok {
		return
	}

	leave, err := h.service.GetLeave(c.Request.Context(), leaveID, userID, userRole)
	if err != nil {
		respondError(c, err, "Failed to retrieve leave request")
		return
	}
	c.JSON(http.StatusOK, leave)
}

func (h *LeaveHandler) UpdateLeave(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	leaveID, ok := parseLeaveID(c)
	if !ok {
		return
	}

	var req model.UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	leave, err := h.service.UpdateLeave(c.Request.Context(), leaveID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update leave request")
		return
	}
	c.JSON(http.StatusOK, leave)
}

func (h *LeaveHandler) CancelLeave(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	leaveID, ok := parseLeaveID(c)
	if !ok {
		return
	}

	leave, err := h.service.CancelLeave(c.Request.Context(), leaveID, userID)
	if err != nil {
		respondError(c, err, "Failed to cancel leave request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leave request cancelled", "leave": leave})
}

// --- Manager/admin routes ---

func (h *LeaveHandler) GetAllLeaves(c *gin.Context) {
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	leaves, err := h.service.GetAllLeaves(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err, "Failed to retrieve leave requests")
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func (h *LeaveHandler) DecideLeave(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}
	leaveID, ok := parseLeaveID(c)
	if !ok {
		return
	}

	var req model.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	leave, err := h.service.DecideLeave(c.Request.Context(), leaveID, userID, userRole, req)
	if err != nil {
		respondError(c, err, "Failed to decide leave request")
		return
	}
	c.JSON(http.StatusOK, leave)
}

func (h *LeaveHandler) GetStatistics(c *gin.Context) {
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStatistics(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err, "Failed to retrieve statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *LeaveHandler) ExportLeaves(c *gin.Context) {
	filters, ok := parseFilters(c)
	if !ok {
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportCSV))))

	export, err := h.service.ExportLeaves(c.Request.Context(), filters, format)
	if err != nil {
		respondError(c, err, "Failed to export leave requests")
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+export.FileName)
	c.Data(http.StatusOK, export.ContentType, export.Data.Bytes())
}

// RegisterLeaveRoutes registers leave routes
func (h *LeaveHandler) RegisterLeaveRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, managerMW gin.HandlerFunc) {
	leaves := rg.Group("/leaves")
	leaves.Use(authMW)
	{
		leaves.POST("", h.CreateLeave)
		leaves.GET("/me", h.GetMyLeaves)
		leaves.GET("/:id", h.GetLeave)       // Service layer handles ownership
		leaves.PATCH("/:id", h.UpdateLeave)  // Service layer handles ownership
		leaves.DELETE("/:id", h.CancelLeave) // Service layer handles ownership

		leaves.GET("", managerMW, h.GetAllLeaves)
		leaves.GET("/stats", managerMW, h.GetStatistics)
		leaves.GET("/export", managerMW, h.ExportLeaves)
		leaves.POST("/:id/decision", managerMW, h.DecideLeave)
	}
}
