package handler

import (
	"errors"
	"log"
	"net/http"

	"leave_portal/internal/middleware"
	"leave_portal/internal/service"

	"github.com/gin-gonic/gin"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidDate, http.StatusBadRequest},
	{service.ErrInvalidDateRange, http.StatusBadRequest},
	{service.ErrInvalidLeaveType, http.StatusBadRequest},
	{service.ErrInvalidAction, http.StatusBadRequest},
	{service.ErrInvalidStatusChange, http.StatusBadRequest},
	{service.ErrInvalidTimezone, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrUnsupportedFormat, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrLeaveNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrLeaveNotPending, http.StatusConflict},
}

// respondError maps a service error to its HTTP status. Anything unknown is
// logged with the request id and reported as a generic 500.
func respondError(c *gin.Context, err error, fallbackMsg string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}
	log.Printf("[%s] %s: %v", middleware.RequestID(c), fallbackMsg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
}
