package model

import "time"

// LeaveType is the kind of leave being requested.
type LeaveType string

const (
	LeaveTypeCasual LeaveType = "CASUAL"
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypeEarned LeaveType = "EARNED"
	LeaveTypeUnpaid LeaveType = "UNPAID"
)

// LeaveTypes lists every leave type in display order.
var LeaveTypes = []LeaveType{LeaveTypeCasual, LeaveTypeSick, LeaveTypeEarned, LeaveTypeUnpaid}

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeCasual, LeaveTypeSick, LeaveTypeEarned, LeaveTypeUnpaid:
		return true
	}
	return false
}

// LeaveStatus is the state of a leave request.
type LeaveStatus string

const (
	StatusPending   LeaveStatus = "PENDING"
	StatusApproved  LeaveStatus = "APPROVED"
	StatusRejected  LeaveStatus = "REJECTED"
	StatusCancelled LeaveStatus = "CANCELLED"
)

// LeaveStatuses lists every status in display order.
var LeaveStatuses = []LeaveStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

// Valid reports whether s is a known status.
func (s LeaveStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s LeaveStatus) Terminal() bool {
	return s != StatusPending
}

// DecisionAction is what a manager does with a pending request.
type DecisionAction string

const (
	ActionApprove DecisionAction = "APPROVE"
	ActionReject  DecisionAction = "REJECT"
)

// Status returns the status a pending request moves to under the action.
func (a DecisionAction) Status() (LeaveStatus, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionReject:
		return StatusRejected, true
	}
	return "", false
}

// DateLayout is the calendar-date format used on the wire and in exports.
const DateLayout = "2006-01-02"

// Leave represents a leave request
type Leave struct {
	ID         int64            `json:"id"`
	EmployeeID int64            `json:"employeeId"`
	Employee   *EmployeeSummary `json:"employee,omitempty"` // Filled on manager listings
	Type       LeaveType        `json:"type"`
	StartDate  time.Time        `json:"startDate"`
	EndDate    time.Time        `json:"endDate"`
	Days       int              `json:"days"`
	Reason     *string          `json:"reason,omitempty"`
	Status     LeaveStatus      `json:"status"`
	ApproverID *int64           `json:"approverId,omitempty"`
	Comments   *string          `json:"comments,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// DurationDays is the inclusive number of calendar days covered by the request.
func (l *Leave) DurationDays() int {
	return DaysBetween(l.StartDate, l.EndDate)
}

// DaysBetween counts calendar days from start to end, both included.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// EmployeeSummary is the owner as shown to managers
type EmployeeSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department,omitempty"`
	Role       Role    `json:"role"`
}

// CreateLeaveRequest is used for creating a new leave request.
// Dates accept YYYY-MM-DD or RFC 3339. Timezone is the IANA zone the
// client picked the dates in; timestamps are read in that zone.
type CreateLeaveRequest struct {
	Type      LeaveType `json:"type" binding:"omitempty,oneof=CASUAL SICK EARNED UNPAID"`
	StartDate string    `json:"startDate" binding:"required"`
	EndDate   string    `json:"endDate" binding:"required"`
	Reason    *string   `json:"reason" binding:"omitempty,max=500"`
	Timezone  string    `json:"timezone,omitempty" binding:"omitempty,max=64"`
}

// UpdateLeaveRequest is a partial edit of a pending request by its owner
type UpdateLeaveRequest struct {
	Type      *LeaveType   `json:"type,omitempty" binding:"omitempty,oneof=CASUAL SICK EARNED UNPAID"` // Pointers to allow partial updates
	StartDate *string      `json:"startDate,omitempty"`
	EndDate   *string      `json:"endDate,omitempty"`
	Reason    *string      `json:"reason,omitempty" binding:"omitempty,max=500"`
	Status    *LeaveStatus `json:"status,omitempty"` // Only CANCELLED is accepted
	Timezone  string       `json:"timezone,omitempty" binding:"omitempty,max=64"`
}

// DecisionRequest is the body of POST /leaves/:id/decision
type DecisionRequest struct {
	Action   DecisionAction `json:"action" binding:"required,oneof=APPROVE REJECT"`
	Comments *string        `json:"comments" binding:"omitempty,max=500"`
}

// LeaveFilters contains filter parameters for manager leave queries
type LeaveFilters struct {
	Status     *LeaveStatus
	EmployeeID *int64
}

// LeaveStats is the aggregate view for managers
type LeaveStats struct {
	Total        int64                  `json:"total"`
	ByStatus     map[LeaveStatus]int64  `json:"byStatus"`
	ByType       map[LeaveType]int64    `json:"byType"`
	ApprovedDays int64                  `json:"approvedDays"`
	ByEmployee   map[int64]EmployeeStat `json:"byEmployee"`
}

// EmployeeStat is one employee's row in LeaveStats
type EmployeeStat struct {
	EmployeeID   int64  `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Requests     int64  `json:"requests"`
	Pending      int64  `json:"pending"`
	ApprovedDays int64  `json:"approvedDays"`
}
