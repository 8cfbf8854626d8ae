package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database

	"leave_portal/internal/model"
	"leave_portal/internal/repository"
)

var (
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrLeaveNotPending     = errors.New("only pending requests can be changed")
	ErrForbidden           = errors.New("forbidden: user does not have permission for this action")
	ErrInvalidDate         = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidDateRange    = errors.New("start date must not be after end date")
	ErrInvalidLeaveType    = errors.New("invalid leave type")
	ErrInvalidAction       = errors.New("action must be APPROVE or REJECT")
	ErrInvalidStatusChange = errors.New("status can only be changed to CANCELLED")
	ErrInvalidTimezone     = errors.New("invalid timezone, use an IANA name such as Asia/Kolkata")
)

// LeaveService defines operations for leave requests
type LeaveService interface {
	CreateLeave(ctx context.Context, employeeID int64, req model.CreateLeaveRequest) (*model.Leave, error)
	GetMyLeaves(ctx context.Context, employeeID int64) ([]model.Leave, error)
	GetLeave(ctx context.Context, leaveID, callerID int64, callerRole model.Role) (*model.Leave, error)
	UpdateLeave(ctx context.Context, leaveID, employeeID int64, req model.UpdateLeaveRequest) (*model.Leave, error)
	CancelLeave(ctx context.Context, leaveID, employeeID int64) (*model.Leave, error)

	// Manager/admin methods
	GetAllLeaves(ctx context.Context, filters model.LeaveFilters) ([]model.Leave, error)
	DecideLeave(ctx context.Context, leaveID, approverID int64, approverRole model.Role, req model.DecisionRequest) (*model.Leave, error)
	GetStatistics(ctx context.Context, filters model.LeaveFilters) (*model.LeaveStats, error)
	ExportLeaves(ctx context.Context, filters model.LeaveFilters, format ExportFormat) (*Export, error)
}

type leaveService struct {
	repo repository.LeaveRepository
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(repo repository.LeaveRepository) LeaveService {
	return &leaveService{repo: repo}
}

// ParseLeaveDate accepts a calendar date or an RFC 3339 timestamp. A timestamp
// is an instant: with loc set it is moved into loc before the date is taken,
// otherwise the date is read in the offset it was written with.
func ParseLeaveDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		if loc != nil {
			t = t.In(loc)
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// requestLocation resolves the client's timezone; empty means none was sent
func requestLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

func (s *leaveService) CreateLeave(ctx context.Context, employeeID int64, req model.CreateLeaveRequest) (*model.Leave, error) {
	loc, err := requestLocation(req.Timezone)
	if err != nil {
		return nil, err
	}
	start, err := ParseLeaveDate(req.StartDate, loc)
	if err != nil {
		return nil, err
	}
	end, err := ParseLeaveDate(req.EndDate, loc)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	leaveType := req.Type
	if leaveType == "" {
		leaveType = model.LeaveTypeCasual
	}
	if !leaveType.Valid() {
		return nil, ErrInvalidLeaveType
	}

	leave := &model.Leave{
		EmployeeID: employeeID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     model.StatusPending,
	}

	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, fmt.Errorf("failed to create leave in repo: %w", err)
	}
	return leave, nil
}

func (s *leaveService) GetMyLeaves(ctx context.Context, employeeID int64) ([]model.Leave, error) {
	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee leaves from repo: %w", err)
	}
	return leaves, nil
}

// GetLeave returns a request to its owner or to a manager/admin. Anyone else
// gets ErrLeaveNotFound so ids of other employees' requests are not disclosed.
func (s *leaveService) GetLeave(ctx context.Context, leaveID, callerID int64, callerRole model.Role) (*model.Leave, error) {
	leave, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave by ID: %w", err)
	}
	if leave == nil || (leave.EmployeeID != callerID && !callerRole.CanDecide()) {
		return nil, ErrLeaveNotFound
	}
	return leave, nil
}

// findOwnedPending loads a request for an owner-only mutation
func (s *leaveService) findOwnedPending(ctx context.Context, leaveID, employeeID int64) (*model.Leave, error) {
	leave, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave: %w", err)
	}
	if leave == nil || leave.EmployeeID != employeeID {
		return nil, ErrLeaveNotFound
	}
	if leave.Status.Terminal() {
		return nil, ErrLeaveNotPending
	}
	return leave, nil
}

func (s *leaveService) UpdateLeave(ctx context.Context, leaveID, employeeID int64, req model.UpdateLeaveRequest) (*model.Leave, error) {
	existing, err := s.findOwnedPending(ctx, leaveID, employeeID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != model.StatusPending {
		if *req.Status != model.StatusCancelled {
			return nil, ErrInvalidStatusChange
		}
		return s.cancel(ctx, leaveID, employeeID)
	}

	loc, err := requestLocation(req.Timezone)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, ErrInvalidLeaveType
		}
		existing.Type = *req.Type
	}
	if req.StartDate != nil {
		start, err := ParseLeaveDate(*req.StartDate, loc)
		if err != nil {
			return nil, err
		}
		existing.StartDate = start
	}
	if req.EndDate != nil {
		end, err := ParseLeaveDate(*req.EndDate, loc)
		if err != nil {
			return nil, err
		}
		existing.EndDate = end
	}
	if existing.EndDate.Before(existing.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.Reason != nil {
		existing.Reason = req.Reason
	}

	updated, err := s.repo.UpdatePending(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update leave in repo: %w", err)
	}
	if updated == nil {
		// Decided or cancelled between the read and the write
		return nil, ErrLeaveNotPending
	}
	return updated, nil
}

func (s *leaveService) CancelLeave(ctx context.Context, leaveID, employeeID int64) (*model.Leave, error) {
	if _, err := s.findOwnedPending(ctx, leaveID, employeeID); err != nil {
		return nil, err
	}
	return s.cancel(ctx, leaveID, employeeID)
}

func (s *leaveService) cancel(ctx context.Context, leaveID, employeeID int64) (*model.Leave, error) {
	cancelled, err := s.repo.CancelPending(ctx, leaveID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel leave in repo: %w", err)
	}
	if cancelled == nil {
		return nil, ErrLeaveNotPending
	}
	return cancelled, nil
}

// --- Manager/admin methods ---

func (s *leaveService) GetAllLeaves(ctx context.Context, filters model.LeaveFilters) ([]model.Leave, error) {
	leaves, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get all leaves: %w", err)
	}
	return leaves, nil
}

// DecideLeave approves or rejects a pending request. The repository update is
// conditional on PENDING, so of two concurrent decisions only one succeeds.
func (s *leaveService) DecideLeave(ctx context.Context, leaveID, approverID int64, approverRole model.Role, req model.DecisionRequest) (*model.Leave, error) {
	if !approverRole.CanDecide() {
		return nil, ErrForbidden
	}
	status, ok := req.Action.Status()
	if !ok {
		return nil, ErrInvalidAction
	}

	decided, err := s.repo.DecidePending(ctx, leaveID, status, approverID, req.Comments)
	if err != nil {
		return nil, fmt.Errorf("failed to decide leave in repo: %w", err)
	}
	if decided != nil {
		return decided, nil
	}

	existing, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave after decision miss: %w", err)
	}
	if existing == nil {
		return nil, ErrLeaveNotFound
	}
	return nil, ErrLeaveNotPending
}

func (s *leaveService) GetStatistics(ctx context.Context, filters model.LeaveFilters) (*model.LeaveStats, error) {
	stats, err := s.repo.GetStats(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave statistics: %w", err)
	}
	// Dashboards expect every bucket, including empty ones
	if stats.ByStatus == nil {
		stats.ByStatus = make(map[model.LeaveStatus]int64, len(model.LeaveStatuses))
	}
	if stats.ByType == nil {
		stats.ByType = make(map[model.LeaveType]int64, len(model.LeaveTypes))
	}
	for _, st := range model.LeaveStatuses {
		stats.ByStatus[st] += 0
	}
	for _, lt := range model.LeaveTypes {
		stats.ByType[lt] += 0
	}
	return stats, nil
}
