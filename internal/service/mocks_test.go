package service

import (
	"context"

	"leave_portal/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type mockLeaveRepo struct {
	mock.Mock
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *model.Leave) error {
	args := m.Called(ctx, leave)
	if args.Error(0) == nil {
		leave.ID = 100
		leave.Days = leave.DurationDays()
	}
	return args.Error(0)
}

func (m *mockLeaveRepo) FindByID(ctx context.Context, id int64) (*model.Leave, error) {
	args := m.Called(ctx, id)
	leave, _ := args.Get(0).(*model.Leave)
	return leave, args.Error(1)
}

func (m *mockLeaveRepo) FindByEmployee(ctx context.Context, employeeID int64) ([]model.Leave, error) {
	args := m.Called(ctx, employeeID)
	leaves, _ := args.Get(0).([]model.Leave)
	return leaves, args.Error(1)
}

func (m *mockLeaveRepo) FindAll(ctx context.Context, filters model.LeaveFilters) ([]model.Leave, error) {
	args := m.Called(ctx, filters)
	leaves, _ := args.Get(0).([]model.Leave)
	return leaves, args.Error(1)
}

func (m *mockLeaveRepo) UpdatePending(ctx context.Context, leave *model.Leave) (*model.Leave, error) {
	args := m.Called(ctx, leave)
	updated, _ := args.Get(0).(*model.Leave)
	return updated, args.Error(1)
}

func (m *mockLeaveRepo) CancelPending(ctx context.Context, id, employeeID int64) (*model.Leave, error) {
	args := m.Called(ctx, id, employeeID)
	cancelled, _ := args.Get(0).(*model.Leave)
	return cancelled, args.Error(1)
}

func (m *mockLeaveRepo) DecidePending(ctx context.Context, id int64, status model.LeaveStatus, approverID int64, comments *string) (*model.Leave, error) {
	args := m.Called(ctx, id, status, approverID, comments)
	decided, _ := args.Get(0).(*model.Leave)
	return decided, args.Error(1)
}

func (m *mockLeaveRepo) GetStats(ctx context.Context, filters model.LeaveFilters) (*model.LeaveStats, error) {
	args := m.Called(ctx, filters)
	stats, _ := args.Get(0).(*model.LeaveStats)
	return stats, args.Error(1)
}
