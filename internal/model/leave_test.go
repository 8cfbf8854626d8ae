package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, 3, DaysBetween(d(2025, 1, 10), d(2025, 1, 12)))
	assert.Equal(t, 1, DaysBetween(d(2025, 1, 10), d(2025, 1, 10)))
	assert.Equal(t, 2, DaysBetween(d(2024, 2, 28), d(2024, 2, 29)))
	assert.Equal(t, 2, DaysBetween(d(2024, 12, 31), d(2025, 1, 1)))

	// Time of day does not matter
	late := time.Date(2025, 1, 12, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(d(2025, 1, 10), late))

	leave := Leave{StartDate: d(2025, 3, 1), EndDate: d(2025, 3, 7)}
	assert.Equal(t, 7, leave.DurationDays())
}

func TestEnums(t *testing.T) {
	for _, lt := range LeaveTypes {
		assert.True(t, lt.Valid(), lt)
	}
	assert.False(t, LeaveType("HOLIDAY").Valid())

	for _, s := range LeaveStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, LeaveStatus("pending").Valid())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusCancelled.Terminal())

	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("CEO").Valid())
	assert.False(t, RoleEmployee.CanDecide())
	assert.True(t, RoleManager.CanDecide())
	assert.True(t, RoleAdmin.CanDecide())
}

func TestDecisionAction_Status(t *testing.T) {
	s, ok := ActionApprove.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, s)

	s, ok = ActionReject.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusRejected, s)

	_, ok = DecisionAction("MAYBE").Status()
	assert.False(t, ok)
}
