package service

import (
	"context"
	"encoding/csv"
	"testing"
	"time"

	"leave_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture() []model.Leave {
	leave := *pendingLeave(10, 2)
	leave.Days = 3
	leave.Reason = ptr("trip, with family")
	leave.CreatedAt = time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	leave.Employee = &model.EmployeeSummary{ID: 2, Name: "Ann", Email: "ann@example.com", Department: ptr("HR"), Role: model.RoleEmployee}
	return []model.Leave{leave}
}

func TestLeaveService_ExportLeaves_CSV(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLeaveRepo)
	svc := NewLeaveService(repo)

	repo.On("FindAll", ctx, model.LeaveFilters{}).Return(exportFixture(), nil)

	export, err := svc.ExportLeaves(ctx, model.LeaveFilters{}, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", export.ContentType)
	assert.Contains(t, export.FileName, ".csv")

	records, err := csv.NewReader(export.Data).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{
		"10", "2", "Ann", "ann@example.com", "HR", "CASUAL",
		"2025-01-10", "2025-01-12", "3", "PENDING", "", "trip, with family", "", "2025-01-02T09:00:00Z",
	}, records[1])
}

func TestLeaveService_ExportLeaves_CSVNeutralizesFormulas(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLeaveRepo)
	svc := NewLeaveService(repo)

	leaves := exportFixture()
	leaves[0].Reason = ptr("=HYPERLINK(\"http://evil\")")
	leaves[0].Comments = ptr("@SUM(A1)")
	leaves[0].Employee.Name = "-Ann"
	repo.On("FindAll", ctx, model.LeaveFilters{}).Return(leaves, nil)

	export, err := svc.ExportLeaves(ctx, model.LeaveFilters{}, ExportCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(export.Data).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "'-Ann", records[1][2])
	assert.Equal(t, "'=HYPERLINK(\"http://evil\")", records[1][11])
	assert.Equal(t, "'@SUM(A1)", records[1][12])
	assert.Equal(t, "2025-01-10", records[1][6])
}

func TestLeaveService_ExportLeaves_XLSX(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLeaveRepo)
	svc := NewLeaveService(repo)

	repo.On("FindAll", ctx, model.LeaveFilters{}).Return(exportFixture(), nil)

	export, err := svc.ExportLeaves(ctx, model.LeaveFilters{}, ExportXLSX)
	require.NoError(t, err)
	assert.Contains(t, export.FileName, ".xlsx")

	f, err := excelize.OpenReader(export.Data)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Employee", rows[0][2])
	assert.Equal(t, "Ann", rows[1][2])
	assert.Equal(t, "2025-01-12", rows[1][7])
}

func TestLeaveService_ExportLeaves_UnsupportedFormat(t *testing.T) {
	repo := new(mockLeaveRepo)
	svc := NewLeaveService(repo)

	_, err := svc.ExportLeaves(context.Background(), model.LeaveFilters{}, "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	repo.AssertNotCalled(t, "FindAll")
}
