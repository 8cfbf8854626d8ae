package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leave_portal/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the file type produced by ExportLeaves
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format, use csv or xlsx")

const exportSheet = "Leaves"

// Export is a rendered file ready to be sent as an attachment
type Export struct {
	FileName    string
	ContentType string
	Data        *bytes.Buffer
}

var exportHeader = []string{
	"ID", "EmployeeID", "Employee", "Email", "Department", "Type",
	"StartDate", "EndDate", "Days", "Status", "ApproverID", "Reason", "Comments", "CreatedAt",
}

func exportRow(l model.Leave) []string {
	var name, email, dept, reason, comments, approver string
	if l.Employee != nil {
		name = l.Employee.Name
		email = l.Employee.Email
		if l.Employee.Department != nil {
			dept = *l.Employee.Department
		}
	}
	if l.Reason != nil {
		reason = *l.Reason
	}
	if l.Comments != nil {
		comments = *l.Comments
	}
	if l.ApproverID != nil {
		approver = strconv.FormatInt(*l.ApproverID, 10)
	}
	return []string{
		strconv.FormatInt(l.ID, 10),
		strconv.FormatInt(l.EmployeeID, 10),
		name,
		email,
		dept,
		string(l.Type),
		l.StartDate.Format(model.DateLayout),
		l.EndDate.Format(model.DateLayout),
		strconv.Itoa(l.Days),
		string(l.Status),
		approver,
		reason,
		comments,
		l.CreatedAt.Format(time.RFC3339),
	}
}

// csvCell stops spreadsheet apps from evaluating free text as a formula
func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func (s *leaveService) ExportLeaves(ctx context.Context, filters model.LeaveFilters, format ExportFormat) (*Export, error) {
	if format != ExportCSV && format != ExportXLSX {
		return nil, ErrUnsupportedFormat
	}

	leaves, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaves for export: %w", err)
	}

	fileName := fmt.Sprintf("leaves_export_%s.%s", time.Now().Format("20060102_150405"), format)
	if format == ExportXLSX {
		buf, err := renderXLSX(leaves)
		if err != nil {
			return nil, err
		}
		return &Export{
			FileName:    fileName,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf,
		}, nil
	}

	buf, err := renderCSV(leaves)
	if err != nil {
		return nil, err
	}
	return &Export{FileName: fileName, ContentType: "text/csv", Data: buf}, nil
}

func renderCSV(leaves []model.Leave) (*bytes.Buffer, error) {
	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, l := range leaves {
		row := exportRow(l)
		for i := range row {
			row[i] = csvCell(row[i])
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buffer, nil
}

func renderXLSX(leaves []model.Leave) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := make([][]string, 0, len(leaves)+1)
	rows = append(rows, exportHeader)
	for _, l := range leaves {
		rows = append(rows, exportRow(l))
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf, nil
}
