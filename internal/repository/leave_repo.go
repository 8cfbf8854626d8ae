package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leave_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

// LeaveRepository defines operations for leave request data.
// State-changing methods only touch PENDING rows and return nil when nothing matched.
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.Leave) error
	FindByID(ctx context.Context, id int64) (*model.Leave, error)
	FindByEmployee(ctx context.Context, employeeID int64) ([]model.Leave, error)
	FindAll(ctx context.Context, filters model.LeaveFilters) ([]model.Leave, error)
	UpdatePending(ctx context.Context, leave *model.Leave) (*model.Leave, error)
	CancelPending(ctx context.Context, id, employeeID int64) (*model.Leave, error)
	DecidePending(ctx context.Context, id int64, status model.LeaveStatus, approverID int64, comments *string) (*model.Leave, error)
	GetStats(ctx context.Context, filters model.LeaveFilters) (*model.LeaveStats, error)
}

type leaveRepository struct {
	db DBTX
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db DBTX) LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `id, employee_id, type, start_date, end_date, reason, status, approver_id, comments, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner, extra ...any) (*model.Leave, error) {
	l := &model.Leave{}
	dest := append([]any{
		&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.Reason,
		&l.Status, &l.ApproverID, &l.Comments, &l.CreatedAt, &l.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	l.Days = l.DurationDays()
	return l, nil
}

// Create inserts a new leave request into the database
func (r *leaveRepository) Create(ctx context.Context, l *model.Leave) error {
	sql := `INSERT INTO leaves (employee_id, type, start_date, end_date, reason, status)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, l.EmployeeID, l.Type, l.StartDate, l.EndDate, l.Reason, l.Status).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create leave: %w", err)
	}
	l.Days = l.DurationDays()
	return nil
}

// FindByID retrieves a leave request by its ID
func (r *leaveRepository) FindByID(ctx context.Context, id int64) (*model.Leave, error) {
	sql := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = $1`
	l, err := scanLeave(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find leave by ID: %w", err)
	}
	return l, nil
}

// FindByEmployee retrieves the leave requests of one employee, newest first
func (r *leaveRepository) FindByEmployee(ctx context.Context, employeeID int64) ([]model.Leave, error) {
	sql := `SELECT ` + leaveColumns + ` FROM leaves WHERE employee_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves by employee: %w", err)
	}
	defer rows.Close()

	leaves := []model.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave row: %w", err)
		}
		leaves = append(leaves, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave rows: %w", err)
	}
	return leaves, nil
}

// whereClause turns the manager filters into a WHERE clause over alias l
func whereClause(filters model.LeaveFilters) (string, []any) {
	var conditions []string
	args := []any{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", argCount))
		args = append(args, *filters.EmployeeID)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FindAll retrieves leave requests with the owner expanded, for managers
func (r *leaveRepository) FindAll(ctx context.Context, filters model.LeaveFilters) ([]model.Leave, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT l.id, l.employee_id, l.type, l.start_date, l.end_date, l.reason, l.status, l.approver_id, l.comments, l.created_at, l.updated_at,
                               u.id, u.name, u.email, u.department, u.role
                               FROM leaves l JOIN users u ON u.id = l.employee_id`)
	where, args := whereClause(filters)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY l.created_at DESC, l.id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query all leaves: %w", err)
	}
	defer rows.Close()

	leaves := []model.Leave{}
	for rows.Next() {
		emp := &model.EmployeeSummary{}
		l, err := scanLeave(rows, &emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave row for manager: %w", err)
		}
		l.Employee = emp
		leaves = append(leaves, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating manager leave rows: %w", err)
	}
	return leaves, nil
}

// transition runs a conditional UPDATE ... RETURNING and yields nil when no row qualified
func (r *leaveRepository) transition(ctx context.Context, sql string, args ...any) (*model.Leave, error) {
	l, err := scanLeave(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// UpdatePending rewrites the editable fields of a pending request owned by leave.EmployeeID
func (r *leaveRepository) UpdatePending(ctx context.Context, l *model.Leave) (*model.Leave, error) {
	sql := `UPDATE leaves
            SET type = $1, start_date = $2, end_date = $3, reason = $4, updated_at = NOW()
            WHERE id = $5 AND employee_id = $6 AND status = $7
            RETURNING ` + leaveColumns
	updated, err := r.transition(ctx, sql, l.Type, l.StartDate, l.EndDate, l.Reason, l.ID, l.EmployeeID, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to update leave: %w", err)
	}
	return updated, nil
}

// CancelPending moves a pending request owned by employeeID to CANCELLED
func (r *leaveRepository) CancelPending(ctx context.Context, id, employeeID int64) (*model.Leave, error) {
	sql := `UPDATE leaves
            SET status = $1, updated_at = NOW()
            WHERE id = $2 AND employee_id = $3 AND status = $4
            RETURNING ` + leaveColumns
	cancelled, err := r.transition(ctx, sql, model.StatusCancelled, id, employeeID, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel leave: %w", err)
	}
	return cancelled, nil
}

// DecidePending resolves a pending request and stamps the approver
func (r *leaveRepository) DecidePending(ctx context.Context, id int64, status model.LeaveStatus, approverID int64, comments *string) (*model.Leave, error) {
	sql := `UPDATE leaves
            SET status = $1, approver_id = $2, comments = $3, updated_at = NOW()
            WHERE id = $4 AND status = $5
            RETURNING ` + leaveColumns
	decided, err := r.transition(ctx, sql, status, approverID, comments, id, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	return decided, nil
}

// GetStats aggregates counts per status and type, and per employee
func (r *leaveRepository) GetStats(ctx context.Context, filters model.LeaveFilters) (*model.LeaveStats, error) {
	stats := &model.LeaveStats{
		ByStatus:   make(map[model.LeaveStatus]int64),
		ByType:     make(map[model.LeaveType]int64),
		ByEmployee: make(map[int64]model.EmployeeStat),
	}
	where, args := whereClause(filters)

	breakdownQuery := fmt.Sprintf(`
        SELECT l.status, l.type, COUNT(*), COALESCE(SUM(l.end_date - l.start_date + 1), 0)
        FROM leaves l %s GROUP BY l.status, l.type`, where)

	rows, err := r.db.Query(ctx, breakdownQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave breakdown: %w", err)
	}
	for rows.Next() {
		var status model.LeaveStatus
		var leaveType model.LeaveType
		var count, days int64
		if err := rows.Scan(&status, &leaveType, &count, &days); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan leave breakdown: %w", err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByType[leaveType] += count
		if status == model.StatusApproved {
			stats.ApprovedDays += days
		}
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave breakdown: %w", err)
	}

	employeeQuery := fmt.Sprintf(`
        SELECT
            l.employee_id,
            u.name,
            COUNT(*) AS requests,
            COUNT(*) FILTER (WHERE l.status = 'PENDING') AS pending,
            COALESCE(SUM(l.end_date - l.start_date + 1) FILTER (WHERE l.status = 'APPROVED'), 0) AS approved_days
        FROM leaves l JOIN users u ON u.id = l.employee_id %s
        GROUP BY l.employee_id, u.name`, where)

	rows, err = r.db.Query(ctx, employeeQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats by employee: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var es model.EmployeeStat
		if err := rows.Scan(&es.EmployeeID, &es.EmployeeName, &es.Requests, &es.Pending, &es.ApprovedDays); err != nil {
			return nil, fmt.Errorf("failed to scan employee stats: %w", err)
		}
		stats.ByEmployee[es.EmployeeID] = es
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee stats: %w", err)
	}

	return stats, nil
}
