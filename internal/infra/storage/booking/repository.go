package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/dbmetrics"
	"github.com/coachhq/booking-service/pkg/psqlbuilder"
)

// exclusionViolationCode is the SQLSTATE postgres reports when the
// per-coach overlap EXCLUDE constraint rejects an insert.
const exclusionViolationCode = "23P01"

var bookingColumns = []string{
	"id",
	"coach_id",
	"student_id",
	"service_id",
	"kind",
	"booking_date",
	"start_time",
	"duration_minutes",
	"price",
	"status",
	"service_name",
	"notes",
	"cancelled_by",
	"cancellation_reason",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository is the booking ledger's storage layer. All lifecycle writes
// go through it; bookings are never physically deleted except by Delete,
// which exists solely for the commit-rollback compensation path.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a booking repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new booking. When the context carries an active
// transaction (the serializable check-then-insert of the create use
// case), the insert runs inside it. The table-level EXCLUDE constraint
// is the storage backstop for the overlap invariant: a violation maps to
// ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"coach_id",
			"student_id",
			"service_id",
			"kind",
			"booking_date",
			"start_time",
			"duration_minutes",
			"price",
			"status",
			"service_name",
			"notes",
		).
		Values(
			b.CoachID,
			b.StudentID,
			b.ServiceID,
			b.Kind,
			b.BookingDate,
			b.StartTime,
			b.DurationMinutes,
			b.Price,
			b.Status,
			b.ServiceName,
			b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID fetches one booking.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListWithFilter fetches bookings matching the filter.
//
// Inside a transaction with a single-date coach filter the rows are
// locked FOR UPDATE: that is the check-then-insert read of the create
// use case, and the lock serializes it against concurrent creators for
// the same coach. Two different coaches' creates never contend.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if filter.CoachID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"coach_id": *filter.CoachID})
	}
	if filter.StudentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"student_id": *filter.StudentID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}

	switch {
	case len(filter.StatusIn) > 0:
		statuses := make([]string, len(filter.StatusIn))
		for i, s := range filter.StatusIn {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	case filter.OnlyActive:
		active := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			active[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": active})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.CoachID != nil && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus moves a booking to a new status. Legality of the move is
// the transition use case's responsibility; the repository only writes.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, "UpdateStatus", query, args)
}

// Cancel moves a booking to cancelled, recording who cancelled it and
// why. Actor and reason are mandatory for dispute handling.
func (r *Repository) Cancel(ctx context.Context, id int64, actor domain.CancellationActor, reason string) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingStatusCancelled).
		Set("cancelled_by", actor).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, "Cancel", query, args)
}

// Complete moves a booking to completed and stamps the completion time.
func (r *Repository) Complete(ctx context.Context, id int64, completedAt time.Time) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingStatusCompleted).
		Set("completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, "Complete", query, args)
}

// Delete physically removes a booking row. Lifecycle operations never
// delete; the only caller is the wizard commit's payment-failure
// rollback, which must leave no row behind.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, "Delete", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var (
		b                    domain.Booking
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.CoachID,
		&b.StudentID,
		&b.ServiceID,
		&b.Kind,
		&b.BookingDate,
		&b.StartTime,
		&b.DurationMinutes,
		&b.Price,
		&b.Status,
		&b.ServiceName,
		&b.Notes,
		&b.CancelledBy,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.CompletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var (
			b                    domain.Booking
			createdAt, updatedAt sql.NullTime
		)

		err := rows.Scan(
			&b.ID,
			&b.CoachID,
			&b.StudentID,
			&b.ServiceID,
			&b.Kind,
			&b.BookingDate,
			&b.StartTime,
			&b.DurationMinutes,
			&b.Price,
			&b.Status,
			&b.ServiceName,
			&b.Notes,
			&b.CancelledBy,
			&b.CancellationReason,
			&b.CancelledAt,
			&b.CompletedAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == exclusionViolationCode
	}
	return false
}
