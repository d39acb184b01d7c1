package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/dbmetrics"
	"github.com/coachhq/booking-service/pkg/psqlbuilder"
)

// DBExecutor is re-exported from dbmetrics for wiring convenience.
type DBExecutor = dbmetrics.DBExecutor

// Repository stores coaches' recurring availability rules and one-off
// blackouts.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an availability repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateRule inserts a new recurring weekly window.
func (r *Repository) CreateRule(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_rules").
		Columns("coach_id", "weekday", "start_time", "end_time", "active").
		Values(rule.CoachID, int(rule.Weekday), rule.StartTime, rule.EndTime, rule.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// ListRulesByCoach fetches all of a coach's rules, active and inactive,
// ordered for display.
func (r *Repository) ListRulesByCoach(ctx context.Context, coachID int64) ([]*domain.AvailabilityRule, error) {
	return r.listRules(ctx, squirrel.Eq{"coach_id": coachID})
}

// ListActiveRules fetches the active rules of a coach for one weekday.
// This is the slot generator's read path.
func (r *Repository) ListActiveRules(ctx context.Context, coachID int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error) {
	return r.listRules(ctx, squirrel.Eq{
		"coach_id": coachID,
		"weekday":  int(weekday),
		"active":   true,
	})
}

// DeactivateRule soft-deactivates a rule. Rules are never hard-deleted
// while historical bookings reference slots derived from them.
func (r *Repository) DeactivateRule(ctx context.Context, ruleID, coachID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_rules").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ruleID, "coach_id": coachID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeactivateRule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeactivateRule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeactivateRule - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// CreateBlackout inserts a one-off exclusion.
func (r *Repository) CreateBlackout(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackouts").
		Columns("coach_id", "date", "start_time", "end_time", "reason").
		Values(blackout.CoachID, blackout.Date, blackout.StartTime, blackout.EndTime, blackout.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blackout.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - execute insert: %v", ErrExecQuery, err)
	}

	blackout.CreatedAt = createdAt.Time

	return blackout, nil
}

// ListBlackouts fetches a coach's blackouts for one date.
func (r *Repository) ListBlackouts(ctx context.Context, coachID int64, date time.Time) ([]*domain.Blackout, error) {
	return r.listBlackouts(ctx, squirrel.Eq{"coach_id": coachID, "date": date})
}

// ListBlackoutsByCoach fetches all upcoming blackouts of a coach.
func (r *Repository) ListBlackoutsByCoach(ctx context.Context, coachID int64, from time.Time) ([]*domain.Blackout, error) {
	return r.listBlackouts(ctx, squirrel.And{
		squirrel.Eq{"coach_id": coachID},
		squirrel.GtOrEq{"date": from},
	})
}

func (r *Repository) listRules(ctx context.Context, pred interface{}) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"coach_id",
		"weekday",
		"start_time",
		"end_time",
		"active",
		"created_at",
		"updated_at",
	).
		From("availability_rules").
		Where(pred).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		var (
			rule                 domain.AvailabilityRule
			weekday              int
			createdAt, updatedAt sql.NullTime
		)

		err := rows.Scan(
			&rule.ID,
			&rule.CoachID,
			&weekday,
			&rule.StartTime,
			&rule.EndTime,
			&rule.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: listRules - scan row: %v", ErrScanRow, err)
		}

		rule.Weekday = time.Weekday(weekday)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

func (r *Repository) listBlackouts(ctx context.Context, pred interface{}) ([]*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"coach_id",
		"date",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From("blackouts").
		Where(pred).
		OrderBy("date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listBlackouts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]*domain.Blackout, 0)
	for rows.Next() {
		var (
			blackout  domain.Blackout
			createdAt sql.NullTime
		)

		err := rows.Scan(
			&blackout.ID,
			&blackout.CoachID,
			&blackout.Date,
			&blackout.StartTime,
			&blackout.EndTime,
			&blackout.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: listBlackouts - scan row: %v", ErrScanRow, err)
		}

		blackout.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listBlackouts - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}
