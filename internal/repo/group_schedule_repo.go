package repo

import (
	"context"
	"fmt"

	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/schedule"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const groupScheduleColumns = `id, group_id, title, description, day, start_min, end_min, created_by, created_at, updated_at`

// GroupScheduleRepo provides group schedule persistence. Create and Update
// are conflict-checked within the group scope, like TimetableRepo within
// the user scope.
type GroupScheduleRepo interface {
	Create(ctx context.Context, s dom.GroupSchedule) (dom.GroupSchedule, error)
	GetByID(ctx context.Context, id int64) (dom.GroupSchedule, error)
	ListByGroup(ctx context.Context, groupID int64) ([]dom.GroupSchedule, error)
	Update(ctx context.Context, s dom.GroupSchedule) (dom.GroupSchedule, error)
	Delete(ctx context.Context, id int64) error
}

// PGGroupScheduleRepo implements GroupScheduleRepo with Postgres.
type PGGroupScheduleRepo struct {
	db *pgxpool.Pool
}

// NewPGGroupScheduleRepo returns a new PGGroupScheduleRepo.
func NewPGGroupScheduleRepo(db *pgxpool.Pool) *PGGroupScheduleRepo {
	return &PGGroupScheduleRepo{db: db}
}

// Create inserts a schedule after re-checking conflicts under the group's
// scope lock.
func (r *PGGroupScheduleRepo) Create(ctx context.Context, s dom.GroupSchedule) (dom.GroupSchedule, error) {
	var out dom.GroupSchedule
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := checkGroupSlot(ctx, tx, s, 0); err != nil {
			return err
		}
		query := `
			INSERT INTO group_schedules (group_id, title, description, day, start_min, end_min, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + groupScheduleColumns
		return tx.QueryRow(ctx, query, s.GroupID, s.Title, s.Description, s.Day, s.StartMin, s.EndMin, s.CreatedBy).Scan(
			&out.ID, &out.GroupID, &out.Title, &out.Description, &out.Day, &out.StartMin, &out.EndMin,
			&out.CreatedBy, &out.CreatedAt, &out.UpdatedAt,
		)
	})
	return out, err
}

// Update rewrites the schedule after re-checking conflicts against all
// other schedules of the same group.
func (r *PGGroupScheduleRepo) Update(ctx context.Context, s dom.GroupSchedule) (dom.GroupSchedule, error) {
	var out dom.GroupSchedule
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := checkGroupSlot(ctx, tx, s, s.ID); err != nil {
			return err
		}
		query := `
			UPDATE group_schedules
			SET title = $2, description = $3, day = $4, start_min = $5, end_min = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + groupScheduleColumns
		return tx.QueryRow(ctx, query, s.ID, s.Title, s.Description, s.Day, s.StartMin, s.EndMin).Scan(
			&out.ID, &out.GroupID, &out.Title, &out.Description, &out.Day, &out.StartMin, &out.EndMin,
			&out.CreatedBy, &out.CreatedAt, &out.UpdatedAt,
		)
	})
	return out, err
}

func checkGroupSlot(ctx context.Context, tx pgx.Tx, s dom.GroupSchedule, excludeID int64) error {
	if err := lockScope(ctx, tx, fmt.Sprintf("group:%d", s.GroupID)); err != nil {
		return err
	}
	rows, err := tx.Query(ctx,
		`SELECT id, day, start_min, end_min FROM group_schedules WHERE group_id = $1 AND day = $2`,
		s.GroupID, s.Day,
	)
	if err != nil {
		return err
	}
	existing, err := scanSlots(rows)
	if err != nil {
		return err
	}
	if schedule.HasConflict(schedule.Day(s.Day), s.StartMin, s.EndMin, existing, excludeID) {
		return ErrConflict
	}
	return nil
}

// GetByID returns one schedule.
func (r *PGGroupScheduleRepo) GetByID(ctx context.Context, id int64) (dom.GroupSchedule, error) {
	query := `SELECT ` + groupScheduleColumns + ` FROM group_schedules WHERE id = $1`
	var s dom.GroupSchedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.GroupID, &s.Title, &s.Description, &s.Day, &s.StartMin, &s.EndMin,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// ListByGroup returns all schedules of a group ordered for display.
func (r *PGGroupScheduleRepo) ListByGroup(ctx context.Context, groupID int64) ([]dom.GroupSchedule, error) {
	query := `SELECT ` + groupScheduleColumns + ` FROM group_schedules WHERE group_id = $1 ORDER BY day, start_min`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.GroupSchedule
	for rows.Next() {
		var s dom.GroupSchedule
		if err := rows.Scan(&s.ID, &s.GroupID, &s.Title, &s.Description, &s.Day, &s.StartMin, &s.EndMin,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete removes the schedule.
func (r *PGGroupScheduleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM group_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
