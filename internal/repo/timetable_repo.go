package repo

import (
	"context"
	"fmt"

	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/schedule"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const timetableColumns = `id, user_id, subject, day, start_min, end_min, reminder, created_at, updated_at`

// TimetableRepo provides personal timetable persistence. Create and Update
// are conflict-checked: they fail with ErrConflict when the entry would
// overlap another entry of the same user on the same day.
type TimetableRepo interface {
	Create(ctx context.Context, e dom.TimetableEntry) (dom.TimetableEntry, error)
	GetByID(ctx context.Context, userID, id int64) (dom.TimetableEntry, error)
	List(ctx context.Context, userID int64) ([]dom.TimetableEntry, error)
	Update(ctx context.Context, e dom.TimetableEntry) (dom.TimetableEntry, error)
	Delete(ctx context.Context, userID, id int64) error
	FindDue(ctx context.Context, day schedule.Day, minute int) ([]dom.TimetableEntry, error)
}

// PGTimetableRepo implements TimetableRepo with Postgres.
type PGTimetableRepo struct {
	db *pgxpool.Pool
}

// NewPGTimetableRepo returns a new PGTimetableRepo.
func NewPGTimetableRepo(db *pgxpool.Pool) *PGTimetableRepo {
	return &PGTimetableRepo{db: db}
}

// Create inserts a new entry after re-checking conflicts under the user's
// scope lock.
func (r *PGTimetableRepo) Create(ctx context.Context, e dom.TimetableEntry) (dom.TimetableEntry, error) {
	var out dom.TimetableEntry
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := checkUserSlot(ctx, tx, e, 0); err != nil {
			return err
		}
		query := `
			INSERT INTO timetable_entries (user_id, subject, day, start_min, end_min, reminder)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + timetableColumns
		return tx.QueryRow(ctx, query, e.UserID, e.Subject, e.Day, e.StartMin, e.EndMin, e.Reminder).Scan(
			&out.ID, &out.UserID, &out.Subject, &out.Day, &out.StartMin, &out.EndMin, &out.Reminder,
			&out.CreatedAt, &out.UpdatedAt,
		)
	})
	return out, err
}

// Update rewrites the entry after re-checking conflicts against all other
// entries of the same user.
func (r *PGTimetableRepo) Update(ctx context.Context, e dom.TimetableEntry) (dom.TimetableEntry, error) {
	var out dom.TimetableEntry
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := checkUserSlot(ctx, tx, e, e.ID); err != nil {
			return err
		}
		query := `
			UPDATE timetable_entries
			SET subject = $3, day = $4, start_min = $5, end_min = $6, reminder = $7, updated_at = NOW()
			WHERE id = $2 AND user_id = $1
			RETURNING ` + timetableColumns
		return tx.QueryRow(ctx, query, e.UserID, e.ID, e.Subject, e.Day, e.StartMin, e.EndMin, e.Reminder).Scan(
			&out.ID, &out.UserID, &out.Subject, &out.Day, &out.StartMin, &out.EndMin, &out.Reminder,
			&out.CreatedAt, &out.UpdatedAt,
		)
	})
	return out, err
}

// checkUserSlot takes the user's scope lock and runs the conflict check
// against that user's same-day entries.
func checkUserSlot(ctx context.Context, tx pgx.Tx, e dom.TimetableEntry, excludeID int64) error {
	if err := lockScope(ctx, tx, fmt.Sprintf("user:%d", e.UserID)); err != nil {
		return err
	}
	rows, err := tx.Query(ctx,
		`SELECT id, day, start_min, end_min FROM timetable_entries WHERE user_id = $1 AND day = $2`,
		e.UserID, e.Day,
	)
	if err != nil {
		return err
	}
	existing, err := scanSlots(rows)
	if err != nil {
		return err
	}
	if schedule.HasConflict(schedule.Day(e.Day), e.StartMin, e.EndMin, existing, excludeID) {
		return ErrConflict
	}
	return nil
}

func scanSlots(rows pgx.Rows) ([]schedule.Slot, error) {
	defer rows.Close()
	var out []schedule.Slot
	for rows.Next() {
		var s schedule.Slot
		var day string
		if err := rows.Scan(&s.ID, &day, &s.Start, &s.End); err != nil {
			return nil, err
		}
		s.Day = schedule.Day(day)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID returns one entry owned by userID.
func (r *PGTimetableRepo) GetByID(ctx context.Context, userID, id int64) (dom.TimetableEntry, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetable_entries WHERE id = $2 AND user_id = $1`
	var e dom.TimetableEntry
	err := r.db.QueryRow(ctx, query, userID, id).Scan(
		&e.ID, &e.UserID, &e.Subject, &e.Day, &e.StartMin, &e.EndMin, &e.Reminder,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// List returns all entries of userID ordered for display.
func (r *PGTimetableRepo) List(ctx context.Context, userID int64) ([]dom.TimetableEntry, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetable_entries WHERE user_id = $1 ORDER BY day, start_min`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.TimetableEntry
	for rows.Next() {
		var e dom.TimetableEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Subject, &e.Day, &e.StartMin, &e.EndMin, &e.Reminder,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete removes the entry from future conflict checks and reminder scans.
func (r *PGTimetableRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timetable_entries WHERE id = $2 AND user_id = $1`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindDue returns entries starting at exactly (day, minute) with reminders
// enabled. Used by the reminder scanner.
func (r *PGTimetableRepo) FindDue(ctx context.Context, day schedule.Day, minute int) ([]dom.TimetableEntry, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetable_entries WHERE day = $1 AND start_min = $2 AND reminder`
	rows, err := r.db.Query(ctx, query, string(day), minute)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.TimetableEntry
	for rows.Next() {
		var e dom.TimetableEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Subject, &e.Day, &e.StartMin, &e.EndMin, &e.Reminder,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
