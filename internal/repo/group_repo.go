package repo

import (
	"context"

	dom "github.com/at14318-design/timetable-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupRepo provides group and membership persistence.
type GroupRepo interface {
	Create(ctx context.Context, g dom.Group) (dom.Group, error)
	GetByID(ctx context.Context, id int64) (dom.Group, error)
	ListForUser(ctx context.Context, userID int64) ([]dom.Group, error)
	Update(ctx context.Context, g dom.Group) (dom.Group, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
}

// PGGroupRepo implements GroupRepo with Postgres.
type PGGroupRepo struct {
	db *pgxpool.Pool
}

// NewPGGroupRepo returns a new PGGroupRepo.
func NewPGGroupRepo(db *pgxpool.Pool) *PGGroupRepo {
	return &PGGroupRepo{db: db}
}

const groupSelect = `
	SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at,
	       COALESCE(array_agg(m.user_id ORDER BY m.user_id) FILTER (WHERE m.user_id IS NOT NULL), '{}')
	FROM groups g
	LEFT JOIN group_members m ON m.group_id = g.id`

// Create inserts the group and registers the creator as its first member.
func (r *PGGroupRepo) Create(ctx context.Context, g dom.Group) (dom.Group, error) {
	var out dom.Group
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO groups (name, description, created_by)
			VALUES ($1, $2, $3)
			RETURNING id, name, description, created_by, created_at, updated_at`,
			g.Name, g.Description, g.CreatedBy,
		).Scan(&out.ID, &out.Name, &out.Description, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, out.ID, g.CreatedBy)
		return err
	})
	if err != nil {
		return dom.Group{}, err
	}
	out.MemberIDs = []int64{out.CreatedBy}
	return out, nil
}

// GetByID returns the group with its member IDs.
func (r *PGGroupRepo) GetByID(ctx context.Context, id int64) (dom.Group, error) {
	var g dom.Group
	err := r.db.QueryRow(ctx, groupSelect+` WHERE g.id = $1 GROUP BY g.id`, id).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt, &g.MemberIDs,
	)
	return g, err
}

// ListForUser returns groups the user created or belongs to.
func (r *PGGroupRepo) ListForUser(ctx context.Context, userID int64) ([]dom.Group, error) {
	query := groupSelect + `
	WHERE g.created_by = $1
	   OR EXISTS (SELECT 1 FROM group_members gm WHERE gm.group_id = g.id AND gm.user_id = $1)
	GROUP BY g.id
	ORDER BY g.created_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Group
	for rows.Next() {
		var g dom.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt, &g.MemberIDs); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Update rewrites name and description.
func (r *PGGroupRepo) Update(ctx context.Context, g dom.Group) (dom.Group, error) {
	_, err := r.db.Exec(ctx, `
		UPDATE groups SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`,
		g.ID, g.Name, g.Description,
	)
	if err != nil {
		return dom.Group{}, err
	}
	return r.GetByID(ctx, g.ID)
}

// Delete removes the group; members and schedules go with it (FK cascade).
func (r *PGGroupRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddMember inserts a membership row; duplicate pairs surface the unique
// violation for the caller to translate.
func (r *PGGroupRepo) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, groupID, userID)
	return err
}

// RemoveMember deletes a membership row. Removing a non-member is a no-op.
func (r *PGGroupRepo) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	return err
}
