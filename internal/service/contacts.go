package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/at14318-design/timetable-backend/internal/reminder"
	"github.com/at14318-design/timetable-backend/internal/repo"

	"github.com/jackc/pgx/v5"
)

// ContactDirectory resolves slot owners to email recipients for the
// reminder scanner.
type ContactDirectory struct {
	users repo.UserRepo
}

// NewContactDirectory returns a new ContactDirectory.
func NewContactDirectory(users repo.UserRepo) *ContactDirectory {
	return &ContactDirectory{users: users}
}

// ContactFor implements reminder.ContactResolver. A missing user or an
// empty email yields reminder.ErrNoContact so the scanner skips the match.
func (d *ContactDirectory) ContactFor(ctx context.Context, userID int64) (reminder.Contact, error) {
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reminder.Contact{}, fmt.Errorf("user %d: %w", userID, reminder.ErrNoContact)
		}
		return reminder.Contact{}, err
	}
	if u.Email == "" {
		return reminder.Contact{}, fmt.Errorf("user %d: %w", userID, reminder.ErrNoContact)
	}
	return reminder.Contact{Email: u.Email, Name: u.Username}, nil
}
