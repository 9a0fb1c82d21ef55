package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/at14318-design/timetable-backend/internal/cache"
	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/repo"
	"github.com/at14318-design/timetable-backend/internal/schedule"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("schedule conflict detected, this time slot overlaps with an existing schedule")
)

// SlotChange carries the optional fields of a partial slot update. Nil
// means keep the current value.
type SlotChange struct {
	Subject   *string
	Day       *string
	StartTime *string
	EndTime   *string
	Reminder  *bool
}

// TimetableService owns personal timetable rules: time parsing, the
// conflict check on every create and update, and list caching.
type TimetableService struct {
	repo  repo.TimetableRepo
	cache *cache.TimetableCache
	sf    singleflight.Group
}

// NewTimetableService creates a TimetableService. If c is nil, caching is disabled.
func NewTimetableService(r repo.TimetableRepo, c *cache.TimetableCache) *TimetableService {
	return &TimetableService{repo: r, cache: c}
}

// Create validates the slot and inserts it; the conflict check runs inside
// the repo's scope-locked transaction.
func (s *TimetableService) Create(ctx context.Context, userID int64, subject, day, startTime, endTime string, reminder bool) (dom.TimetableEntry, error) {
	subject = strings.TrimSpace(subject)
	d, err := schedule.ParseDay(day)
	if err != nil {
		return dom.TimetableEntry{}, err
	}
	iv, err := schedule.NewInterval(startTime, endTime)
	if err != nil {
		return dom.TimetableEntry{}, err
	}
	e, err := s.repo.Create(ctx, dom.TimetableEntry{
		UserID:   userID,
		Subject:  subject,
		Day:      string(d),
		StartMin: iv.Start,
		EndMin:   iv.End,
		Reminder: reminder,
	})
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return dom.TimetableEntry{}, ErrConflict
		}
		return dom.TimetableEntry{}, err
	}
	s.invalidateCache(ctx, userID)
	return e, nil
}

// List returns the user's entries, served from cache when possible.
func (s *TimetableService) List(ctx context.Context, userID int64) ([]dom.TimetableEntry, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.TimetableEntry), nil
	}
	return s.repo.List(ctx, userID)
}

// GetByID returns one entry owned by userID.
func (s *TimetableService) GetByID(ctx context.Context, userID, id int64) (dom.TimetableEntry, error) {
	e, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TimetableEntry{}, ErrNotFound
		}
		return dom.TimetableEntry{}, err
	}
	return e, nil
}

// Update applies a partial change and re-validates the resulting interval
// against all other entries of the user, excluding the entry itself.
func (s *TimetableService) Update(ctx context.Context, userID, id int64, change SlotChange) (dom.TimetableEntry, error) {
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return dom.TimetableEntry{}, err
	}
	patch := existing
	if change.Subject != nil {
		patch.Subject = strings.TrimSpace(*change.Subject)
	}
	if change.Reminder != nil {
		patch.Reminder = *change.Reminder
	}
	if change.Day != nil {
		d, err := schedule.ParseDay(*change.Day)
		if err != nil {
			return dom.TimetableEntry{}, err
		}
		patch.Day = string(d)
	}
	start, end := schedule.FormatMinutes(existing.StartMin), schedule.FormatMinutes(existing.EndMin)
	if change.StartTime != nil {
		start = *change.StartTime
	}
	if change.EndTime != nil {
		end = *change.EndTime
	}
	iv, err := schedule.NewInterval(start, end)
	if err != nil {
		return dom.TimetableEntry{}, err
	}
	patch.StartMin, patch.EndMin = iv.Start, iv.End

	e, err := s.repo.Update(ctx, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return dom.TimetableEntry{}, ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return dom.TimetableEntry{}, ErrNotFound
		}
		return dom.TimetableEntry{}, err
	}
	s.invalidateCache(ctx, userID)
	return e, nil
}

// Delete removes the entry.
func (s *TimetableService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TimetableService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
