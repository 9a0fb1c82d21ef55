package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/repo"
	"github.com/at14318-design/timetable-backend/internal/schedule"
	"github.com/at14318-design/timetable-backend/internal/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrForbidden     = errors.New("access denied")
	ErrAlreadyMember = errors.New("user is already a member")
)

// GroupService owns group membership rules and group schedule slots.
// Only the creator mutates a group or its schedules; any member reads them
// and adds schedules.
type GroupService struct {
	groups    repo.GroupRepo
	schedules repo.GroupScheduleRepo
	users     repo.UserRepo
}

// NewGroupService returns a new GroupService.
func NewGroupService(groups repo.GroupRepo, schedules repo.GroupScheduleRepo, users repo.UserRepo) *GroupService {
	return &GroupService{groups: groups, schedules: schedules, users: users}
}

// CreateGroup creates a group with the creator as first member.
func (s *GroupService) CreateGroup(ctx context.Context, userID int64, name, description string) (dom.Group, error) {
	return s.groups.Create(ctx, dom.Group{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedBy:   userID,
	})
}

// ListGroups returns the groups userID created or belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID int64) ([]dom.Group, error) {
	return s.groups.ListForUser(ctx, userID)
}

// GetGroup returns the group if userID is a member or the creator.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID int64) (dom.Group, error) {
	g, err := s.memberGroup(ctx, userID, groupID)
	if err != nil {
		return dom.Group{}, err
	}
	return g, nil
}

// UpdateGroup lets the creator rename or re-describe the group.
func (s *GroupService) UpdateGroup(ctx context.Context, userID, groupID int64, name, description *string) (dom.Group, error) {
	g, err := s.creatorGroup(ctx, userID, groupID)
	if err != nil {
		return dom.Group{}, err
	}
	if name != nil {
		g.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		g.Description = strings.TrimSpace(*description)
	}
	return s.groups.Update(ctx, g)
}

// DeleteGroup lets the creator delete the group.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID int64) error {
	if _, err := s.creatorGroup(ctx, userID, groupID); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// AddMember lets the creator add a user by email.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID int64, email string) (dom.Group, error) {
	if _, err := s.creatorGroup(ctx, userID, groupID); err != nil {
		return dom.Group{}, err
	}
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Group{}, ErrNotFound
		}
		return dom.Group{}, err
	}
	if err := s.groups.AddMember(ctx, groupID, u.ID); err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.Group{}, ErrAlreadyMember
		}
		return dom.Group{}, err
	}
	return s.groups.GetByID(ctx, groupID)
}

// RemoveMember lets the creator remove a member.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID, memberID int64) (dom.Group, error) {
	if _, err := s.creatorGroup(ctx, userID, groupID); err != nil {
		return dom.Group{}, err
	}
	if err := s.groups.RemoveMember(ctx, groupID, memberID); err != nil {
		return dom.Group{}, err
	}
	return s.groups.GetByID(ctx, groupID)
}

// CreateSchedule adds a group slot; any member may add one. The conflict
// check runs inside the repo's group-locked transaction.
func (s *GroupService) CreateSchedule(ctx context.Context, userID, groupID int64, title, description, day, startTime, endTime string) (dom.GroupSchedule, error) {
	if _, err := s.memberGroup(ctx, userID, groupID); err != nil {
		return dom.GroupSchedule{}, err
	}
	d, err := schedule.ParseDay(day)
	if err != nil {
		return dom.GroupSchedule{}, err
	}
	iv, err := schedule.NewInterval(startTime, endTime)
	if err != nil {
		return dom.GroupSchedule{}, err
	}
	out, err := s.schedules.Create(ctx, dom.GroupSchedule{
		GroupID:     groupID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Day:         string(d),
		StartMin:    iv.Start,
		EndMin:      iv.End,
		CreatedBy:   userID,
	})
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return dom.GroupSchedule{}, ErrConflict
		}
		return dom.GroupSchedule{}, err
	}
	return out, nil
}

// ListSchedules returns the group's slots for a member or the creator.
func (s *GroupService) ListSchedules(ctx context.Context, userID, groupID int64) ([]dom.GroupSchedule, error) {
	if _, err := s.memberGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.schedules.ListByGroup(ctx, groupID)
}

// GetSchedule returns one slot, visible to members of its group.
func (s *GroupService) GetSchedule(ctx context.Context, userID, scheduleID int64) (dom.GroupSchedule, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.GroupSchedule{}, ErrNotFound
		}
		return dom.GroupSchedule{}, err
	}
	if _, err := s.memberGroup(ctx, userID, sched.GroupID); err != nil {
		return dom.GroupSchedule{}, err
	}
	return sched, nil
}

// UpdateSchedule lets the slot's creator change it; a changed interval is
// re-validated against the group's other slots, excluding this one.
func (s *GroupService) UpdateSchedule(ctx context.Context, userID, scheduleID int64, title, description, day, startTime, endTime *string) (dom.GroupSchedule, error) {
	existing, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.GroupSchedule{}, ErrNotFound
		}
		return dom.GroupSchedule{}, err
	}
	if existing.CreatedBy != userID {
		return dom.GroupSchedule{}, ErrForbidden
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if description != nil {
		patch.Description = strings.TrimSpace(*description)
	}
	if day != nil {
		d, err := schedule.ParseDay(*day)
		if err != nil {
			return dom.GroupSchedule{}, err
		}
		patch.Day = string(d)
	}
	start, end := schedule.FormatMinutes(existing.StartMin), schedule.FormatMinutes(existing.EndMin)
	if startTime != nil {
		start = *startTime
	}
	if endTime != nil {
		end = *endTime
	}
	iv, err := schedule.NewInterval(start, end)
	if err != nil {
		return dom.GroupSchedule{}, err
	}
	patch.StartMin, patch.EndMin = iv.Start, iv.End

	out, err := s.schedules.Update(ctx, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return dom.GroupSchedule{}, ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return dom.GroupSchedule{}, ErrNotFound
		}
		return dom.GroupSchedule{}, err
	}
	return out, nil
}

// DeleteSchedule lets the slot's creator remove it.
func (s *GroupService) DeleteSchedule(ctx context.Context, userID, scheduleID int64) error {
	existing, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if existing.CreatedBy != userID {
		return ErrForbidden
	}
	return s.schedules.Delete(ctx, scheduleID)
}

func (s *GroupService) memberGroup(ctx context.Context, userID, groupID int64) (dom.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Group{}, ErrNotFound
		}
		return dom.Group{}, err
	}
	if !g.HasMember(userID) {
		return dom.Group{}, ErrForbidden
	}
	return g, nil
}

func (s *GroupService) creatorGroup(ctx context.Context, userID, groupID int64) (dom.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Group{}, ErrNotFound
		}
		return dom.Group{}, err
	}
	if g.CreatedBy != userID {
		return dom.Group{}, ErrForbidden
	}
	return g, nil
}
