package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/repo"
	"github.com/at14318-design/timetable-backend/internal/schedule"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeGroupRepo struct {
	nextID int64
	groups map[int64]dom.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[int64]dom.Group{}}
}

func (f *fakeGroupRepo) Create(_ context.Context, g dom.Group) (dom.Group, error) {
	f.nextID++
	g.ID = f.nextID
	g.MemberIDs = []int64{g.CreatedBy}
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int64) (dom.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return dom.Group{}, pgx.ErrNoRows
	}
	return g, nil
}

func (f *fakeGroupRepo) ListForUser(_ context.Context, userID int64) ([]dom.Group, error) {
	var out []dom.Group
	for _, g := range f.groups {
		if g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, g dom.Group) (dom.Group, error) {
	cur, ok := f.groups[g.ID]
	if !ok {
		return dom.Group{}, pgx.ErrNoRows
	}
	cur.Name, cur.Description = g.Name, g.Description
	f.groups[g.ID] = cur
	return cur, nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.groups[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.groups, id)
	return nil
}

func (f *fakeGroupRepo) AddMember(_ context.Context, groupID, userID int64) error {
	g, ok := f.groups[groupID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, id := range g.MemberIDs {
		if id == userID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	g.MemberIDs = append(g.MemberIDs, userID)
	f.groups[groupID] = g
	return nil
}

func (f *fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID int64) error {
	g, ok := f.groups[groupID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i, id := range g.MemberIDs {
		if id == userID {
			g.MemberIDs = append(g.MemberIDs[:i], g.MemberIDs[i+1:]...)
			f.groups[groupID] = g
			return nil
		}
	}
	return nil
}

type fakeGroupScheduleRepo struct {
	nextID    int64
	schedules map[int64]dom.GroupSchedule
}

func newFakeGroupScheduleRepo() *fakeGroupScheduleRepo {
	return &fakeGroupScheduleRepo{schedules: map[int64]dom.GroupSchedule{}}
}

func (f *fakeGroupScheduleRepo) hasConflict(s dom.GroupSchedule, excludeID int64) bool {
	var slots []schedule.Slot
	for _, cur := range f.schedules {
		if cur.GroupID != s.GroupID {
			continue
		}
		slots = append(slots, schedule.Slot{ID: cur.ID, Day: schedule.Day(cur.Day), Start: cur.StartMin, End: cur.EndMin})
	}
	return schedule.HasConflict(schedule.Day(s.Day), s.StartMin, s.EndMin, slots, excludeID)
}

func (f *fakeGroupScheduleRepo) Create(_ context.Context, s dom.GroupSchedule) (dom.GroupSchedule, error) {
	if f.hasConflict(s, 0) {
		return dom.GroupSchedule{}, repo.ErrConflict
	}
	f.nextID++
	s.ID = f.nextID
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeGroupScheduleRepo) GetByID(_ context.Context, id int64) (dom.GroupSchedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return dom.GroupSchedule{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeGroupScheduleRepo) ListByGroup(_ context.Context, groupID int64) ([]dom.GroupSchedule, error) {
	var out []dom.GroupSchedule
	for _, s := range f.schedules {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeGroupScheduleRepo) Update(_ context.Context, s dom.GroupSchedule) (dom.GroupSchedule, error) {
	if _, ok := f.schedules[s.ID]; !ok {
		return dom.GroupSchedule{}, pgx.ErrNoRows
	}
	if f.hasConflict(s, s.ID) {
		return dom.GroupSchedule{}, repo.ErrConflict
	}
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeGroupScheduleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.schedules[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.schedules, id)
	return nil
}

type fakeUserRepo struct {
	users map[int64]dom.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, email, username, passwordHash, role string) (dom.User, error) {
	id := int64(len(f.users) + 1)
	u := dom.User{ID: id, Email: email, Username: username, PasswordHash: passwordHash, Role: role}
	f.users[id] = u
	return u, nil
}

func newGroupFixture() (*GroupService, *fakeGroupRepo) {
	groups := newFakeGroupRepo()
	svc := NewGroupService(groups, newFakeGroupScheduleRepo(), &fakeUserRepo{users: map[int64]dom.User{
		1: {ID: 1, Email: "creator@example.com", Username: "creator"},
		2: {ID: 2, Email: "member@example.com", Username: "member"},
		3: {ID: 3, Email: "outsider@example.com", Username: "outsider"},
	}})
	return svc, groups
}

func TestGroupMutationsAreCreatorOnly(t *testing.T) {
	t.Parallel()
	svc, _ := newGroupFixture()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, 1, "Study", "weekly sessions")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if _, err := svc.UpdateGroup(ctx, 2, g.ID, strp("hijacked"), nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("UpdateGroup by member = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteGroup(ctx, 2, g.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("DeleteGroup by member = %v, want ErrForbidden", err)
	}
	if _, err := svc.AddMember(ctx, 2, g.ID, "outsider@example.com"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("AddMember by member = %v, want ErrForbidden", err)
	}
	if _, err := svc.RemoveMember(ctx, 2, g.ID, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("RemoveMember by member = %v, want ErrForbidden", err)
	}

	got, err := svc.UpdateGroup(ctx, 1, g.ID, strp("Renamed"), nil)
	if err != nil {
		t.Fatalf("UpdateGroup by creator: %v", err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed", got.Name)
	}
}

func TestGroupReadsRequireMembership(t *testing.T) {
	t.Parallel()
	svc, _ := newGroupFixture()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, 1, "Study", "")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if _, err := svc.GetGroup(ctx, 2, g.ID); err != nil {
		t.Fatalf("GetGroup by member: %v", err)
	}
	if _, err := svc.GetGroup(ctx, 3, g.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("GetGroup by outsider = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListSchedules(ctx, 3, g.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ListSchedules by outsider = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetGroup(ctx, 1, g.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetGroup unknown = %v, want ErrNotFound", err)
	}
}

func TestAddMemberEdgeCases(t *testing.T) {
	t.Parallel()
	svc, _ := newGroupFixture()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, 1, "Study", "")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddMember unknown email = %v, want ErrNotFound", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("duplicate AddMember = %v, want ErrAlreadyMember", err)
	}
}

func TestRemoveMemberIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _ := newGroupFixture()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, 1, "Study", "")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := svc.RemoveMember(ctx, 1, g.ID, 2); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	// Removing an already absent member is a no-op.
	if _, err := svc.RemoveMember(ctx, 1, g.ID, 2); err != nil {
		t.Fatalf("second RemoveMember: %v", err)
	}
}

func TestScheduleConflictsWithinGroup(t *testing.T) {
	t.Parallel()
	svc, _ := newGroupFixture()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, 1, "Study", "")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	other, err := svc.CreateGroup(ctx, 1, "Other", "")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if _, err := svc.CreateSchedule(ctx, 2, g.ID, "Review", "", "Friday", "14:00", "15:00"); err != nil {
		t.Fatalf("CreateSchedule by member: %v", err)
	}
	if _, err := svc.CreateSchedule(ctx, 1, g.ID, "Clash", "", "Friday", "14:30", "15:30"); !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping CreateSchedule = %v, want ErrConflict", err)
	}
	// Groups are independent conflict scopes.
	if _, err := svc.CreateSchedule(ctx, 1, other.ID, "Same slot", "", "Friday", "14:00", "15:00"); err != nil {
		t.Fatalf("CreateSchedule in other group: %v", err)
	}
	if _, err := svc.CreateSchedule(ctx, 3, g.ID, "Sneak", "", "Friday", "16:00", "17:00"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("CreateSchedule by outsider = %v, want ErrForbidden", err)
	}
}

func TestScheduleUpdateIsOwnerOnlyAndExcludesSelf(t *testing.T) {
	t.Parallel()
	svc, _ := newGroupFixture()
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, 1, "Study", "")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.AddMember(ctx, 1, g.ID, "member@example.com"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	s, err := svc.CreateSchedule(ctx, 2, g.ID, "Review", "", "Friday", "14:00", "15:00")
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}

	if _, err := svc.UpdateSchedule(ctx, 1, s.ID, strp("taken over"), nil, nil, nil, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("UpdateSchedule by non-owner = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteSchedule(ctx, 1, s.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("DeleteSchedule by non-owner = %v, want ErrForbidden", err)
	}

	got, err := svc.UpdateSchedule(ctx, 2, s.ID, nil, nil, nil, strp("14:30"), strp("15:30"))
	if err != nil {
		t.Fatalf("UpdateSchedule into own window: %v", err)
	}
	if got.StartMin != 870 || got.EndMin != 930 {
		t.Fatalf("updated bounds = %d-%d, want 870-930", got.StartMin, got.EndMin)
	}

	if err := svc.DeleteSchedule(ctx, 2, s.ID); err != nil {
		t.Fatalf("DeleteSchedule by owner: %v", err)
	}
	if err := svc.DeleteSchedule(ctx, 2, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteSchedule = %v, want ErrNotFound", err)
	}
}

func TestContactDirectorySkipsMissingUsers(t *testing.T) {
	t.Parallel()
	dir := NewContactDirectory(&fakeUserRepo{users: map[int64]dom.User{
		1: {ID: 1, Email: "a@example.com", Username: "a"},
		2: {ID: 2, Username: "no-email"},
	}})
	ctx := context.Background()

	c, err := dir.ContactFor(ctx, 1)
	if err != nil {
		t.Fatalf("ContactFor: %v", err)
	}
	if c.Email != "a@example.com" || c.Name != "a" {
		t.Fatalf("contact = %+v", c)
	}
	if _, err := dir.ContactFor(ctx, 2); err == nil {
		t.Fatal("ContactFor without email should fail")
	}
	if _, err := dir.ContactFor(ctx, 99); err == nil {
		t.Fatal("ContactFor unknown user should fail")
	}
}
