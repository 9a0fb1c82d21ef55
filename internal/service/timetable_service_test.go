package service

import (
	"context"
	"errors"
	"testing"

	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/repo"
	"github.com/at14318-design/timetable-backend/internal/schedule"

	"github.com/jackc/pgx/v5"
)

// fakeTimetableRepo keeps entries in memory and enforces the same
// per-user overlap rule as the Postgres implementation.
type fakeTimetableRepo struct {
	nextID  int64
	entries []dom.TimetableEntry
}

func (f *fakeTimetableRepo) hasConflict(e dom.TimetableEntry, excludeID int64) bool {
	var slots []schedule.Slot
	for _, cur := range f.entries {
		if cur.UserID != e.UserID {
			continue
		}
		slots = append(slots, schedule.Slot{ID: cur.ID, Day: schedule.Day(cur.Day), Start: cur.StartMin, End: cur.EndMin})
	}
	return schedule.HasConflict(schedule.Day(e.Day), e.StartMin, e.EndMin, slots, excludeID)
}

func (f *fakeTimetableRepo) Create(_ context.Context, e dom.TimetableEntry) (dom.TimetableEntry, error) {
	if f.hasConflict(e, 0) {
		return dom.TimetableEntry{}, repo.ErrConflict
	}
	f.nextID++
	e.ID = f.nextID
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeTimetableRepo) GetByID(_ context.Context, userID, id int64) (dom.TimetableEntry, error) {
	for _, e := range f.entries {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return dom.TimetableEntry{}, pgx.ErrNoRows
}

func (f *fakeTimetableRepo) List(_ context.Context, userID int64) ([]dom.TimetableEntry, error) {
	var out []dom.TimetableEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTimetableRepo) Update(_ context.Context, e dom.TimetableEntry) (dom.TimetableEntry, error) {
	if f.hasConflict(e, e.ID) {
		return dom.TimetableEntry{}, repo.ErrConflict
	}
	for i, cur := range f.entries {
		if cur.ID == e.ID && cur.UserID == e.UserID {
			f.entries[i] = e
			return e, nil
		}
	}
	return dom.TimetableEntry{}, pgx.ErrNoRows
}

func (f *fakeTimetableRepo) Delete(_ context.Context, userID, id int64) error {
	for i, e := range f.entries {
		if e.ID == id && e.UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTimetableRepo) FindDue(_ context.Context, day schedule.Day, minute int) ([]dom.TimetableEntry, error) {
	var out []dom.TimetableEntry
	for _, e := range f.entries {
		if e.Reminder && e.Day == string(day) && e.StartMin == minute {
			out = append(out, e)
		}
	}
	return out, nil
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		day     string
		start   string
		end     string
		wantErr error
	}{
		{"bad day", "Funday", "09:00", "10:00", schedule.ErrDay},
		{"bad start", "Monday", "9:00", "10:00", schedule.ErrTimeFormat},
		{"bad end", "Monday", "09:00", "24:30", schedule.ErrTimeFormat},
		{"end before start", "Monday", "10:00", "09:00", schedule.ErrInterval},
		{"zero length", "Monday", "09:00", "09:00", schedule.ErrInterval},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewTimetableService(&fakeTimetableRepo{}, nil)
			_, err := svc.Create(context.Background(), 1, "Math", tt.day, tt.start, tt.end, false)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	t.Parallel()
	svc := NewTimetableService(&fakeTimetableRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "Math", "Monday", "09:00", "10:00", false); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, 1, "Physics", "Monday", "09:30", "10:30", false); !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping Create error = %v, want ErrConflict", err)
	}
	// Touching slots and other days are fine.
	if _, err := svc.Create(ctx, 1, "Physics", "Monday", "10:00", "11:00", false); err != nil {
		t.Fatalf("touching Create: %v", err)
	}
	if _, err := svc.Create(ctx, 1, "Physics", "Tuesday", "09:00", "10:00", false); err != nil {
		t.Fatalf("other-day Create: %v", err)
	}
	// Another user is a separate scope.
	if _, err := svc.Create(ctx, 2, "Math", "Monday", "09:00", "10:00", false); err != nil {
		t.Fatalf("other-user Create: %v", err)
	}
}

func TestUpdateExcludesSelfFromConflictCheck(t *testing.T) {
	t.Parallel()
	svc := NewTimetableService(&fakeTimetableRepo{}, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, 1, "Math", "Monday", "09:00", "10:00", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Shifting the same entry into its own old window must not conflict.
	got, err := svc.Update(ctx, 1, e.ID, SlotChange{StartTime: strp("09:30"), EndTime: strp("10:30")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.StartMin != 570 || got.EndMin != 630 {
		t.Fatalf("updated bounds = %d-%d, want 570-630", got.StartMin, got.EndMin)
	}
}

func TestUpdatePartialKeepsUnchangedBounds(t *testing.T) {
	t.Parallel()
	svc := NewTimetableService(&fakeTimetableRepo{}, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, 1, "Math", "Monday", "09:00", "10:00", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Update(ctx, 1, e.ID, SlotChange{Subject: strp("Algebra"), Reminder: boolp(false)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Subject != "Algebra" || got.Reminder {
		t.Fatalf("got %+v, want subject Algebra, reminder off", got)
	}
	if got.StartMin != 540 || got.EndMin != 600 || got.Day != "Monday" {
		t.Fatalf("slot changed unexpectedly: %+v", got)
	}
}

func TestUpdateConflictsWithOtherEntry(t *testing.T) {
	t.Parallel()
	svc := NewTimetableService(&fakeTimetableRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "Math", "Monday", "09:00", "10:00", false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	e, err := svc.Create(ctx, 1, "Physics", "Monday", "11:00", "12:00", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(ctx, 1, e.ID, SlotChange{StartTime: strp("09:30"), EndTime: strp("10:30")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("Update error = %v, want ErrConflict", err)
	}
}

func TestGetAndDeleteScopeToOwner(t *testing.T) {
	t.Parallel()
	svc := NewTimetableService(&fakeTimetableRepo{}, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, 1, "Math", "Monday", "09:00", "10:00", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.GetByID(ctx, 2, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID as other user = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 2, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete as other user = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 1, e.ID); err != nil {
		t.Fatalf("Delete as owner: %v", err)
	}
	if err := svc.Delete(ctx, 1, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
}
