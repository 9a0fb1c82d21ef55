// Package reminder scans the timetable once per minute for slots starting
// 15 minutes ahead and emails their owners. Matching is exact-minute: a
// slot fires only when its start time equals the computed target minute,
// so a tick lost past its minute boundary is never replayed.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/schedule"
)

// DefaultLookahead is how far ahead of a slot's start the reminder fires.
const DefaultLookahead = 15 * time.Minute

// SlotSource yields entries starting at exactly (day, minute) with
// reminders enabled.
type SlotSource interface {
	FindDue(ctx context.Context, day schedule.Day, minute int) ([]domain.TimetableEntry, error)
}

// Contact is the resolved recipient for a scope.
type Contact struct {
	Email string
	Name  string
}

// ErrNoContact means the scope has no resolvable recipient. The scanner
// skips such matches without failing the tick.
var ErrNoContact = errors.New("no contact for user")

// ContactResolver resolves a slot owner to a recipient.
type ContactResolver interface {
	ContactFor(ctx context.Context, userID int64) (Contact, error)
}

// Scanner runs the periodic reminder scan. It keeps no state between
// ticks; everything it needs is read fresh from its collaborators.
type Scanner struct {
	slots      SlotSource
	contacts   ContactResolver
	dispatcher *Dispatcher
	lookahead  time.Duration
	now        func() time.Time
	cron       *cron.Cron
}

// NewScanner wires a Scanner. A zero lookahead defaults to 15 minutes.
func NewScanner(slots SlotSource, contacts ContactResolver, dispatcher *Dispatcher, lookahead time.Duration) *Scanner {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	return &Scanner{
		slots:      slots,
		contacts:   contacts,
		dispatcher: dispatcher,
		lookahead:  lookahead,
		now:        time.Now,
	}
}

// Start schedules Tick once per minute. The cron job never returns an
// error, so a failed tick cannot unschedule the next one.
func (s *Scanner) Start() error {
	if s.cron != nil {
		return errors.New("reminder: scanner already started")
	}
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		s.Tick(context.Background())
	}); err != nil {
		return fmt.Errorf("reminder: register scan job: %w", err)
	}
	s.cron = c
	c.Start()
	log.Printf("reminder: scanner started (lookahead %s)", s.lookahead)
	return nil
}

// Stop halts scheduling, waits (bounded by ctx) for an in-flight tick,
// then drains tracked dispatches.
func (s *Scanner) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	stopped := s.cron.Stop()
	s.cron = nil
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := s.dispatcher.Wait(ctx); err != nil {
		return err
	}
	sent, failed := s.dispatcher.Stats()
	log.Printf("reminder: scanner stopped (sent=%d failed=%d)", sent, failed)
	return nil
}

// Tick performs one scan. Errors are logged, never returned: the scan's
// liveness guarantee is that nothing in a tick can stop the next one.
func (s *Scanner) Tick(ctx context.Context) {
	target := s.now().Add(s.lookahead).Truncate(time.Minute)
	day := schedule.DayOfWeek(target.Weekday())
	minute := target.Hour()*60 + target.Minute()

	entries, err := s.slots.FindDue(ctx, day, minute)
	if err != nil {
		log.Printf("reminder: scan %s %s failed: %v", day, schedule.FormatMinutes(minute), err)
		return
	}
	if len(entries) > 0 {
		log.Printf("reminder: %d entries starting at %s on %s", len(entries), schedule.FormatMinutes(minute), day)
	}

	for _, e := range entries {
		contact, err := s.contacts.ContactFor(ctx, e.UserID)
		if err != nil {
			if errors.Is(err, ErrNoContact) {
				log.Printf("reminder: no contact for user %d, skipping entry %d", e.UserID, e.ID)
			} else {
				log.Printf("reminder: resolving contact for user %d: %v", e.UserID, err)
			}
			continue
		}
		subject, body := composeEmail(e, contact, s.lookahead)
		s.dispatcher.Dispatch(contact.Email, subject, body)
	}
}

func composeEmail(e domain.TimetableEntry, c Contact, lookahead time.Duration) (subject, body string) {
	name := c.Name
	if name == "" {
		name = "User"
	}
	subject = fmt.Sprintf("Reminder: %s starts in %d minutes", e.Subject, int(lookahead.Minutes()))
	body = fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that your event %q is scheduled to start at %s.\n\nBest regards,\nTimetable App",
		name, e.Subject, schedule.FormatMinutes(e.StartMin),
	)
	return subject, body
}
