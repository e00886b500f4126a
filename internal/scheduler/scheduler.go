package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
	"github.com/akkafe1ix/HealthPill-bot/internal/store"
)

// Notifier delivers one reminder. telegram.Router implements it; the firing's
// medication name and emission timestamp must round-trip through the message's
// reply action so the acknowledgment can be correlated later.
type Notifier interface {
	SendReminder(f domain.Firing) error
}

// triggerKey identifies one recurring daily trigger. Registering the same key
// twice replaces the earlier entry, never duplicates it.
type triggerKey struct {
	UserID int64
	Name   string
	Time   string
}

// Scheduler keeps one recurring cron entry per (user, medication, time-of-day)
// and rebuilds the whole set from storage after every mutation. Cron entries
// run in their own goroutines, so one slow delivery never delays another
// trigger.
type Scheduler struct {
	repo     store.Repo
	log      *zap.Logger
	notifier Notifier
	cron     *cron.Cron
	now      func() time.Time

	mu      sync.Mutex
	entries map[triggerKey]cron.EntryID
}

// New creates a Scheduler firing in the given fixed location.
func New(repo store.Repo, log *zap.Logger, notifier Notifier, loc *time.Location) *Scheduler {
	return &Scheduler{
		repo:     repo,
		log:      log,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
		entries:  make(map[triggerKey]cron.EntryID),
	}
}

// Start begins firing registered triggers.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts the cron runner and returns a context that is done once all
// in-flight firings have finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Rebuild discards every registered trigger and re-registers the full active
// set from storage. Called at startup and after every medication add/delete;
// a wholesale rebuild trades a little work for zero incremental bookkeeping.
func (s *Scheduler) Rebuild(ctx context.Context) error {
	meds, err := s.repo.ListAllActive(ctx)
	if err != nil {
		return fmt.Errorf("list active medications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = make(map[triggerKey]cron.EntryID, len(meds))

	for _, med := range meds {
		for _, tok := range strings.Split(med.Schedule, ",") {
			tok = strings.TrimSpace(tok)
			hour, minute, err := domain.ParseTimeOfDay(tok)
			if err != nil {
				// Validation happens upstream; a bad stored token must not
				// keep the rest of the medications from being scheduled.
				s.log.Warn("skipping malformed schedule token",
					zap.Int64("userID", med.UserID),
					zap.String("medication", med.Name),
					zap.String("token", tok),
				)
				continue
			}

			key := triggerKey{UserID: med.UserID, Name: med.Name, Time: tok}
			if old, ok := s.entries[key]; ok {
				s.cron.Remove(old)
			}

			firing := domain.Firing{
				UserID:       med.UserID,
				MedicationID: med.ID,
				Name:         med.Name,
				Dosage:       med.Dosage,
				TimeStr:      tok,
			}
			id, err := s.cron.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), func() {
				s.fire(firing)
			})
			if err != nil {
				s.log.Error("register trigger failed",
					zap.Int64("userID", med.UserID),
					zap.String("medication", med.Name),
					zap.String("token", tok),
					zap.Error(err),
				)
				continue
			}
			s.entries[key] = id
		}
	}

	s.log.Info("triggers rebuilt", zap.Int("count", len(s.entries)))
	return nil
}

// TriggerCount reports how many triggers are currently registered.
func (s *Scheduler) TriggerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// fire stamps the firing with the emission time and hands it to the notifier.
// Delivery is best effort: a failure is logged and the trigger keeps firing on
// schedule.
func (s *Scheduler) fire(f domain.Firing) {
	f.FiredAt = s.now().Unix()

	if err := s.notifier.SendReminder(f); err != nil {
		s.log.Error("reminder delivery failed",
			zap.Int64("userID", f.UserID),
			zap.String("medication", f.Name),
			zap.Error(err),
		)
		return
	}
	s.log.Info("reminder sent",
		zap.Int64("userID", f.UserID),
		zap.String("medication", f.Name),
		zap.String("time", f.TimeStr),
	)
}
