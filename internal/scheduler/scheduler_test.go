package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
)

// fakeRepo serves a fixed medication set; only ListAllActive matters here.
type fakeRepo struct {
	meds []domain.Medication
	err  error
}

func (f *fakeRepo) ListAllActive(_ context.Context) ([]domain.Medication, error) {
	return f.meds, f.err
}

func (f *fakeRepo) UpsertUser(context.Context, *domain.User) error { return nil }
func (f *fakeRepo) AddMedication(context.Context, *domain.Medication) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) ListActive(context.Context, int64) ([]domain.Medication, error) {
	return nil, nil
}
func (f *fakeRepo) GetMedication(context.Context, int64, int64) (*domain.Medication, error) {
	return nil, nil
}
func (f *fakeRepo) DeleteMedication(context.Context, int64, int64) (bool, error) {
	return false, nil
}
func (f *fakeRepo) Close() error { return nil }

type fakeNotifier struct {
	sent []domain.Firing
	err  error
}

func (f *fakeNotifier) SendReminder(fr domain.Firing) error {
	f.sent = append(f.sent, fr)
	return f.err
}

func newTestScheduler(repo *fakeRepo, n *fakeNotifier) *Scheduler {
	return New(repo, zap.NewNop(), n, time.UTC)
}

func TestRebuild_RegistersTriggerPerTime(t *testing.T) {
	repo := &fakeRepo{meds: []domain.Medication{
		{UserID: 7, Name: "Аспирин", Dosage: "500 мг", Schedule: "08:00, 20:00", Active: true},
	}}
	s := newTestScheduler(repo, &fakeNotifier{})

	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	wantKeys := []triggerKey{
		{UserID: 7, Name: "Аспирин", Time: "08:00"},
		{UserID: 7, Name: "Аспирин", Time: "20:00"},
	}
	if len(s.entries) != len(wantKeys) {
		t.Fatalf("want %d triggers, got %d", len(wantKeys), len(s.entries))
	}
	for _, k := range wantKeys {
		if _, ok := s.entries[k]; !ok {
			t.Fatalf("missing trigger key %+v", k)
		}
	}
}

func TestRebuild_DiscardsPreviousTriggers(t *testing.T) {
	repo := &fakeRepo{meds: []domain.Medication{
		{UserID: 1, Name: "Аспирин", Schedule: "08:00", Active: true},
	}}
	s := newTestScheduler(repo, &fakeNotifier{})

	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got := s.TriggerCount(); got != 1 {
		t.Fatalf("want 1 trigger, got %d", got)
	}

	// The user's last medication is deleted; the next rebuild must leave
	// nothing registered for them.
	repo.meds = nil
	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild after delete: %v", err)
	}
	if got := s.TriggerCount(); got != 0 {
		t.Fatalf("want 0 triggers after delete, got %d", got)
	}
}

func TestRebuild_SkipsMalformedStoredToken(t *testing.T) {
	repo := &fakeRepo{meds: []domain.Medication{
		{UserID: 1, Name: "Аспирин", Schedule: "99:99, 20:00", Active: true},
		{UserID: 2, Name: "Ибупрофен", Schedule: "12:00", Active: true},
	}}
	s := newTestScheduler(repo, &fakeNotifier{})

	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild must not fail on a bad stored token: %v", err)
	}
	if got := s.TriggerCount(); got != 2 {
		t.Fatalf("want 2 triggers (bad token skipped), got %d", got)
	}
	if _, ok := s.entries[triggerKey{UserID: 1, Name: "Аспирин", Time: "20:00"}]; !ok {
		t.Fatal("valid token of a partly malformed schedule must still register")
	}
}

func TestRebuild_SameKeyReplacesNotDuplicates(t *testing.T) {
	// Two active rows with the same (user, name, time) collapse to one trigger.
	repo := &fakeRepo{meds: []domain.Medication{
		{UserID: 1, Name: "Аспирин", Schedule: "08:00", Active: true},
		{UserID: 1, Name: "Аспирин", Schedule: "08:00", Active: true},
	}}
	s := newTestScheduler(repo, &fakeNotifier{})

	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got := s.TriggerCount(); got != 1 {
		t.Fatalf("want 1 trigger for duplicate keys, got %d", got)
	}
}

func TestRebuild_PropagatesStoreError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db closed")}
	s := newTestScheduler(repo, &fakeNotifier{})

	if err := s.Rebuild(context.Background()); err == nil {
		t.Fatal("want error when the store is unavailable")
	}
}

func TestFire_StampsEmissionTimestamp(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(&fakeRepo{}, n)
	fixed := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.fire(domain.Firing{UserID: 7, MedicationID: 3, Name: "Аспирин", Dosage: "500 мг", TimeStr: "08:00"})

	if len(n.sent) != 1 {
		t.Fatalf("want 1 delivery, got %d", len(n.sent))
	}
	got := n.sent[0]
	if got.FiredAt != fixed.Unix() {
		t.Fatalf("want emission ts %d, got %d", fixed.Unix(), got.FiredAt)
	}
	if got.MedicationID != 3 || got.Name != "Аспирин" || got.TimeStr != "08:00" {
		t.Fatalf("firing fields lost: %+v", got)
	}
}

func TestFire_DeliveryFailureIsSwallowed(t *testing.T) {
	n := &fakeNotifier{err: errors.New("telegram down")}
	s := newTestScheduler(&fakeRepo{}, n)

	// Must not panic and must not affect scheduler state.
	s.fire(domain.Firing{UserID: 7, Name: "Аспирин", TimeStr: "08:00"})

	if len(n.sent) != 1 {
		t.Fatalf("delivery attempted exactly once, got %d", len(n.sent))
	}
}
