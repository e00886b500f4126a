package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
	"github.com/akkafe1ix/HealthPill-bot/internal/store"
)

// Full path through the real store: add → rebuild → delete → rebuild.
func TestRebuild_AgainstSQLiteStore(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.UpsertUser(ctx, &domain.User{ID: 7, FirstName: "Иван"}))

	canonical, _, err := domain.ValidateSchedule("20:00, 08:00")
	require.NoError(t, err)
	id, err := repo.AddMedication(ctx, &domain.Medication{
		UserID:   7,
		Name:     "Аспирин",
		Dosage:   "500 мг",
		Schedule: canonical,
	})
	require.NoError(t, err)

	s := New(repo, zap.NewNop(), &fakeNotifier{}, time.UTC)
	require.NoError(t, s.Rebuild(ctx))
	require.Equal(t, 2, s.TriggerCount(), "one trigger per schedule time")

	_, ok := s.entries[triggerKey{UserID: 7, Name: "Аспирин", Time: "08:00"}]
	require.True(t, ok)
	_, ok = s.entries[triggerKey{UserID: 7, Name: "Аспирин", Time: "20:00"}]
	require.True(t, ok)

	// Deleting the user's last medication empties their trigger set.
	deleted, err := repo.DeleteMedication(ctx, id, 7)
	require.NoError(t, err)
	require.True(t, deleted)
	require.NoError(t, s.Rebuild(ctx))
	require.Equal(t, 0, s.TriggerCount())
}
