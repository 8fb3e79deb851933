package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-identity-bridge/identity"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/jrsteele09/go-identity-bridge/profiles"
	"github.com/jrsteele09/go-identity-bridge/tasks"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func caller(subject string) identity.VerifiedIdentity {
	return identity.VerifiedIdentity{
		SubjectID: subject,
		Email:     subject + "@example.com",
		IssuedAt:  testNow.Add(-time.Minute),
		ExpiresAt: testNow.Add(time.Hour),
	}
}

type testFixture struct {
	repo     *tasks.InMemoryRepo
	profiles *profiles.InMemoryRepo
	service  *tasks.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	profileRepo := profiles.NewInMemoryRepo()
	bridge := profiles.NewBridge(profileRepo, profiles.WithNowFunc(fixedNow))
	repo := tasks.NewInMemoryRepo()

	return &testFixture{
		repo:     repo,
		profiles: profileRepo,
		service:  tasks.NewService(repo, bridge, tasks.WithNowFunc(fixedNow), tasks.WithStoreTimeout(time.Second)),
	}
}

// guardFunc adapts a function to tasks.OwnerGuard
type guardFunc func(ctx context.Context, id identity.VerifiedIdentity) error

func (f guardFunc) EnsureProfile(ctx context.Context, id identity.VerifiedIdentity) error {
	return f(ctx, id)
}

func TestOwnershipScenario(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	task, err := f.service.Create(ctx, caller("u1"), "Write report", "2025-01-10T09:00:00Z")
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, "u1", task.OwnerID)
	require.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), task.OccursAt)

	mine, err := f.service.List(ctx, caller("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, task.ID, mine[0].ID)

	theirs, err := f.service.List(ctx, caller("u2"))
	require.NoError(t, err)
	require.NotNil(t, theirs)
	require.Empty(t, theirs)

	err = f.service.Delete(ctx, caller("u2"), task.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	mine, err = f.service.List(ctx, caller("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, f.service.Delete(ctx, caller("u1"), task.ID))
	require.ErrorIs(t, f.service.Delete(ctx, caller("u1"), task.ID), apperrors.ErrNotFound)
	require.Equal(t, 0, f.repo.Len())
}

func TestCreate_EnsuresOwnerProfile(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Create(context.Background(), caller("u1"), "Dentist", "2025-02-01T08:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 1, f.profiles.Len())
}

func TestCreate_Validation(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name        string
		description string
		date        string
	}{
		{name: "empty description", description: "", date: "2025-01-10T09:00:00Z"},
		{name: "whitespace description", description: "   \t", date: "2025-01-10T09:00:00Z"},
		{name: "missing date", description: "Write report", date: ""},
		{name: "not a timestamp", description: "Write report", date: "next tuesday"},
		{name: "date only", description: "Write report", date: "2025-01-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), caller("u1"), tt.description, tt.date)
			require.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	require.Equal(t, 0, f.repo.Len())
}

func TestCreate_TrimsAndAcceptsFractionalSeconds(t *testing.T) {
	f := setupTestFixture(t)

	task, err := f.service.Create(context.Background(), caller("u1"), "  Standup  ", "2025-01-10T09:00:00.250+02:00")
	require.NoError(t, err)
	require.Equal(t, "Standup", task.Description)
	require.Equal(t, time.Date(2025, 1, 10, 7, 0, 0, 250_000_000, time.UTC), task.OccursAt)
}

func TestList_OrderedByDate(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2025-03-01T00:00:00Z", "2025-01-01T00:00:00Z", "2025-02-01T00:00:00Z"} {
		_, err := f.service.Create(ctx, caller("u1"), "task "+date, date)
		require.NoError(t, err)
	}

	list, err := f.service.List(ctx, caller("u1"))
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.True(t, list[0].OccursAt.Before(list[1].OccursAt))
	require.True(t, list[1].OccursAt.Before(list[2].OccursAt))
}

func TestOperations_RequireLiveCaller(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	expired := caller("u1")
	expired.ExpiresAt = testNow.Add(-time.Second)

	_, err := f.service.List(ctx, expired)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = f.service.Create(ctx, identity.VerifiedIdentity{}, "x", "2025-01-10T09:00:00Z")
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	require.ErrorIs(t, f.service.Delete(ctx, expired, "t-1"), apperrors.ErrUnauthenticated)

	require.Equal(t, 0, f.profiles.Len())
}

func TestOperations_FailWhenOwnerCannotBeSynced(t *testing.T) {
	repo := tasks.NewInMemoryRepo()
	guard := guardFunc(func(context.Context, identity.VerifiedIdentity) error {
		return apperrors.Join(apperrors.ErrSync, errors.New("store unavailable"))
	})
	service := tasks.NewService(repo, guard, tasks.WithNowFunc(fixedNow))

	_, err := service.Create(context.Background(), caller("u1"), "Write report", "2025-01-10T09:00:00Z")
	require.ErrorIs(t, err, apperrors.ErrSync)
	require.Equal(t, 0, repo.Len())
}

func TestDelete_RequiresID(t *testing.T) {
	f := setupTestFixture(t)
	require.ErrorIs(t, f.service.Delete(context.Background(), caller("u1"), " "), apperrors.ErrValidation)
}
