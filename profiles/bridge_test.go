package profiles_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-identity-bridge/identity"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/jrsteele09/go-identity-bridge/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testIdentity(subject string) identity.VerifiedIdentity {
	return identity.VerifiedIdentity{
		SubjectID:   subject,
		Issuer:      "https://securetoken.google.com/ai-calendar-test",
		Email:       subject + "@example.com",
		DisplayName: "User " + subject,
		AvatarURL:   "https://example.com/" + subject + ".png",
		IssuedAt:    testNow.Add(-time.Minute),
		ExpiresAt:   testNow.Add(time.Hour),
	}
}

func newBridge(repo profiles.Repo) *profiles.Bridge {
	return profiles.NewBridge(repo,
		profiles.WithStoreTimeout(time.Second),
		profiles.WithNowFunc(func() time.Time { return testNow }),
	)
}

// failingRepo records calls and fails every one of them
type failingRepo struct {
	mu      sync.Mutex
	upserts int
	err     error
}

func (f *failingRepo) Upsert(ctx context.Context, p profiles.Profile) (profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	return profiles.Profile{}, f.err
}

func (f *failingRepo) Get(ctx context.Context, id string) (profiles.Profile, error) {
	return profiles.Profile{}, f.err
}

func TestSyncProfile_CreatesProfileKeyedBySubject(t *testing.T) {
	repo := profiles.NewInMemoryRepo()
	bridge := newBridge(repo)

	p, err := bridge.SyncProfile(context.Background(), testIdentity("u1"))
	require.NoError(t, err)
	require.Equal(t, "u1", p.ID)
	require.Equal(t, "u1@example.com", p.Email)
	require.Equal(t, "User u1", p.FullName)
	require.Equal(t, "https://example.com/u1.png", p.AvatarURL)
	require.Equal(t, testNow, p.CreatedAt)
	require.Equal(t, 1, repo.Len())
}

func TestSyncProfile_Idempotent(t *testing.T) {
	repo := profiles.NewInMemoryRepo()
	bridge := newBridge(repo)
	id := testIdentity("u1")

	first, err := bridge.SyncProfile(context.Background(), id)
	require.NoError(t, err)

	id.Email = "changed@example.com"
	second, err := bridge.SyncProfile(context.Background(), id)
	require.NoError(t, err)

	require.Equal(t, 1, repo.Len())
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, "changed@example.com", second.Email)
}

func TestSyncProfile_ConcurrentLoginsProduceOneRow(t *testing.T) {
	repo := profiles.NewInMemoryRepo()
	bridge := newBridge(repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bridge.SyncProfile(context.Background(), testIdentity("u1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, repo.Len())
}

func TestSyncProfileWithDetails_ClaimsTakePrecedence(t *testing.T) {
	bridge := newBridge(profiles.NewInMemoryRepo())

	id := testIdentity("u1")
	id.AvatarURL = ""
	p, err := bridge.SyncProfileWithDetails(context.Background(), id, profiles.Details{
		Email:     "spoofed@example.com",
		FullName:  "Someone Else",
		AvatarURL: "https://example.com/body.png",
	})
	require.NoError(t, err)
	require.Equal(t, "u1@example.com", p.Email)
	require.Equal(t, "User u1", p.FullName)
	require.Equal(t, "https://example.com/body.png", p.AvatarURL)
}

func TestSyncProfile_RequiresLiveIdentity(t *testing.T) {
	repo := profiles.NewInMemoryRepo()
	bridge := newBridge(repo)

	_, err := bridge.SyncProfile(context.Background(), identity.VerifiedIdentity{})
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	expired := testIdentity("u1")
	expired.ExpiresAt = testNow.Add(-time.Second)
	_, err = bridge.SyncProfile(context.Background(), expired)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	require.Equal(t, 0, repo.Len())
}

func TestSyncProfile_StoreFailure(t *testing.T) {
	repo := &failingRepo{err: errors.New("connection reset")}
	bridge := newBridge(repo)

	_, err := bridge.SyncProfile(context.Background(), testIdentity("u1"))
	require.ErrorIs(t, err, apperrors.ErrSync)
	require.Equal(t, 1, repo.upserts)
}

func TestSyncProfile_CancelledBeforeWrite(t *testing.T) {
	repo := &failingRepo{}
	bridge := newBridge(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bridge.SyncProfile(ctx, testIdentity("u1"))
	require.ErrorIs(t, err, apperrors.ErrSync)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, repo.upserts)
}

func TestGet(t *testing.T) {
	bridge := newBridge(profiles.NewInMemoryRepo())

	_, err := bridge.Get(context.Background(), testIdentity("u1"))
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = bridge.SyncProfile(context.Background(), testIdentity("u1"))
	require.NoError(t, err)

	p, err := bridge.Get(context.Background(), testIdentity("u1"))
	require.NoError(t, err)
	require.Equal(t, "u1", p.ID)
}

func TestEnsureProfile(t *testing.T) {
	t.Run("creates a missing profile", func(t *testing.T) {
		repo := profiles.NewInMemoryRepo()
		bridge := newBridge(repo)

		require.NoError(t, bridge.EnsureProfile(context.Background(), testIdentity("u1")))
		require.Equal(t, 1, repo.Len())
	})

	t.Run("leaves an existing profile alone", func(t *testing.T) {
		repo := profiles.NewInMemoryRepo()
		_, err := newBridge(repo).SyncProfile(context.Background(), testIdentity("u1"))
		require.NoError(t, err)

		later := profiles.NewBridge(repo, profiles.WithNowFunc(func() time.Time { return testNow.Add(time.Minute) }))
		require.NoError(t, later.EnsureProfile(context.Background(), testIdentity("u1")))

		p, err := repo.Get(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, testNow, p.UpdatedAt)
	})

	t.Run("store failure is a sync error", func(t *testing.T) {
		bridge := newBridge(&failingRepo{err: errors.New("timeout")})
		require.ErrorIs(t, bridge.EnsureProfile(context.Background(), testIdentity("u1")), apperrors.ErrSync)
	})
}
