//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/testutil/testdb"
)

var testDB *testdb.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testDB, err = testdb.NewTestDB(ctx)
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}

	code := m.Run()

	testDB.Close(ctx)
	if code != 0 {
		panic("tests failed")
	}
}

func setupTest(t *testing.T) (*SessionRepository, context.Context) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))
	return NewSessionRepository(testDB.Pool), ctx
}

func newSession(expires time.Time) *session.Session {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &session.Session{
		ID:            uuid.New(),
		Username:      "alice",
		SealedCookies: []byte{0x01, 0x02, 0x03},
		CreatedAt:     now,
		ExpiresAt:     expires.UTC().Truncate(time.Microsecond),
		LastSeenAt:    now,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo, ctx := setupTest(t)

	s := newSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Username, got.Username)
	assert.Equal(t, s.SealedCookies, got.SealedCookies)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))
}

func TestSessionRepository_Create_Duplicate(t *testing.T) {
	repo, ctx := setupTest(t)

	s := newSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s))
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	repo, ctx := setupTest(t)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_Touch(t *testing.T) {
	repo, ctx := setupTest(t)

	s := newSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, s))

	later := s.LastSeenAt.Add(10 * time.Minute)
	require.NoError(t, repo.Touch(ctx, s.ID, later))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(got.LastSeenAt))
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, ctx := setupTest(t)

	s := newSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo, ctx := setupTest(t)

	expired := newSession(time.Now().Add(-time.Hour))
	live := newSession(time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, live.ID)
	assert.NoError(t, err)
	_, err = repo.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
