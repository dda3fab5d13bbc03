package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
)

func TestCacheRepositoryMissAndHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	mock.ExpectGet("reports:stats").RedisNil()
	var stats models.StudentStats
	assert.ErrorIs(t, repo.Get(ctx, "reports:stats", &stats), appErrors.ErrCacheMiss)

	mock.ExpectGet("reports:stats").SetVal(`{"total":3,"active":2,"inactive":1}`)
	require.NoError(t, repo.Get(ctx, "reports:stats", &stats))
	assert.Equal(t, 3, stats.Total)

	mock.ExpectScan(0, "reports:*", 100).SetVal([]string{"reports:stats"}, 0)
	mock.ExpectUnlink("reports:stats").SetVal(1)
	require.NoError(t, repo.DeleteByPattern(ctx, "reports:*"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryDeleteByPatternPages(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	mock.ExpectScan(0, "reports:*", 100).SetVal([]string{"reports:stats", "reports:recent"}, 7)
	mock.ExpectUnlink("reports:stats", "reports:recent").SetVal(2)
	mock.ExpectScan(7, "reports:*", 100).SetVal([]string{}, 0)
	require.NoError(t, repo.DeleteByPattern(ctx, "reports:*"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryDropsUndecodableEntry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	mock.ExpectGet("reports:stats").SetVal("{not json")
	mock.ExpectDel("reports:stats").SetVal(1)
	var stats models.StudentStats
	assert.ErrorIs(t, repo.Get(ctx, "reports:stats", &stats), appErrors.ErrCacheMiss)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	var out map[string]int
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", 1, time.Second))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "k*"))
}

func TestRedisSessionRepository(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	session := &models.Session{ID: "sess-1", User: models.User{ID: "user-1", Name: "Ana", Role: models.RoleProfessor}}
	payload, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectSet("session:sess-1", payload, time.Hour).SetVal("OK")
	require.NoError(t, repo.Save(ctx, session, time.Hour))

	mock.ExpectGet("session:sess-1").SetVal(string(payload))
	found, err := repo.Find(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.User.Name)

	mock.ExpectDel("session:sess-1").SetVal(1)
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	mock.ExpectGet("session:sess-1").RedisNil()
	_, err = repo.Find(ctx, "sess-1")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSubmissionGate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	gate := NewRedisSubmissionGate(client)
	gate.newLease = func() string { return "lease-1" }
	ctx := context.Background()

	mock.ExpectSetNX("submission:tok", "lease-1", 30*time.Second).SetVal(true)
	lease, ok, err := gate.Acquire(ctx, "tok", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "lease-1", lease)

	gate.newLease = func() string { return "lease-2" }
	mock.ExpectSetNX("submission:tok", "lease-2", 30*time.Second).SetVal(false)
	lease, ok, err = gate.Acquire(ctx, "tok", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, lease)

	mock.ExpectEvalSha(releaseScript.Hash(), []string{"submission:tok"}, "lease-1").SetVal(int64(1))
	require.NoError(t, gate.Release(ctx, "tok", "lease-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSubmissionGateReleaseKeepsNewerHolder(t *testing.T) {
	client, mock := redismock.NewClientMock()
	gate := NewRedisSubmissionGate(client)
	ctx := context.Background()

	// The first lease expired and "lease-2" now owns the key; the script deletes nothing.
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"submission:tok"}, "lease-1").SetVal(int64(0))
	require.NoError(t, gate.Release(ctx, "tok", "lease-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
