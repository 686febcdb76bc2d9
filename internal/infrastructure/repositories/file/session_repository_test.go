package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"peerlink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSessionsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()

	repo, err := NewFileSessionRepository(dir, time.Hour, logger)
	require.NoError(t, err)

	sharer := domain.PeerID("alice")
	_, err = repo.Write(ctx, "s1", domain.SessionUpdate{Sharer: &sharer, AddViewer: "bob"})
	require.NoError(t, err)

	reopened, err := NewFileSessionRepository(dir, time.Hour, logger)
	require.NoError(t, err)

	s, err := reopened.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("s1"), s.ID)
	assert.Equal(t, domain.PeerID("alice"), s.Sharer)
	assert.Equal(t, []domain.PeerID{"bob"}, s.Viewers)
}

func TestCorruptSessionsFileServesEmpty(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewFileSessionRepository(dir, time.Hour, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	_, err = repo.Write(ctx, "s1", domain.SessionUpdate{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionsFilename), []byte("]["), 0o644))

	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// A write starts a fresh store.
	_, err = repo.Write(ctx, "s2", domain.SessionUpdate{})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "s2")
	assert.NoError(t, err)
}

func TestWriteEvictsIdleSessionsOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewFileSessionRepository(dir, time.Hour, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	now := int64(1700000000)
	repo.(*FileSessionRepository).now = func() time.Time { return time.Unix(now, 0) }

	_, err = repo.Write(ctx, "idle", domain.SessionUpdate{})
	require.NoError(t, err)

	now += 7200
	_, err = repo.Write(ctx, "fresh", domain.SessionUpdate{})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "idle")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = repo.Get(ctx, "fresh")
	assert.NoError(t, err)
}
