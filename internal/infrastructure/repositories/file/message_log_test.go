package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"peerlink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFileLogPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()

	log, err := NewFileMessageLog(dir, 10, logger)
	require.NoError(t, err)

	id, err := log.Append(ctx, &domain.SignalingMessage{SessionID: "s1", Type: domain.MessageTypeOffer})
	require.NoError(t, err)

	// A fresh instance over the same directory sees the entry.
	reopened, err := NewFileMessageLog(dir, 10, logger)
	require.NoError(t, err)

	all, err := reopened.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, domain.SessionID("s1"), all[0].SessionID)
}

func TestFileLogTruncatesOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	log, err := NewFileMessageLog(dir, 2, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	var last domain.MessageID
	for i := 0; i < 5; i++ {
		last, err = log.Append(ctx, &domain.SignalingMessage{SessionID: "s1", Type: domain.MessageTypeICECandidate})
		require.NoError(t, err)
	}

	all, err := log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, last, all[1].ID)
}

func TestCorruptFileServesEmptyThenRecovers(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	log, err := NewFileMessageLog(dir, 10, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	_, err = log.Append(ctx, &domain.SignalingMessage{SessionID: "s1", Type: domain.MessageTypeOffer})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, messagesFilename), []byte("{{{not json"), 0o644))

	// Corruption reads as empty, not as an error.
	all, err := log.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// The next append heals the file.
	id, err := log.Append(ctx, &domain.SignalingMessage{SessionID: "s1", Type: domain.MessageTypeAnswer})
	require.NoError(t, err)

	all, err = log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
}

func TestMissingFileIsEmptyLog(t *testing.T) {
	log, err := NewFileMessageLog(t.TempDir(), 10, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	all, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPayloadSurvivesDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()

	log, err := NewFileMessageLog(dir, 10, logger)
	require.NoError(t, err)

	var msg domain.SignalingMessage
	require.NoError(t, msg.UnmarshalJSON([]byte(`{"type":"offer","sessionId":"s1","sdp":"v=0","custom":{"deep":[1,2]}}`)))

	_, err = log.Append(ctx, &msg)
	require.NoError(t, err)

	reopened, err := NewFileMessageLog(dir, 10, logger)
	require.NoError(t, err)

	all, err := reopened.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, `"v=0"`, string(all[0].Payload["sdp"]))
	assert.JSONEq(t, `{"deep":[1,2]}`, string(all[0].Payload["custom"]))
}
