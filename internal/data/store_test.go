package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
)

func newTestStore(t *testing.T) *gormStore {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "monitor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*gormStore)
}

func TestCreateMessage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.CreateMessage(ctx, &domain.Message{
		TelegramMessageID: 101,
		ChatName:          "Dark Forum",
		Content:           "Aqui está a senha",
		HasImage:          false,
	})
	require.NoError(t, err)

	assert.Positive(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, "Aqui está a senha", stored.Content)

	// IDs are monotonic across inserts.
	second, err := store.CreateMessage(ctx, &domain.Message{
		TelegramMessageID: 102,
		ChatName:          "Dark Forum",
	})
	require.NoError(t, err)
	assert.Greater(t, second.ID, stored.ID)
}

func TestCreateMessage_EmptyTextStoredAsNull(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.CreateMessage(context.Background(), &domain.Message{
		TelegramMessageID: 103,
		ChatName:          "Dark Forum",
		HasImage:          true,
		OCRText:           "confidencial",
	})
	require.NoError(t, err)

	var m MessageModel
	require.NoError(t, store.db.First(&m, stored.ID).Error)
	assert.Nil(t, m.Content)
	require.NotNil(t, m.OCRText)
	assert.Equal(t, "confidencial", *m.OCRText)
}

func TestCreateMessage_DuplicateTelegramID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateMessage(ctx, &domain.Message{TelegramMessageID: 104, ChatName: "Dark Forum"})
	require.NoError(t, err)

	// Redelivery of the same platform event violates the unique index.
	_, err = store.CreateMessage(ctx, &domain.Message{TelegramMessageID: 104, ChatName: "Dark Forum"})
	require.Error(t, err)

	n, err := store.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateAlert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg, err := store.CreateMessage(ctx, &domain.Message{TelegramMessageID: 105, ChatName: "Dark Forum"})
	require.NoError(t, err)

	alert, err := store.CreateAlert(ctx, msg, "senha, confidencial")
	require.NoError(t, err)

	assert.Positive(t, alert.ID)
	assert.Equal(t, msg.ID, alert.MessageID)
	assert.Equal(t, "senha, confidencial", alert.KeywordFound)
	assert.False(t, alert.Timestamp.IsZero())
}

func TestCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msgs, err := store.CountMessages(ctx)
	require.NoError(t, err)
	assert.Zero(t, msgs)

	msg, err := store.CreateMessage(ctx, &domain.Message{TelegramMessageID: 106, ChatName: "Dark Forum"})
	require.NoError(t, err)
	_, err = store.CreateAlert(ctx, msg, "senha")
	require.NoError(t, err)

	msgs, err = store.CountMessages(ctx)
	require.NoError(t, err)
	alerts, err2 := store.CountAlerts(ctx)
	require.NoError(t, err2)
	assert.Equal(t, int64(1), msgs)
	assert.Equal(t, int64(1), alerts)
}
