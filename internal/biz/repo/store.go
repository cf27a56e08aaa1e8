package repo

import (
	"context"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
)

// MessageStore is the persistence gateway.
// Both create operations are atomic (commit-or-fail) and return the stored
// record with its generated identifier and creation timestamp populated.
type MessageStore interface {
	// CreateMessage persists one message row. The Telegram message ID
	// carries a unique index, so redelivery of the same platform event
	// fails here instead of creating a second row.
	CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error)

	// CreateAlert persists the alert linked to an already-stored message.
	CreateAlert(ctx context.Context, msg *domain.Message, keywordSummary string) (*domain.Alert, error)

	// CountMessages returns the total number of stored messages.
	CountMessages(ctx context.Context) (int64, error)

	// CountAlerts returns the total number of stored alerts.
	CountAlerts(ctx context.Context) (int64, error)

	Close() error
}
