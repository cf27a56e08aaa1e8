package data

import (
	"context"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
	"github.com/gdlpessoa/telegram-cti-monitoring/telegram"
)

// telegramRepo implements the notifier over the Telegram client.
type telegramRepo struct {
	client *telegram.Client
}

// NewNotifierRepo creates a new notifier repository
func NewNotifierRepo(client *telegram.Client) repo.Notifier {
	return &telegramRepo{client: client}
}

// SendText sends text to chatID and returns the sent message ID.
func (r *telegramRepo) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	return r.client.SendText(ctx, chatID, text)
}
