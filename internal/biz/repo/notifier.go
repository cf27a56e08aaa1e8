package repo

import "context"

// Notifier delivers outbound text to a Telegram chat.
type Notifier interface {
	// SendText sends text to chatID and returns the ID of the sent message
	// as the delivery acknowledgment.
	SendText(ctx context.Context, chatID int64, text string) (int, error)
}
