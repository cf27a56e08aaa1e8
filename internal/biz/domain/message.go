package domain

import "time"

// Message is the persisted record of one observed Telegram message.
// Rows are append-only: created once per processed event, never updated.
type Message struct {
	ID                int64
	TelegramMessageID int64
	ChatName          string
	Content           string // raw text body, empty when the message had none
	HasImage          bool
	OCRText           string // lowercase trimmed OCR output, empty when absent
	Timestamp         time.Time
}

// Alert records a keyword hit on a stored message. At most one alert exists
// per message; all keywords found in that message are folded into the
// summary.
type Alert struct {
	ID           int64
	MessageID    int64
	KeywordFound string // comma-joined list of every keyword matched
	Timestamp    time.Time
}

// Inbound is the normalized view of one platform event as consumed by the
// pipeline. ImageData is nil when the message carried no photo or the
// download failed; HasImage reflects photo presence regardless.
type Inbound struct {
	TelegramMessageID int64
	ChatName          string
	Text              string
	HasImage          bool
	ImageData         []byte
}
