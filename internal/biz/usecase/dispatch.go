package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/metrics"
)

// previewLimit caps the message preview embedded in an alert notification.
const previewLimit = 200

// Dispatcher formats keyword-hit notifications and delivers them to the
// configured alert chat.
type Dispatcher struct {
	notifier    repo.Notifier
	alertChatID int64
	log         zerolog.Logger
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(notifier repo.Notifier, alertChatID int64, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier:    notifier,
		alertChatID: alertChatID,
		log:         log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch sends the notification for one matched message. Delivery is
// fire-and-forget: failures are logged and never reach the caller, so the
// already-committed Message and Alert rows survive a dead notification
// channel.
func (d *Dispatcher) Dispatch(ctx context.Context, chatName string, keywords []string, messageID int64, preview string) {
	d.printBanner(chatName, keywords, messageID)

	text := FormatAlert(chatName, keywords, messageID, preview, time.Now())
	sentID, err := d.notifier.SendText(ctx, d.alertChatID, text)
	if err != nil {
		metrics.DispatchFailures.Inc()
		d.log.Error().Err(err).Int64("message_id", messageID).Msg("failed to deliver alert notification")
		return
	}

	d.log.Info().
		Int64("alert_chat_id", d.alertChatID).
		Int("sent_msg_id", sentID).
		Int64("message_id", messageID).
		Msg("alert notification delivered")
}

// FormatAlert builds the human-readable notification body. The preview is
// capped at 200 characters with an ellipsis marker when truncated; the
// timestamp is rendered at dispatch time.
func FormatAlert(chatName string, keywords []string, messageID int64, preview string, now time.Time) string {
	var b strings.Builder

	b.WriteString("**POSSIBLE LEAK OR EXPOSURE DETECTED**\n\n")
	fmt.Fprintf(&b, "📍 **Group:** %s\n", chatName)
	fmt.Fprintf(&b, "🔍 **Keywords:** %s\n", strings.Join(keywords, ", "))
	fmt.Fprintf(&b, "📝 **Message ID:** %d\n", messageID)

	if preview != "" {
		fmt.Fprintf(&b, "💬 **Content:** %s\n", truncatePreview(preview))
	}

	fmt.Fprintf(&b, "\n⏰ **Timestamp:** %s", now.Format("02/01/2006 15:04:05"))
	return b.String()
}

func truncatePreview(s string) string {
	r := []rune(s)
	if len(r) <= previewLimit {
		return s
	}
	return string(r[:previewLimit]) + "..."
}

// printBanner writes the operator-facing console banner for a hit.
func (d *Dispatcher) printBanner(chatName string, keywords []string, messageID int64) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	red.Println("=========================================")
	red.Println("!!! POSSIBLE LEAK OR EXPOSURE DETECTED !!!")
	yellow.Printf("Group:    %s (Msg ID: %d)\n", chatName, messageID)
	yellow.Printf("Keywords: %s\n", strings.Join(keywords, ", "))
	red.Println("=========================================")
}
