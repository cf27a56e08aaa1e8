package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/metrics"
)

// Pipeline drives one inbound message through OCR, normalization, storage,
// keyword matching, and alerting. Events are processed serially; the
// pipeline keeps no per-event state between calls.
type Pipeline struct {
	store      repo.MessageStore
	extractor  repo.TextExtractor
	dispatcher *Dispatcher
	keywords   domain.KeywordSet
	log        zerolog.Logger
}

// NewPipeline creates a new pipeline
func NewPipeline(
	store repo.MessageStore,
	extractor repo.TextExtractor,
	dispatcher *Dispatcher,
	keywords domain.KeywordSet,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		store:      store,
		extractor:  extractor,
		dispatcher: dispatcher,
		keywords:   keywords,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// Result summarizes one processed event.
type Result struct {
	MessageID int64
	Matched   []string
	Alerted   bool
}

// Process handles one inbound event to completion. The returned error is
// non-nil only when the message row could not be stored; every failure
// after that point is contained here so the committed row survives and the
// caller's event loop keeps running.
func (p *Pipeline) Process(ctx context.Context, in *domain.Inbound) (*Result, error) {
	metrics.MessagesProcessed.Inc()

	// OCR failure is not pipeline failure: degrade to empty text.
	ocrText := ""
	if len(in.ImageData) > 0 {
		text, err := p.extractor.ExtractText(ctx, in.ImageData)
		if err != nil {
			metrics.OCRFailures.Inc()
			p.log.Error().Err(err).
				Int64("telegram_message_id", in.TelegramMessageID).
				Msg("ocr failed, continuing without image text")
		} else {
			ocrText = text
		}
	}

	normalized := domain.Normalize(in.Text, ocrText)

	msg := &domain.Message{
		TelegramMessageID: in.TelegramMessageID,
		ChatName:          in.ChatName,
		Content:           in.Text,
		HasImage:          in.HasImage,
		OCRText:           strings.TrimSpace(ocrText),
	}
	stored, err := p.store.CreateMessage(ctx, msg)
	if err != nil {
		metrics.StoreFailures.Inc()
		p.log.Error().Err(err).
			Int64("telegram_message_id", in.TelegramMessageID).
			Msg("failed to store message, dropping event")
		return nil, fmt.Errorf("store message %d: %w", in.TelegramMessageID, err)
	}
	metrics.MessagesStored.Inc()
	p.log.Debug().Int64("message_id", stored.ID).Str("chat", stored.ChatName).Msg("message stored")

	matched := p.keywords.Match(normalized)
	result := &Result{MessageID: stored.ID, Matched: matched}
	if len(matched) == 0 {
		return result, nil
	}

	// Fold all matches into a single alert row.
	summary := strings.Join(matched, ", ")
	if _, err := p.store.CreateAlert(ctx, stored, summary); err != nil {
		metrics.StoreFailures.Inc()
		p.log.Error().Err(err).
			Int64("message_id", stored.ID).
			Msg("failed to store alert, message row kept")
		return result, nil
	}
	metrics.AlertsRaised.Inc()
	result.Alerted = true
	p.log.Warn().
		Int64("message_id", stored.ID).
		Str("keywords", summary).
		Str("chat", stored.ChatName).
		Msg("keyword alert raised")

	// Dispatcher isolates its own delivery failures.
	p.dispatcher.Dispatch(ctx, in.ChatName, matched, stored.ID, in.Text)

	return result, nil
}
