package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/usecase"
	"github.com/gdlpessoa/telegram-cti-monitoring/telegram"
)

// privateChatName is the source name recorded when a chat has no title.
const privateChatName = "Private Channel"

// seenTTL bounds the in-memory duplicate-delivery cache. Anything older
// falls through to the database unique index.
const seenTTL = 5 * time.Minute

// Processor handles one inbound event.
type Processor interface {
	Process(ctx context.Context, in *domain.Inbound) (*usecase.Result, error)
}

// TelegramServer receives platform events and drives the pipeline. Events
// are handled serially: one message is processed to completion before the
// next begins.
type TelegramServer struct {
	client   *telegram.Client
	pipeline Processor
	log      zerolog.Logger

	// Message deduplication cache
	seenMsgsMu sync.RWMutex
	seenMsgs   map[int64]time.Time // telegram msg ID -> first seen
}

// NewTelegramServer creates a new Telegram server
func NewTelegramServer(client *telegram.Client, pipeline Processor, log zerolog.Logger) *TelegramServer {
	return &TelegramServer{
		client:   client,
		pipeline: pipeline,
		log:      log.With().Str("component", "server").Logger(),
		seenMsgs: make(map[int64]time.Time),
	}
}

// Start registers the message handler and runs the client until ctx is
// canceled.
func (s *TelegramServer) Start(ctx context.Context) error {
	s.client.OnMessage(s.handleMessage)
	return s.client.Start(ctx)
}

// Stop stops the server
func (s *TelegramServer) Stop() {
	s.client.Stop()
}

// handleMessage handles one Telegram message. No failure may escape here:
// the client's update loop must keep receiving future events.
func (s *TelegramServer) handleMessage(msg *telegram.Message) {
	if s.isMessageSeen(msg.ID) {
		s.log.Debug().Int64("telegram_message_id", msg.ID).Msg("duplicate message ignored")
		return
	}
	s.markMessageSeen(msg.ID)

	ctx := context.Background()

	chatName := msg.ChatTitle
	if chatName == "" {
		chatName = privateChatName
	}
	s.log.Info().Str("chat", chatName).Int64("telegram_message_id", msg.ID).Msg("new message")

	in := &domain.Inbound{
		TelegramMessageID: msg.ID,
		ChatName:          chatName,
		Text:              msg.Text,
		HasImage:          msg.HasPhoto,
	}

	if msg.HasPhoto {
		s.log.Debug().Int64("telegram_message_id", msg.ID).Msg("downloading image for ocr analysis")
		data, err := s.client.DownloadPhoto(ctx, msg)
		if err != nil {
			s.log.Error().Err(err).
				Int64("telegram_message_id", msg.ID).
				Msg("failed to download image, processing text only")
		} else {
			in.ImageData = data
		}
	}

	if _, err := s.pipeline.Process(ctx, in); err != nil {
		s.log.Error().Err(err).Int64("telegram_message_id", msg.ID).Msg("message dropped")
	}
}

// isMessageSeen checks if a message has been processed
func (s *TelegramServer) isMessageSeen(msgID int64) bool {
	s.seenMsgsMu.RLock()
	defer s.seenMsgsMu.RUnlock()
	_, exists := s.seenMsgs[msgID]
	return exists
}

// markMessageSeen marks a message as processed and prunes expired entries
// so the cache cannot grow without bound.
func (s *TelegramServer) markMessageSeen(msgID int64) {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	s.seenMsgs[msgID] = time.Now()

	cutoff := time.Now().Add(-seenTTL)
	for id, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, id)
		}
	}
}
