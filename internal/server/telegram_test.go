package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/usecase"
	"github.com/gdlpessoa/telegram-cti-monitoring/telegram"
)

type mockProcessor struct {
	inbounds []*domain.Inbound
	err      error
}

func (m *mockProcessor) Process(ctx context.Context, in *domain.Inbound) (*usecase.Result, error) {
	m.inbounds = append(m.inbounds, in)
	if m.err != nil {
		return nil, m.err
	}
	return &usecase.Result{MessageID: int64(len(m.inbounds))}, nil
}

func newTestServer(proc Processor) *TelegramServer {
	return NewTelegramServer(nil, proc, zerolog.Nop())
}

func TestHandleMessage_DuplicateIgnored(t *testing.T) {
	proc := &mockProcessor{}
	s := newTestServer(proc)

	msg := &telegram.Message{ID: 5, ChatTitle: "Dark Forum", Text: "hello"}
	s.handleMessage(msg)
	s.handleMessage(msg)

	assert.Len(t, proc.inbounds, 1)
}

func TestHandleMessage_TitleFallback(t *testing.T) {
	proc := &mockProcessor{}
	s := newTestServer(proc)

	s.handleMessage(&telegram.Message{ID: 6, Text: "hello"})

	require.Len(t, proc.inbounds, 1)
	assert.Equal(t, "Private Channel", proc.inbounds[0].ChatName)
}

func TestHandleMessage_PipelineErrorSwallowed(t *testing.T) {
	proc := &mockProcessor{err: errors.New("disk full")}
	s := newTestServer(proc)

	// Must not panic; the next event is still delivered to the pipeline.
	s.handleMessage(&telegram.Message{ID: 7, Text: "first"})
	s.handleMessage(&telegram.Message{ID: 8, Text: "second"})

	assert.Len(t, proc.inbounds, 2)
}

func TestSeenCache_Pruning(t *testing.T) {
	s := newTestServer(&mockProcessor{})

	s.seenMsgs[1] = time.Now().Add(-10 * time.Minute)
	s.markMessageSeen(2)

	assert.False(t, s.isMessageSeen(1))
	assert.True(t, s.isMessageSeen(2))
}
