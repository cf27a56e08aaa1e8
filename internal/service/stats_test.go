package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
)

type countingStore struct {
	calls atomic.Int64
}

func (c *countingStore) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	return msg, nil
}

func (c *countingStore) CreateAlert(ctx context.Context, msg *domain.Message, keywordSummary string) (*domain.Alert, error) {
	return &domain.Alert{}, nil
}

func (c *countingStore) CountMessages(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, nil
}

func (c *countingStore) CountAlerts(ctx context.Context) (int64, error) {
	return 0, nil
}

func (c *countingStore) Close() error { return nil }

func TestStatsReporter_Disabled(t *testing.T) {
	s := NewStatsReporter(&countingStore{}, 0, zerolog.Nop())
	s.Start(context.Background())
	// Stop without a running loop must not hang or panic.
	s.Stop()
}

func TestStatsReporter_Reports(t *testing.T) {
	store := &countingStore{}
	s := NewStatsReporter(store, 10*time.Millisecond, zerolog.Nop())

	s.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	assert.Positive(t, store.calls.Load())
}
