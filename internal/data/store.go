package data

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/domain"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
)

// gormStore implements repo.MessageStore on SQLite via GORM.
type gormStore struct {
	db *gorm.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and runs
// migrations. The connection is not safe for parallel writers; the pipeline
// accesses it serially.
func NewStore(dbPath string) (repo.MessageStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&MessageModel{}, &AlertModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &gormStore{db: db}, nil
}

// CreateMessage persists one message row and returns it with the generated
// ID and creation timestamp filled in.
func (s *gormStore) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	m := &MessageModel{
		TelegramMessageID: msg.TelegramMessageID,
		ChatName:          msg.ChatName,
		Content:           nullable(msg.Content),
		HasImage:          msg.HasImage,
		OCRText:           nullable(msg.OCRText),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return toDomainMessage(m), nil
}

// CreateAlert persists the alert linked to an already-stored message.
func (s *gormStore) CreateAlert(ctx context.Context, msg *domain.Message, keywordSummary string) (*domain.Alert, error) {
	a := &AlertModel{
		MessageID:    msg.ID,
		KeywordFound: keywordSummary,
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	return &domain.Alert{
		ID:           a.ID,
		MessageID:    a.MessageID,
		KeywordFound: a.KeywordFound,
		Timestamp:    a.Timestamp,
	}, nil
}

// CountMessages returns the total number of stored messages.
func (s *gormStore) CountMessages(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&MessageModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// CountAlerts returns the total number of stored alerts.
func (s *gormStore) CountAlerts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&AlertModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// nullable maps the empty string to NULL so absent text is distinguishable
// from an empty message body.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainMessage(m *MessageModel) *domain.Message {
	return &domain.Message{
		ID:                m.ID,
		TelegramMessageID: m.TelegramMessageID,
		ChatName:          m.ChatName,
		Content:           deref(m.Content),
		HasImage:          m.HasImage,
		OCRText:           deref(m.OCRText),
		Timestamp:         m.Timestamp,
	}
}
