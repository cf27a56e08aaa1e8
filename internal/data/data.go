package data

import (
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
	"github.com/gdlpessoa/telegram-cti-monitoring/ocr"
	"github.com/gdlpessoa/telegram-cti-monitoring/telegram"
)

// Repositories contains all repositories
type Repositories struct {
	Store     repo.MessageStore
	Extractor repo.TextExtractor
	Notifier  repo.Notifier
}

// NewRepositories creates all repositories
func NewRepositories(
	tgClient *telegram.Client,
	ocrClient *ocr.Client,
	dbPath string,
) (*Repositories, error) {
	store, err := NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Store:     store,
		Extractor: NewOCRRepo(ocrClient),
		Notifier:  NewNotifierRepo(tgClient),
	}, nil
}
