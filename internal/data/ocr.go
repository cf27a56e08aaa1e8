package data

import (
	"context"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/repo"
	"github.com/gdlpessoa/telegram-cti-monitoring/ocr"
)

// ocrRepo implements the OCR text extractor over the Tesseract client.
type ocrRepo struct {
	client *ocr.Client
}

// NewOCRRepo creates a new OCR repository
func NewOCRRepo(client *ocr.Client) repo.TextExtractor {
	return &ocrRepo{client: client}
}

// ExtractText runs OCR on the image. Tesseract is a blocking native call
// the context cannot interrupt, so a canceled context only fails fast
// before the run starts.
func (r *ocrRepo) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.client.ExtractText(image)
}
