package repo

import "context"

// TextExtractor pulls text out of raw image bytes.
// Implementations return lowercase text and must never panic; the caller
// degrades any error to empty text, so a broken OCR engine cannot take a
// message down with it.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
