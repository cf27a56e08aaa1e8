// Package ocr wraps the Tesseract engine behind a small client.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client runs Tesseract over in-memory images.
type Client struct {
	language string
}

// NewClient creates an OCR client for the given Tesseract language code.
func NewClient(language string) *Client {
	if language == "" {
		language = "por"
	}
	return &Client{language: language}
}

// ExtractText runs OCR on raw image bytes and returns the extracted text in
// lowercase. A fresh Tesseract handle is used per call; the native client is
// not safe to share.
func (c *Client) ExtractText(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.language); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}
	return strings.ToLower(text), nil
}
