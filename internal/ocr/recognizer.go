package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer turns an image into text.
type Recognizer interface {
	Text(ctx context.Context, image []byte) (string, error)
}

// TesseractRecognizer runs Tesseract through gosseract. It holds one client
// and is not safe for concurrent use.
type TesseractRecognizer struct {
	client *gosseract.Client
}

// NewTesseractRecognizer creates a recognizer for the given languages
// (e.g. "eng").
func NewTesseractRecognizer(languages ...string) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set ocr language: %w", err)
		}
	}
	return &TesseractRecognizer{client: client}, nil
}

// Text recognizes the image. Recognition itself cannot be interrupted, so
// ctx is only checked before starting.
func (r *TesseractRecognizer) Text(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set ocr image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client.
func (r *TesseractRecognizer) Close() error {
	return r.client.Close()
}
