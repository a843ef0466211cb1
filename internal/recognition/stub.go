package recognition

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/caseflow/caseflow/internal/logger"
)

// StubRecognizer simulates the recognition collaborator for local runs and
// demos. It classifies by file extension after a short artificial delay.
type StubRecognizer struct {
	Delay time.Duration
}

func NewStubRecognizer() *StubRecognizer {
	return &StubRecognizer{Delay: 100 * time.Millisecond}
}

var _ Recognizer = (*StubRecognizer)(nil)

func (s *StubRecognizer) Process(ctx context.Context, documentID uint, storageKey string) (Result, error) {
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	docType := "other"
	switch strings.ToLower(path.Ext(storageKey)) {
	case ".pdf":
		docType = "pdf_document"
	case ".png", ".jpg", ".jpeg", ".tiff":
		docType = "scanned_image"
	case ".txt":
		docType = "plain_text"
	}

	logger.Debugf("stub recognizer classified document %d as %s", documentID, docType)

	return Result{
		DocumentType: docType,
		Confidence:   0.9,
		Pages:        1,
	}, nil
}
