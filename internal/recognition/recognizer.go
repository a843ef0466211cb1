// Package recognition defines the contract with the text extraction and
// classification collaborator. The algorithm itself lives outside this
// service; the orchestrator only delegates and records outcomes.
package recognition

import (
	"context"
	"errors"
)

// ErrNotFound signals that the referenced document vanished before
// processing. It is terminal: the job is failed without retry.
var ErrNotFound = errors.New("document not found")

// Result is the classification output persisted on the job for audit.
type Result struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	Pages        int     `json:"pages"`
}

// Recognizer performs text extraction and classification for one document.
// Treated as opaque, possibly slow, and fallible; any error other than
// ErrNotFound is considered transient and retried within the attempts
// budget.
type Recognizer interface {
	Process(ctx context.Context, documentID uint, storageKey string) (Result, error)
}
