// Package gcs reads documents from Google Cloud Storage.
package gcs

import (
	"context"
	"path"
)

// DocumentSource fetches a document by URI.
// This interface enables mocking of storage reads in CLI tests.
type DocumentSource interface {
	// Fetch returns the object bytes and its stored content type ("" if unset).
	Fetch(ctx context.Context, uri string) ([]byte, string, error)
}

// Object identifies a GCS object.
type Object struct {
	Bucket string
	Path   string
}

// Filename returns the last path element of the object.
// e.g., "folder/payslip.pdf" → "payslip.pdf"
func (o Object) Filename() string {
	return path.Base(o.Path)
}
