package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-analyzer/internal/domain"
	"github.com/dvloznov/finance-analyzer/internal/extraction"
)

// fakeSource serves a single object from memory.
type fakeSource struct {
	data        []byte
	contentType string
	err         error
	fetched     string
}

func (f *fakeSource) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	f.fetched = uri
	return f.data, f.contentType, f.err
}

func TestLoadDocument_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	req, err := loadDocument(context.Background(), nil, domain.Statement, path, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Statement, req.Kind)
	assert.Equal(t, "application/pdf", req.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), req.Data)
}

func TestLoadDocument_GCS(t *testing.T) {
	src := &fakeSource{data: []byte("\x89PNG\r\n\x1a\n...."), contentType: ""}

	req, err := loadDocument(context.Background(), src, domain.Payslip, "", "gs://bucket/2024/payslip.png")
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/2024/payslip.png", src.fetched)
	assert.Equal(t, "image/png", req.MIMEType)
}

func TestLoadDocument_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := loadDocument(ctx, nil, domain.Statement, "", "")
	assert.Error(t, err)

	_, err = loadDocument(ctx, &fakeSource{}, domain.Statement, "a.pdf", "gs://b/a.pdf")
	assert.Error(t, err)

	_, err = loadDocument(ctx, &fakeSource{}, domain.Statement, "", "gs://bucket")
	assert.Error(t, err)

	_, err = loadDocument(ctx, &fakeSource{err: errors.New("403")}, domain.Statement, "", "gs://b/a.pdf")
	assert.Error(t, err)

	_, err = loadDocument(ctx, &fakeSource{data: []byte("hello"), contentType: "text/plain"}, domain.Statement, "", "gs://b/a.txt")
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = loadDocument(ctx, nil, domain.Statement, empty, "")
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	result := &domain.PayslipResult{Deductions: []domain.Deduction{}, Insights: []string{}}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, result, true))
	assert.Contains(t, buf.String(), `"type": "payslip"`)

	buf.Reset()
	require.NoError(t, writeResult(&buf, result, false))
	assert.Contains(t, buf.String(), "PAYSLIP")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(extraction.NewMissingCredentialError(domain.Statement)))
	assert.Equal(t, 3, exitCode(extraction.NewMalformedResponseError(domain.Statement, "", nil)))
	assert.Equal(t, 1, exitCode(extraction.NewSafetyRejectedError(domain.Statement, nil)))
	assert.Equal(t, 1, exitCode(errors.New("other")))
}
