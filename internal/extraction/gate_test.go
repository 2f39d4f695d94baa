package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

func TestGate_AcquireRelease(t *testing.T) {
	g := NewGate()

	release, err := g.Acquire("session-a")
	require.NoError(t, err)
	assert.True(t, g.inFlight("session-a"))

	_, err = g.Acquire("session-a")
	assert.ErrorIs(t, err, ErrExtractionInFlight)

	other, err := g.Acquire("session-b")
	require.NoError(t, err)
	other()

	release()
	release()
	assert.False(t, g.inFlight("session-a"))

	again, err := g.Acquire("session-a")
	require.NoError(t, err)
	again()
}

// blockingExtractor waits until released so tests can observe the gate mid-call.
type blockingExtractor struct {
	started chan struct{}
	proceed chan struct{}
	err     error
}

func (b *blockingExtractor) Extract(ctx context.Context, req Request) (domain.AnalysisResult, error) {
	close(b.started)
	<-b.proceed
	if b.err != nil {
		return nil, b.err
	}
	return &domain.StatementResult{}, nil
}

func TestGate_ExtractRejectsConcurrentRequest(t *testing.T) {
	g := NewGate()
	ex := &blockingExtractor{started: make(chan struct{}), proceed: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := g.Extract(context.Background(), "s", ex, pdfRequest(domain.Statement))
		done <- err
	}()
	<-ex.started

	_, err := g.Extract(context.Background(), "s", ex, pdfRequest(domain.Statement))
	assert.ErrorIs(t, err, ErrExtractionInFlight)

	close(ex.proceed)
	require.NoError(t, <-done)
	assert.False(t, g.inFlight("s"))
}

func TestGate_ExtractReleasesOnError(t *testing.T) {
	g := NewGate()
	ex := &blockingExtractor{
		started: make(chan struct{}),
		proceed: make(chan struct{}),
		err:     NewTransportError(domain.Statement, errors.New("boom")),
	}
	close(ex.proceed)

	_, err := g.Extract(context.Background(), "s", ex, pdfRequest(domain.Statement))
	assert.True(t, IsKind(err, ErrorKindTransportOrService))
	assert.False(t, g.inFlight("s"))
}
