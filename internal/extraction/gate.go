package extraction

import (
	"context"
	"errors"
	"sync"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

// ErrExtractionInFlight is returned by Gate.Acquire while the session already
// has an extraction running.
var ErrExtractionInFlight = errors.New("an analysis is already in progress for this session")

// Gate allows at most one extraction per session at a time. A second request
// is rejected rather than queued.
type Gate struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{active: make(map[string]struct{})}
}

// Acquire marks sessionID busy. The returned release function frees it and
// may be called more than once.
func (g *Gate) Acquire(sessionID string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[sessionID]; busy {
		return nil, ErrExtractionInFlight
	}
	g.active[sessionID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, sessionID)
			g.mu.Unlock()
		})
	}, nil
}

// inFlight reports whether sessionID currently holds the gate.
func (g *Gate) inFlight(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[sessionID]
	return busy
}

// Extract runs ex.Extract while holding the gate for sessionID. The gate is
// released whether the extraction succeeds or fails.
func (g *Gate) Extract(ctx context.Context, sessionID string, ex Extractor, req Request) (domain.AnalysisResult, error) {
	release, err := g.Acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	return ex.Extract(ctx, req)
}
