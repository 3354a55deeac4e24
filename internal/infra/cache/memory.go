package cache

import (
	"context"
	"sync"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.ResultCache = (*Memory)(nil)

// Memory is the default ResultCache: results live for the client session only.
// History is bounded; the oldest entries fall off once the limit is hit.
type Memory struct {
	mu      sync.Mutex
	current *model.Visualization
	history []*model.Visualization
	limit   int
}

func NewMemory(historyLimit int) *Memory {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &Memory{limit: historyLimit}
}

func (m *Memory) SetCurrent(ctx context.Context, v *model.Visualization) error {
	cp := *v
	m.mu.Lock()
	m.current = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Append(ctx context.Context, v *model.Visualization) error {
	cp := *v
	m.mu.Lock()
	m.history = append(m.history, &cp)
	if len(m.history) > m.limit {
		m.history = m.history[len(m.history)-m.limit:]
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Current(ctx context.Context) (*model.Visualization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, nil
	}
	cp := *m.current
	return &cp, nil
}

func (m *Memory) History(ctx context.Context) ([]*model.Visualization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Visualization, 0, len(m.history))
	for _, v := range m.history {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.history = nil
	m.mu.Unlock()
	return nil
}
