package journal

import (
	"context"
	"sync"
)

// Memory is the in-process journal used by backtests and tests. Safe for
// concurrent writers so per-symbol runs may be parallelized.
type Memory struct {
	mu     sync.Mutex
	trades []TradeRecord
}

// NewMemory returns an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// LogTrade appends the trade.
func (m *Memory) LogTrade(_ context.Context, trade TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, trade)
	return nil
}

// Trades returns a copy of everything logged so far.
func (m *Memory) Trades(_ context.Context) ([]TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TradeRecord, len(m.trades))
	copy(out, m.trades)
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
