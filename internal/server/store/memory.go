package store

import (
	"context"
	"sync"
)

// MemoryStore keeps tables in process memory. It serialises individual
// primitives only; like every backend it offers no multi-call atomicity.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[Table][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[Table][][]string)}
}

// Seed appends rows without validation hooks; used to load the historical
// base and fixtures.
func (m *MemoryStore) Seed(t Table, rows ...[]string) error {
	for _, r := range rows {
		if err := m.AppendRow(context.Background(), t, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Scan(ctx context.Context, t Table) ([]Row, error) {
	if _, err := width(t); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.tables[t]
	rows := make([]Row, len(src))
	for i, cells := range src {
		rows[i] = Row{Address: RowAddress(i), Cells: append([]string(nil), cells...)}
	}
	return rows, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, t Table, row []string) error {
	cells, err := normalize(t, row)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t] = append(m.tables[t], cells)
	return nil
}

func (m *MemoryStore) UpdateRow(ctx context.Context, t Table, addr RowAddress, row []string) error {
	cells, err := normalize(t, row)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[t]
	if addr < 0 || int(addr) >= len(rows) {
		return errNoRow(t, addr)
	}
	rows[addr] = cells
	return nil
}

func (m *MemoryStore) UpdateCellRange(ctx context.Context, t Table, addr RowAddress, cols ColumnRange, values []string) error {
	if err := checkRange(t, cols, values); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[t]
	if addr < 0 || int(addr) >= len(rows) {
		return errNoRow(t, addr)
	}
	copy(rows[addr][cols.Start:cols.End], values)
	return nil
}
