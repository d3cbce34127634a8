// Package snapshot holds the last good copy of the row store in memory and
// keeps it fresh on a timer. A failed refresh never clears what is held.
package snapshot

import (
	"sync"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/punctuality"
)

// Cache is the in-memory snapshot. Slices handed out are shared and must be
// treated as read-only; refreshes replace them wholesale.
type Cache struct {
	mu sync.RWMutex

	rows       []punctuality.SnapshotRow
	rowsLoaded bool
	rowsAt     time.Time

	history       []punctuality.WeeklyHistoryItem
	historyLoaded bool
	historyAt     time.Time
}

func NewCache() *Cache {
	return &Cache{}
}

// Rows returns the held rows and whether any fetch has ever succeeded.
func (c *Cache) Rows() ([]punctuality.SnapshotRow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rows, c.rowsLoaded
}

// RowCount returns the number of held rows.
func (c *Cache) RowCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// History returns the held weekly items and whether any fetch has ever succeeded.
func (c *Cache) History() ([]punctuality.WeeklyHistoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.history, c.historyLoaded
}

// SetRows replaces the held rows.
func (c *Cache) SetRows(rows []punctuality.SnapshotRow, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rows == nil {
		rows = []punctuality.SnapshotRow{}
	}
	c.rows = rows
	c.rowsLoaded = true
	c.rowsAt = at
}

// SetHistory replaces the held weekly items.
func (c *Cache) SetHistory(items []punctuality.WeeklyHistoryItem, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []punctuality.WeeklyHistoryItem{}
	}
	c.history = items
	c.historyLoaded = true
	c.historyAt = at
}

// Freshness reports when each source was last replaced. Zero times mean never.
type Freshness struct {
	RowsLoaded    bool
	RowsAt        time.Time
	HistoryLoaded bool
	HistoryAt     time.Time
}

func (c *Cache) Freshness() Freshness {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Freshness{
		RowsLoaded:    c.rowsLoaded,
		RowsAt:        c.rowsAt,
		HistoryLoaded: c.historyLoaded,
		HistoryAt:     c.historyAt,
	}
}
