// Package ledger is the on-device fallback journal for orders that could not
// be written to the remote store. It holds a single JSON document (an array
// of orders) and rewrites it whole on every mutation.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/model"
)

type Ledger struct {
	path string
	log  *zap.Logger

	// mu makes every mutation a full read-modify-write. Two goroutines
	// falling back at the same time must both end up in the file.
	mu sync.Mutex
}

func New(path string, log *zap.Logger) *Ledger {
	return &Ledger{path: path, log: log}
}

// Load returns every journaled order, newest first. A missing or corrupt
// file reads as empty; the ledger is a best-effort store and must never
// fail a read path.
func (l *Ledger) Load() []model.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Ledger) load() []model.Order {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn("ledger read failed", zap.String("path", l.path), zap.Error(err))
		}
		return nil
	}

	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		l.log.Warn("ledger is corrupt, treating as empty", zap.String("path", l.path), zap.Error(err))
		return nil
	}

	for i := range orders {
		orders[i].Unsynced = true
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Timestamp.After(orders[j].Timestamp)
	})
	return orders
}

// Append journals one order.
func (l *Ledger) Append(o model.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders := l.load()
	o.Unsynced = true
	orders = append(orders, o)
	return l.write(orders)
}

// PatchRefundStatus updates the refund status of a journaled order in place.
// Patching an order that is not in the ledger is not an error; the caller is
// already on a degraded path.
func (l *Ledger) PatchRefundStatus(orderID string, status model.RefundStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders := l.load()
	for i := range orders {
		if orders[i].ID == orderID {
			orders[i].RefundStatus = status
		}
	}
	return l.write(orders)
}

func (l *Ledger) write(orders []model.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	// Whole-file replace via rename so a crash mid-write leaves the old
	// journal intact.
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
