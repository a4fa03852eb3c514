package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/uhyunpark/liveboard/pkg/app/core/board"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

type NopWAL struct{}

func NewNopWAL() *NopWAL                                   { return &NopWAL{} }
func (w *NopWAL) Append(_ string, _ orderbook.Order) error { return nil }

// FileWAL appends one JSON object per accepted mutation. It is an audit
// trail only; the board is rebuilt from the PebbleStore, not from this file.
type FileWAL struct {
	mu  sync.Mutex
	f   *os.File
	now func() time.Time
}

type walEntry struct {
	Timestamp string          `json:"timestamp"`
	Event     string          `json:"event"`
	Order     orderbook.Order `json:"order"`
}

func NewFileWAL(path string) (*FileWAL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileWAL{f: f, now: time.Now}, nil
}

func (w *FileWAL) Append(event string, o orderbook.Order) error {
	line, err := json.Marshal(walEntry{
		Timestamp: w.now().Format(time.RFC3339),
		Event:     event,
		Order:     o,
	})
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", event, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s entry: %w", event, err)
	}
	return nil
}

func (w *FileWAL) Close() error { return w.f.Close() }

var _ board.AuditLog = (*NopWAL)(nil)
var _ board.AuditLog = (*FileWAL)(nil)
