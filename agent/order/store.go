package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

// FileStore persists confirmed orders as a JSON array. Appends are
// lock-then-read-modify-write guarded by a mutex, and the rewrite goes
// through a temp file plus rename so a crashed write never truncates the
// store. Cross-process locking is out of scope; one process owns the file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens (and creates empty, if absent) the order file at path.
func NewFileStore(path string) (*FileStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("order file path is required")
	}

	s := &FileStore{path: trimmed}
	if err := s.createIfMissing(); err != nil {
		return nil, fmt.Errorf("create order file: %w", err)
	}
	return s, nil
}

func (s *FileStore) createIfMissing() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte("[]"), 0o644)
}

// Append adds one order to the end of the store.
func (s *FileStore) Append(ctx context.Context, o contractx.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAll()
	if err != nil {
		return err
	}
	orders = append(orders, o)
	return s.writeAll(orders)
}

// Last returns the most recently appended order. Insertion order is store
// order; there is no per-session scoping.
func (s *FileStore) Last(ctx context.Context) (contractx.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAll()
	if err != nil {
		return contractx.Order{}, false, err
	}
	if len(orders) == 0 {
		return contractx.Order{}, false, nil
	}
	return orders[len(orders)-1], true, nil
}

// All returns every stored order in insertion order.
func (s *FileStore) All(ctx context.Context) ([]contractx.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *FileStore) readAll() ([]contractx.Order, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read orders: %v", contractx.ErrStore, err)
	}

	var orders []contractx.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("%w: decode orders: %v", contractx.ErrStore, err)
	}
	return orders, nil
}

func (s *FileStore) writeAll(orders []contractx.Order) error {
	payload, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode orders: %v", contractx.ErrStore, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write orders: %v", contractx.ErrStore, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replace order file: %v", contractx.ErrStore, err)
	}
	return nil
}
