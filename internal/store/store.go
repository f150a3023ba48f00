package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/store/jsonstore"
	"github.com/Makepad-fr/spin/internal/store/sqlitestore"
)

// HistoryKey is the single durable key the history lives under.
const HistoryKey = "spinHistory"

// KV is a durable string key-value store.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Open picks a backend by name: "json" (default) or "sqlite".
func Open(driver, dir string) (KV, error) {
	switch strings.ToLower(driver) {
	case "", "json":
		s, err := jsonstore.Open(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlitestore.Open(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store %q (want json or sqlite)", driver)
}

// History keeps the spin history in a KV as a JSON array.
type History struct {
	kv KV
}

func NewHistory(kv KV) *History { return &History{kv: kv} }

// LoadHistory returns an empty history when nothing was saved yet. A value
// that does not parse yields an empty history and the parse error.
func (h *History) LoadHistory() (model.History, error) {
	raw, ok, err := h.kv.Get(HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", HistoryKey, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return model.History{}, nil
	}
	var out model.History
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return model.History{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return out.Trim(), nil
}

func (h *History) SaveHistory(hist model.History) error {
	if hist == nil {
		hist = model.History{}
	}
	b, err := json.Marshal(hist)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := h.kv.Set(HistoryKey, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", HistoryKey, err)
	}
	return nil
}
