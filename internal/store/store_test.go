package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/store"
)

func openStore(t *testing.T, driver string) store.KV {
	t.Helper()
	kv, err := store.Open(driver, t.TempDir())
	if err != nil {
		t.Fatalf("open %s: %v", driver, err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := store.Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestHistory_RoundTrip(t *testing.T) {
	for _, driver := range []string{"json", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			h := store.NewHistory(openStore(t, driver))

			got, err := h.LoadHistory()
			if err != nil {
				t.Fatalf("load empty: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty history, got %+v", got)
			}

			want := model.History{
				{Number: 7, Timestamp: "2025-03-01T12:00:03Z", Mode: model.ModeElimination},
				{Number: 3, Timestamp: "2025-03-01T11:59:00Z", Mode: model.ModeNormal},
			}
			if err := h.SaveHistory(want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err = h.LoadHistory()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
				t.Errorf("got %+v, want %+v", got, want)
			}

			if err := h.SaveHistory(nil); err != nil {
				t.Fatalf("save empty: %v", err)
			}
			got, _ = h.LoadHistory()
			if len(got) != 0 {
				t.Errorf("expected cleared history, got %+v", got)
			}
		})
	}
}

func TestHistory_TrimsOversizedValue(t *testing.T) {
	kv := openStore(t, "json")
	big := make(model.History, 14)
	for i := range big {
		big[i] = model.SpinRecord{Number: i, Mode: model.ModeNormal}
	}
	h := store.NewHistory(kv)
	if err := h.SaveHistory(big); err != nil {
		t.Fatal(err)
	}
	got, err := h.LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != model.HistoryLimit || got[0].Number != 0 {
		t.Errorf("unexpected trimmed history %+v", got)
	}
}

func TestHistory_CorruptValue(t *testing.T) {
	kv := openStore(t, "sqlite")
	if err := kv.Set(store.HistoryKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	got, err := store.NewHistory(kv).LoadHistory()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if len(got) != 0 {
		t.Errorf("expected empty history on error, got %+v", got)
	}
}

func TestHistory_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	kv, err := store.Open("json", dir)
	if err != nil {
		t.Fatal(err)
	}
	rec := model.SpinRecord{Number: 42, Timestamp: "2025-03-01T12:00:00Z", Mode: model.ModeNormal}
	if err := store.NewHistory(kv).SaveHistory(model.History{rec}); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	if _, err := os.Stat(filepath.Join(dir, "store.json")); err != nil {
		t.Fatalf("expected store.json: %v", err)
	}

	kv2, err := store.Open("json", dir)
	if err != nil {
		t.Fatal(err)
	}
	defer kv2.Close()
	got, err := store.NewHistory(kv2).LoadHistory()
	if err != nil || len(got) != 1 || got[0] != rec {
		t.Errorf("got %+v (%v)", got, err)
	}
}
