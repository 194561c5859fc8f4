package bias

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"RTMonitor/internal/model"
)

func writeBiasFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bias file: %v", err)
	}
}

func TestFileProvider_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bias.json")
	writeBiasFile(t, path, `{"EUR_USD": "Up", "GBP_USD": "Down", "USD_JPY": "Hold", "AUD_USD": "garbage"}`)

	got, err := NewFileProvider(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]model.Bias{
		"EUR_USD": model.BiasUp,
		"GBP_USD": model.BiasDown,
		"USD_JPY": model.BiasHold,
		"AUD_USD": model.BiasUnlabeled,
	}
	for instrument, bias := range want {
		if got[instrument] != bias {
			t.Errorf("%s: expected %q, got %q", instrument, bias, got[instrument])
		}
	}
}

func TestFileProvider_MissingFile(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "absent.json"))
	got, err := p.Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty mapping, got %v", got)
	}
}

func TestCache_RefreshOnModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bias.json")
	writeBiasFile(t, path, `{"EUR_USD": "Up"}`)

	cache := NewCache(NewFileProvider(path))
	if got := cache.Lookup("EUR_USD"); got != model.BiasUp {
		t.Fatalf("expected Up, got %q", got)
	}

	writeBiasFile(t, path, `{"EUR_USD": "Down"}`)
	// Ensure the mtime moves forward even on coarse filesystems.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if got := cache.Lookup("EUR_USD"); got != model.BiasDown {
		t.Errorf("expected refreshed Down, got %q", got)
	}
}

func TestCache_UnknownInstrument(t *testing.T) {
	cache := NewCache(NewFileProvider(filepath.Join(t.TempDir(), "absent.json")))
	if got := cache.Lookup("XAU_USD"); got != model.BiasUnlabeled {
		t.Errorf("expected Unlabeled, got %q", got)
	}
}

func TestSQLiteProvider_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bias.db")
	p, err := NewSQLiteProvider(path)
	if err != nil {
		t.Fatalf("open provider: %v", err)
	}
	defer p.Close()

	if err := p.Set("EUR_USD", model.BiasUp); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.Set("EUR_USD", model.BiasDown); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["EUR_USD"] != model.BiasDown {
		t.Errorf("expected Down after upsert, got %q", got["EUR_USD"])
	}
}
