package leads

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "leads.json")

	store := NewFileStateStore(path)
	if err := store.Set(StateKey, `{"quality":"высокий"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(DarkModeKey, "true"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reloaded := NewFileStateStore(path)
	value, ok := reloaded.Get(StateKey)
	if !ok || value != `{"quality":"высокий"}` {
		t.Fatalf("unexpected reloaded value %q (ok=%v)", value, ok)
	}
	if !ReadDarkMode(reloaded) {
		t.Fatal("expected dark mode to survive reload")
	}
}

func TestFileStateStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	store := NewFileStateStore(path)
	if err := store.Set(AuthSessionKey, "token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(AuthSessionKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := NewFileStateStore(path).Get(AuthSessionKey); ok {
		t.Fatal("expected key to stay deleted after reload")
	}
}

func TestFileStateStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store := NewFileStateStore(path)
	if _, ok := store.Get(StateKey); ok {
		t.Fatal("expected empty store for corrupt file")
	}
	if err := store.Set(StateKey, "{}"); err != nil {
		t.Fatalf("set after corrupt load: %v", err)
	}
}

func TestWriteDarkModeNilStorage(t *testing.T) {
	if err := WriteDarkMode(nil, true); err != nil {
		t.Fatalf("expected nil storage to be a no-op, got %v", err)
	}
	if ReadDarkMode(nil) {
		t.Fatal("expected false for nil storage")
	}
}
