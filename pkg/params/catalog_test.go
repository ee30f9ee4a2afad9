package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadEventCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.txt")
	content := "# catalog\n200601010000A 10 130 5871\n200702020000B -5 140 5900\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	catalog, err := ReadEventCatalog(path)
	if err != nil {
		t.Fatalf("ReadEventCatalog failed: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 events, got %d", len(catalog))
	}
	pos, ok := catalog["200601010000A"]
	if !ok {
		t.Fatal("expected event 200601010000A in catalog")
	}
	if pos.Latitude != 10 || pos.Longitude != 130 || pos.Radius != 5871 {
		t.Errorf("unexpected hypocenter: %+v", pos)
	}
}

func TestReadEventCatalogRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.txt")
	content := "200601010000A 10 130 5871\n200601010000A 11 131 5872\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	if _, err := ReadEventCatalog(path); err == nil {
		t.Error("expected error for duplicate event ID, got nil")
	}
}
