package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage/memory"
	kniffelsqlite "github.com/louisbranch/kniffel/internal/services/kniffel/storage/sqlite"
)

// Storage backends selectable through KNIFFEL_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// DefaultDBPath is where the SQLite store lives unless configured otherwise.
var DefaultDBPath = filepath.Join("data", "kniffel.db")

// OpenStore opens the game store of the given kind.
func OpenStore(kind, path string) (storage.GameStore, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", StorageSQLite:
		if strings.TrimSpace(path) == "" {
			path = DefaultDBPath
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := kniffelsqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open kniffel sqlite store: %w", err)
		}
		return store, nil
	case StorageMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("storage %q is not supported", kind)
	}
}
