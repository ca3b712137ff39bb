package store

import "fmt"

// Backends lists the names accepted by New.
var Backends = []string{"memory", "sqlite"}

// New creates an empty Store based on the backend name.
//
// Supported backends:
//
//	"memory" - slice in process memory (default)
//	"sqlite" - private in-memory SQLite database
func New(backend string) (Store, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSqliteStore()
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: memory, sqlite)", backend)
	}
}
