package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/levenlabs/go-lflag"
)

// Storage providers selectable with -storage-provider.
const (
	ProviderMemory    = "memory"
	ProviderFirestore = "firestore"
)

var providers = []string{ProviderMemory, ProviderFirestore}

// Configured sets up the Storage provider based on flags. The memory provider
// keeps only what the running process has seen; firestore survives restarts.
func Configured() Database {
	provider := lflag.String(
		"storage-provider",
		ProviderMemory,
		"Where the latest channel values and status are kept (available: "+strings.Join(providers, ", ")+")",
	)

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		db, err := newProvider(context.Background(), *provider, fs)
		if err != nil {
			panic(err.Error())
		}
		p.Database = db
	})

	return &p
}

// newProvider returns the named provider, initializing fs if it is selected.
func newProvider(ctx context.Context, name string, fs *FirestoreProvider) (Database, error) {
	switch name {
	case ProviderMemory:
		return NewMemory(), nil
	case ProviderFirestore:
		if err := fs.Validate(); err != nil {
			return nil, fmt.Errorf("firestore validation failed: %w", err)
		}
		if err := fs.Init(ctx); err != nil {
			return nil, fmt.Errorf("firestore init failed: %w", err)
		}
		return fs, nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", name)
	}
}
