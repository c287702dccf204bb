package repositories

import "context"

// KVStore is the generic persistence contract every service speaks: JSON
// values addressed by namespaced string keys, the local analogue of a browser
// localStorage wrapper. Implementations must treat a missing key and an
// unreadable value the same way — (false, nil) — so stored corruption never
// surfaces as an operation error; real I/O failures do return errors.
type KVStore interface {
	// Load reads the value at key into out, reporting whether a usable
	// value was present.
	Load(ctx context.Context, key string, out any) (bool, error)

	// Save marshals value and writes it at key, replacing any prior value.
	Save(ctx context.Context, key string, value any) error

	// Delete removes the value at key; deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// NewID returns a fresh prefixed identifier, e.g. NewID("acc") ->
	// "acc_8f14e45f...".
	NewID(prefix string) string
}
