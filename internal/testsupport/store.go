package testsupport

import (
	"context"
	"testing"

	"corpusprep/internal/vocabstore"
)

// MustOpenStore opens a vocabstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *vocabstore.Store {
	t.Helper()

	store, err := vocabstore.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("vocabstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
