package cli

import (
	"snaprotate/src/config"
	"snaprotate/src/store"
)

// newStoreClient builds the archive store client for a loaded configuration.
// Swappable so CLI tests can run against the in-memory fake.
var newStoreClient = func(cfg *config.Config) store.Client {
	return store.NewExec(cfg.Store.Command)
}

// SetStoreClientForTest replaces the store client constructor and returns a
// reset function.
func SetStoreClientForTest(fn func(*config.Config) store.Client) func() {
	prev := newStoreClient
	newStoreClient = fn
	return func() { newStoreClient = prev }
}
