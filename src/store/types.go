package store

import "context"

// Client is a narrow interface over the external archive store. Keep it small
// and focused on the four primitives the rotation needs so it stays mockable.
//
// The store is a black box: compression, deduplication, encryption and
// transport are its business. All calls are synchronous and unretried.
type Client interface {
	// List returns the names of every archive currently in the store.
	List(ctx context.Context) ([]string, error)

	// Create archives sourcePath under the given name.
	Create(ctx context.Context, name, sourcePath, opts string) error

	// CopyFrom duplicates an existing archive store-side under a new name,
	// without re-reading the original filesystem data.
	CopyFrom(ctx context.Context, name, sourceName, opts string) error

	// Delete removes the named archive.
	Delete(ctx context.Context, name string) error
}

// UnavailableError indicates the store could not be reached at all
// (connectivity or auth failure on List). It is fatal for the run.
type UnavailableError struct{ Cause error }

func (e *UnavailableError) Error() string { return "archive store unavailable: " + e.Cause.Error() }
func (e *UnavailableError) Unwrap() error { return e.Cause }

// OpError is a single failed create/copy/delete operation. Non-fatal: the
// caller logs it and carries on.
type OpError struct {
	Op     string // "create", "copy", "delete"
	Name   string
	Detail string
	Cause  error
}

func (e *OpError) Error() string {
	msg := "store " + e.Op + " " + e.Name + ": " + e.Cause.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Cause }
