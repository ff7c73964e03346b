package store

import (
	"context"
	"sort"
)

// Fake is an in-memory store implementation for unit tests.
type Fake struct {
	// Archives maps archive name to the create/copy source it was made from.
	Archives map[string]string

	// Ops records every mutating call in order, e.g. "create:web1-daily-...".
	Ops []string

	// FailCreate, FailCopy and FailDelete hold names whose operations should
	// fail. FailList makes List fail entirely.
	FailCreate map[string]bool
	FailCopy   map[string]bool
	FailDelete map[string]bool
	FailList   bool
}

func NewFake() *Fake {
	return &Fake{
		Archives:   map[string]string{},
		FailCreate: map[string]bool{},
		FailCopy:   map[string]bool{},
		FailDelete: map[string]bool{},
	}
}

// Seed adds archives to the store without recording ops.
func (f *Fake) Seed(names ...string) *Fake {
	for _, n := range names {
		f.Archives[n] = "seed"
	}
	return f
}

func (f *Fake) List(ctx context.Context) ([]string, error) {
	if f.FailList {
		return nil, &UnavailableError{Cause: errUnreachable}
	}
	names := make([]string, 0, len(f.Archives))
	for n := range f.Archives {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (f *Fake) Create(ctx context.Context, name, sourcePath, opts string) error {
	f.Ops = append(f.Ops, "create:"+name)
	if f.FailCreate[name] {
		return &OpError{Op: "create", Name: name, Cause: errInjected}
	}
	if _, exists := f.Archives[name]; exists {
		// mimic a real store rejecting a duplicate name
		return &OpError{Op: "create", Name: name, Cause: errExists}
	}
	f.Archives[name] = sourcePath
	return nil
}

func (f *Fake) CopyFrom(ctx context.Context, name, sourceName, opts string) error {
	f.Ops = append(f.Ops, "copy:"+name)
	if f.FailCopy[name] {
		return &OpError{Op: "copy", Name: name, Cause: errInjected}
	}
	if _, ok := f.Archives[sourceName]; !ok {
		return &OpError{Op: "copy", Name: name, Cause: errNoSource}
	}
	f.Archives[name] = f.Archives[sourceName]
	return nil
}

func (f *Fake) Delete(ctx context.Context, name string) error {
	f.Ops = append(f.Ops, "delete:"+name)
	if f.FailDelete[name] {
		return &OpError{Op: "delete", Name: name, Cause: errInjected}
	}
	if _, ok := f.Archives[name]; !ok {
		return &OpError{Op: "delete", Name: name, Cause: errNotFound}
	}
	delete(f.Archives, name)
	return nil
}

// Mutations counts mutating calls recorded so far.
func (f *Fake) Mutations() int { return len(f.Ops) }

var (
	errUnreachable = fakeErr("store unreachable")
	errInjected    = fakeErr("injected failure")
	errExists      = fakeErr("archive already exists")
	errNoSource    = fakeErr("copy source not found")
	errNotFound    = fakeErr("archive not found")
)

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
