// Package hook runs the configured pre/post backup hooks.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Error is a fatal hook problem: the configured hook is missing or not
// executable, or the pre-backup hook failed.
type Error struct {
	Path  string
	Cause error
}

func (e *Error) Error() string { return fmt.Sprintf("hook %s: %v", e.Path, e.Cause) }
func (e *Error) Unwrap() error { return e.Cause }

// Validate checks that path names an existing executable file. An empty path
// (hook not configured) is valid.
func Validate(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return &Error{Path: path, Cause: err}
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return &Error{Path: path, Cause: fmt.Errorf("not an executable file")}
	}
	return nil
}

// Run executes the hook at path with the given arguments, inheriting the
// process stdio. A nil return for an empty path lets callers invoke hooks
// unconditionally.
func Run(ctx context.Context, path string, args ...string) error {
	if path == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &Error{Path: path, Cause: err}
	}
	return nil
}
