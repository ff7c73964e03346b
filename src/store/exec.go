package store

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// ExecClient drives an external archiver binary. The binary is expected to
// understand four subcommands:
//
//	<bin> [opts...] list
//	<bin> [opts...] create <name> <path>
//	<bin> [opts...] copy   <name> <source-name>
//	<bin> [opts...] delete <name>
//
// opts is the configured pass-through option string, forwarded verbatim
// (whitespace-split) ahead of the subcommand.
type ExecClient struct {
	Bin string
}

// NewExec returns a client driving the given archiver binary.
func NewExec(bin string) *ExecClient {
	return &ExecClient{Bin: bin}
}

func (c *ExecClient) run(ctx context.Context, opts string, args ...string) (string, string, error) {
	all := append(strings.Fields(opts), args...)
	cmd := exec.CommandContext(ctx, c.Bin, all...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	err := cmd.Run()
	return stdoutBuf.String(), stderrBuf.String(), err
}

// List returns one archive name per non-empty stdout line.
func (c *ExecClient) List(ctx context.Context) ([]string, error) {
	stdout, stderr, err := c.run(ctx, "", "list")
	if err != nil {
		return nil, &UnavailableError{Cause: wrapExec(err, stderr)}
	}
	var names []string
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

func (c *ExecClient) Create(ctx context.Context, name, sourcePath, opts string) error {
	if _, stderr, err := c.run(ctx, opts, "create", name, sourcePath); err != nil {
		return &OpError{Op: "create", Name: name, Detail: strings.TrimSpace(stderr), Cause: err}
	}
	return nil
}

func (c *ExecClient) CopyFrom(ctx context.Context, name, sourceName, opts string) error {
	if _, stderr, err := c.run(ctx, opts, "copy", name, sourceName); err != nil {
		return &OpError{Op: "copy", Name: name, Detail: strings.TrimSpace(stderr), Cause: err}
	}
	return nil
}

func (c *ExecClient) Delete(ctx context.Context, name string) error {
	if _, stderr, err := c.run(ctx, "", "delete", name); err != nil {
		return &OpError{Op: "delete", Name: name, Detail: strings.TrimSpace(stderr), Cause: err}
	}
	return nil
}

func wrapExec(err error, stderr string) error {
	if s := strings.TrimSpace(stderr); s != "" {
		return &execError{err: err, stderr: s}
	}
	return err
}

type execError struct {
	err    error
	stderr string
}

func (e *execError) Error() string { return e.err.Error() + ": " + e.stderr }
func (e *execError) Unwrap() error { return e.err }
