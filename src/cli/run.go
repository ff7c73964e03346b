package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"snaprotate/src/backup"
	"snaprotate/src/config"
	"snaprotate/src/hook"
	"snaprotate/src/lockfile"
	"snaprotate/src/retention"
)

// runRotation performs one full rotation run. Order matters: every creation
// for every target completes before any pruning starts, and pruning only
// happens when the whole backup phase succeeded.
func runRotation(cmd *cobra.Command, stdout io.Writer) error {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}
	// Hooks are checked before the lock is taken so a misconfigured hook
	// fails fast with no side effects.
	if err := hook.Validate(cfg.PreBackupHook); err != nil {
		return err
	}
	if err := hook.Validate(cfg.PostBackupHook); err != nil {
		return err
	}

	lock, err := lockfile.Acquire(cfg.LockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// A failing pre-backup hook aborts before any store mutation.
	if err := hook.Run(ctx, cfg.PreBackupHook); err != nil {
		return err
	}

	opts := getSafetyOptions(cmd)
	client := newStoreClient(cfg)

	listing, err := client.List(ctx)
	if err != nil {
		return err
	}

	orch := &backup.Orchestrator{Store: client, Cfg: cfg, DryRun: opts.DryRun}
	res := orch.Run(ctx, listing)

	deleted := 0
	if res.Failed {
		log.Warn().Msg("skipping pruning: at least one backup operation failed")
	} else {
		// Re-fetch so this run's archives are visible to the prune plan; the
		// listing is then treated as an immutable snapshot.
		after, err := client.List(ctx)
		if err != nil {
			return err
		}
		engine := &retention.Engine{Store: client, Cfg: cfg, DryRun: opts.DryRun}
		deleted = engine.Prune(ctx, after)
	}

	postErr := hook.Run(ctx, cfg.PostBackupHook, res.Manifest...)

	fmt.Fprintf(stdout, "created %d archives, deleted %d\n", len(res.Manifest), deleted)
	if res.Failed {
		return errors.New("one or more backup operations failed")
	}
	return postErr
}
