// Package backup creates the daily archives for every configured target and
// cascades them into the monthly and yearly tiers.
package backup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"snaprotate/src/config"
	"snaprotate/src/naming"
	"snaprotate/src/store"
)

// Result is the aggregate outcome of one orchestration run.
type Result struct {
	// Manifest lists every archive name successfully created or copied, in
	// creation order. It is handed to the post-backup hook.
	Manifest []string

	// Failed is set when any create or copy operation failed. Pruning must
	// not run for a failed run.
	Failed bool
}

// Orchestrator drives archive creation for one run.
type Orchestrator struct {
	Store  store.Client
	Cfg    *config.Config
	DryRun bool

	// Now is the clock; defaults to time.Now. Tests inject a fixed time.
	Now func() time.Time
}

// Run creates one daily archive per configured target and cascades each into
// the yearly and monthly tiers unless the pre-run listing already holds a
// tier archive for the current period. Failures are logged and recorded in
// Result.Failed; the run never aborts early, so one broken target does not
// block the others.
//
// listing is the store listing fetched before the run started; tier-archive
// existence checks are made against it, which keeps re-runs within the same
// day, month or year from duplicating tier archives.
func (o *Orchestrator) Run(ctx context.Context, listing []string) Result {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	loc := time.UTC
	if o.Cfg.UseLocalTime {
		loc = time.Local
	}
	// One timestamp for all targets and tiers, so a run crossing midnight or
	// a month boundary cannot split its archives across periods.
	ts := naming.Timestamp(now().In(loc))

	existing := naming.ParseAll(listing, o.Cfg.Hostname)

	var res Result
	for _, target := range o.Cfg.BackupTargets {
		suffix := naming.SuffixOf(target)
		dailyName := naming.Name(o.Cfg.Hostname, naming.Daily, ts, suffix)

		if o.DryRun {
			log.Info().Str("archive", dailyName).Str("target", naming.DisplayPath(target)).
				Msg("dry-run: would create daily archive")
		} else if o.create(ctx, dailyName, target) {
			res.Manifest = append(res.Manifest, dailyName)
		} else {
			res.Failed = true
		}

		for _, tier := range []naming.Tier{naming.Yearly, naming.Monthly} {
			name := naming.Name(o.Cfg.Hostname, tier, ts, suffix)
			period := periodOf(tier, ts)
			if hasTierArchive(existing, tier, suffix, period) {
				log.Debug().Str("archive", name).Msgf("%s archive already exists for this period", tier)
				continue
			}
			if o.DryRun {
				log.Info().Str("archive", name).Str("source", dailyName).
					Msg("dry-run: would copy archive")
			} else if o.copy(ctx, name, dailyName) {
				res.Manifest = append(res.Manifest, name)
			} else {
				res.Failed = true
			}
		}
	}
	return res
}

func (o *Orchestrator) create(ctx context.Context, name, target string) bool {
	log.Info().Str("archive", name).Str("target", naming.DisplayPath(target)).
		Msg("creating daily archive")
	if err := o.Store.Create(ctx, name, target, o.Cfg.Store.Options); err != nil {
		log.Warn().Err(err).Str("archive", name).Msg("backup creation failed")
		return false
	}
	return true
}

func (o *Orchestrator) copy(ctx context.Context, name, source string) bool {
	log.Info().Str("archive", name).Str("source", source).Msg("copying archive")
	if err := o.Store.CopyFrom(ctx, name, source, o.Cfg.Store.Options); err != nil {
		log.Warn().Err(err).Str("archive", name).Msg("tier copy failed")
		return false
	}
	return true
}

// periodOf returns the timestamp prefix identifying the current retention
// period for a cascade tier: year for yearly, year+month for monthly.
func periodOf(tier naming.Tier, ts string) string {
	if tier == naming.Yearly {
		return ts[:4]
	}
	return ts[:6]
}

func hasTierArchive(existing []naming.Archive, tier naming.Tier, suffix, period string) bool {
	for _, a := range existing {
		if a.Tier != tier || a.Suffix != suffix {
			continue
		}
		key := a.YearKey()
		if tier == naming.Monthly {
			key = a.MonthKey()
		}
		if key == period {
			return true
		}
	}
	return false
}
