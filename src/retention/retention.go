// Package retention prunes stale archives under the GFS policy: per (tier,
// target) group the N newest archives are kept, everything older goes.
package retention

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"snaprotate/src/config"
	"snaprotate/src/naming"
	"snaprotate/src/store"
)

// Candidate is one archive scheduled for deletion.
type Candidate struct {
	Target string      // configured target path the group belongs to
	Tier   naming.Tier // retention tier of the group
	Group  string      // the logical (prefix) name that fell out of retention
	Name   string      // actual archive name to delete; equals Group or a part of it
}

// Engine computes and executes prune plans against the archive store.
type Engine struct {
	Store  store.Client
	Cfg    *config.Config
	DryRun bool
}

// Plan returns the archives to delete, given a store listing taken after all
// of the run's creations finished. For each target and tier independently the
// group's archives are ordered newest first by their fixed-width timestamp;
// a tier policy of 0 retains everything, otherwise the first N stay and the
// rest become candidates.
//
// Each candidate's full name is treated as a prefix against the complete
// unfiltered listing, so multi-part archives sharing a logical prefix are
// removed as a unit.
func (e *Engine) Plan(listing []string) []Candidate {
	parsed := naming.ParseAll(listing, e.Cfg.Hostname)

	var out []Candidate
	for _, target := range e.Cfg.BackupTargets {
		suffix := naming.SuffixOf(target)
		for _, tier := range naming.Tiers {
			keep, err := e.Cfg.Retention(tier)
			if err != nil {
				log.Error().Err(err).Msg("skipping tier with unrecognized retention")
				continue
			}
			if keep == 0 {
				continue // retain indefinitely
			}

			var group []naming.Archive
			for _, a := range parsed {
				if a.InGroup(e.Cfg.Hostname, tier, suffix) {
					group = append(group, a)
				}
			}
			// Newest first, independent of the store's native listing order.
			sort.Slice(group, func(i, j int) bool {
				return group[i].Timestamp > group[j].Timestamp
			})
			if len(group) <= keep {
				continue
			}

			for _, stale := range group[keep:] {
				for _, name := range listing {
					if strings.HasPrefix(name, stale.Name) {
						out = append(out, Candidate{
							Target: target,
							Tier:   tier,
							Group:  stale.Name,
							Name:   name,
						})
					}
				}
			}
		}
	}
	return out
}

// Prune executes the plan for the given listing and returns the number of
// archives actually deleted. Deletions run sequentially by design: there is
// no ordering hazard, and the store is the bottleneck either way. Each
// deletion is independent and best-effort; failures are logged and never
// escalate.
func (e *Engine) Prune(ctx context.Context, listing []string) int {
	deleted := 0
	for _, c := range e.Plan(listing) {
		if e.DryRun {
			log.Info().Str("archive", c.Name).Str("tier", string(c.Tier)).
				Msg("dry-run: would delete archive")
			continue
		}
		log.Info().Str("archive", c.Name).Str("tier", string(c.Tier)).
			Str("target", naming.DisplayPath(c.Target)).Msg("deleting stale archive")
		if err := e.Store.Delete(ctx, c.Name); err != nil {
			log.Warn().Err(err).Str("archive", c.Name).Msg("deletion failed")
			continue
		}
		deleted++
	}
	return deleted
}
