package retention_test

import (
	"context"
	"fmt"
	"testing"

	"snaprotate/src/config"
	"snaprotate/src/naming"
	"snaprotate/src/retention"
	"snaprotate/src/store"
)

func newEngine(f *store.Fake, daily, monthly, yearly int, targets ...string) *retention.Engine {
	return &retention.Engine{
		Store: f,
		Cfg: &config.Config{
			Hostname:       "web1",
			BackupTargets:  targets,
			DailyBackups:   daily,
			MonthlyBackups: monthly,
			YearlyBackups:  yearly,
		},
	}
}

// dailies seeds n daily archives for /etc, oldest first, and returns their names.
func dailies(f *store.Fake, n int) []string {
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("web1-daily-202401%02d-020000-etc", i+1)
		f.Seed(names[i])
	}
	return names
}

func TestPrune_PolicyZeroRetainsEverything(t *testing.T) {
	for _, n := range []int{0, 1, 4, 25} {
		f := store.NewFake()
		dailies(f, n)
		e := newEngine(f, 0, 0, 0, "/etc")

		listing, _ := f.List(context.Background())
		if got := e.Prune(context.Background(), listing); got != 0 {
			t.Fatalf("policy 0 deleted %d archives (group size %d)", got, n)
		}
		if f.Mutations() != 0 {
			t.Fatalf("policy 0 touched the store: %v", f.Ops)
		}
	}
}

func TestPrune_KeepsNNewest(t *testing.T) {
	f := store.NewFake()
	names := dailies(f, 6)
	e := newEngine(f, 4, 0, 0, "/etc")

	listing, _ := f.List(context.Background())
	deleted := e.Prune(context.Background(), listing)
	if deleted != 2 {
		t.Fatalf("deleted %d, want 2", deleted)
	}
	for _, old := range names[:2] {
		if _, ok := f.Archives[old]; ok {
			t.Fatalf("oldest archive %q survived", old)
		}
	}
	for _, recent := range names[2:] {
		if _, ok := f.Archives[recent]; !ok {
			t.Fatalf("recent archive %q deleted", recent)
		}
	}
}

func TestPrune_GroupSmallerThanPolicy(t *testing.T) {
	f := store.NewFake()
	dailies(f, 2)
	e := newEngine(f, 5, 0, 0, "/etc")

	listing, _ := f.List(context.Background())
	if got := e.Prune(context.Background(), listing); got != 0 {
		t.Fatalf("deleted %d from a group smaller than policy", got)
	}
}

func TestPlan_IgnoresOtherGroups(t *testing.T) {
	f := store.NewFake().Seed(
		"web1-daily-20240101-020000-etc",
		"web1-daily-20240102-020000-etc",
		"web1-daily-20240103-020000-varwww", // other target
		"web1-monthly-20240101-020000-etc",  // other tier
		"db9-daily-20240101-020000-etc",     // other host
		"unrelated-name",
	)
	e := newEngine(f, 1, 0, 0, "/etc")

	listing, _ := f.List(context.Background())
	plan := e.Plan(listing)
	if len(plan) != 1 || plan[0].Name != "web1-daily-20240101-020000-etc" {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestPlan_SortsByTimestampNotListingOrder(t *testing.T) {
	// The fake lists lexicographically, but Plan must order by the parsed
	// timestamp field regardless.
	f := store.NewFake().Seed(
		"web1-daily-20241231-235959-etc",
		"web1-daily-20240101-000000-etc",
		"web1-daily-20240615-120000-etc",
	)
	e := newEngine(f, 2, 0, 0, "/etc")

	listing, _ := f.List(context.Background())
	plan := e.Plan(listing)
	if len(plan) != 1 || plan[0].Name != "web1-daily-20240101-000000-etc" {
		t.Fatalf("plan = %+v, want only the oldest", plan)
	}
}

func TestPrune_PrefixInclusiveDeletion(t *testing.T) {
	f := store.NewFake().Seed(
		"web1-daily-20240101-020000",
		"web1-daily-20240101-020000-part2",
		"web1-daily-20240102-020000",
	)
	e := newEngine(f, 1, 0, 0, "/")

	listing, _ := f.List(context.Background())
	deleted := e.Prune(context.Background(), listing)
	if deleted != 2 {
		t.Fatalf("deleted %d, want logical archive plus its part", deleted)
	}
	if _, ok := f.Archives["web1-daily-20240101-020000-part2"]; ok {
		t.Fatalf("multi-part sibling survived prefix deletion")
	}
	if _, ok := f.Archives["web1-daily-20240102-020000"]; !ok {
		t.Fatalf("retained archive was deleted")
	}
}

func TestPrune_TiersIndependent(t *testing.T) {
	f := store.NewFake().Seed(
		"web1-daily-20240101-020000-etc",
		"web1-daily-20240102-020000-etc",
		"web1-monthly-20240101-020000-etc",
		"web1-monthly-20240201-020000-etc",
		"web1-yearly-20230101-020000-etc",
		"web1-yearly-20240101-020000-etc",
	)
	e := newEngine(f, 1, 2, 0, "/etc")

	listing, _ := f.List(context.Background())
	deleted := e.Prune(context.Background(), listing)
	if deleted != 1 {
		t.Fatalf("deleted %d, want 1 (daily only)", deleted)
	}
	if _, ok := f.Archives["web1-daily-20240101-020000-etc"]; ok {
		t.Fatalf("stale daily survived")
	}
}

func TestPrune_DeletionFailureContinues(t *testing.T) {
	f := store.NewFake()
	names := dailies(f, 4)
	f.FailDelete[names[0]] = true
	e := newEngine(f, 1, 0, 0, "/etc")

	listing, _ := f.List(context.Background())
	deleted := e.Prune(context.Background(), listing)
	if deleted != 2 {
		t.Fatalf("deleted %d, want 2 despite one failure", deleted)
	}
	if _, ok := f.Archives[names[1]]; ok {
		t.Fatalf("later candidate skipped after failed deletion")
	}
}

func TestPrune_DryRunMutatesNothing(t *testing.T) {
	f := store.NewFake()
	dailies(f, 4)
	e := newEngine(f, 1, 0, 0, "/etc")
	e.DryRun = true

	listing, _ := f.List(context.Background())
	if got := e.Prune(context.Background(), listing); got != 0 {
		t.Fatalf("dry-run reported %d deletions", got)
	}
	if f.Mutations() != 0 {
		t.Fatalf("dry-run touched the store: %v", f.Ops)
	}
}

func TestPlan_MultipleTargets(t *testing.T) {
	f := store.NewFake().Seed(
		"web1-daily-20240101-020000-etc",
		"web1-daily-20240102-020000-etc",
		"web1-daily-20240101-020000-varwww",
		"web1-daily-20240102-020000-varwww",
	)
	e := newEngine(f, 1, 0, 0, "/etc", "/var/www")

	listing, _ := f.List(context.Background())
	plan := e.Plan(listing)
	if len(plan) != 2 {
		t.Fatalf("plan = %+v, want one candidate per target", plan)
	}
	for _, c := range plan {
		if c.Tier != naming.Daily {
			t.Fatalf("unexpected tier %q in plan", c.Tier)
		}
	}
}
