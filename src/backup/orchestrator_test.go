package backup_test

import (
	"context"
	"testing"
	"time"

	"snaprotate/src/backup"
	"snaprotate/src/config"
	"snaprotate/src/store"
)

var fixedTime = time.Date(2024, 6, 15, 2, 0, 0, 0, time.UTC)

func newOrchestrator(f *store.Fake, targets ...string) *backup.Orchestrator {
	return &backup.Orchestrator{
		Store: f,
		Cfg: &config.Config{
			Hostname:      "web1",
			BackupTargets: targets,
			Store:         config.StoreConfig{Command: "archiver"},
		},
		Now: func() time.Time { return fixedTime },
	}
}

func TestRun_CreatesDailyAndCascades(t *testing.T) {
	f := store.NewFake()
	o := newOrchestrator(f, "/etc")

	res := o.Run(context.Background(), nil)
	if res.Failed {
		t.Fatalf("run failed: ops %v", f.Ops)
	}
	want := []string{
		"web1-daily-20240615-020000-etc",
		"web1-yearly-20240615-020000-etc",
		"web1-monthly-20240615-020000-etc",
	}
	if len(res.Manifest) != len(want) {
		t.Fatalf("manifest = %v, want %v", res.Manifest, want)
	}
	for i, name := range want {
		if res.Manifest[i] != name {
			t.Fatalf("manifest[%d] = %q, want %q", i, res.Manifest[i], name)
		}
		if _, ok := f.Archives[name]; !ok {
			t.Fatalf("archive %q not in store", name)
		}
	}
}

func TestRun_SkipsExistingTierArchives(t *testing.T) {
	f := store.NewFake().Seed(
		"web1-yearly-20240101-030000-etc",  // same year
		"web1-monthly-20240601-030000-etc", // same month
	)
	o := newOrchestrator(f, "/etc")

	listing, _ := f.List(context.Background())
	res := o.Run(context.Background(), listing)
	if res.Failed {
		t.Fatalf("run failed")
	}
	if len(res.Manifest) != 1 || res.Manifest[0] != "web1-daily-20240615-020000-etc" {
		t.Fatalf("manifest = %v, want only the daily archive", res.Manifest)
	}
	for _, op := range f.Ops {
		if op != "create:web1-daily-20240615-020000-etc" {
			t.Fatalf("unexpected store op %q", op)
		}
	}
}

func TestRun_CascadesWhenPeriodDiffers(t *testing.T) {
	f := store.NewFake().Seed(
		"web1-yearly-20230615-020000-etc",  // last year
		"web1-monthly-20240515-020000-etc", // last month
	)
	o := newOrchestrator(f, "/etc")

	listing, _ := f.List(context.Background())
	res := o.Run(context.Background(), listing)
	if res.Failed {
		t.Fatalf("run failed")
	}
	if len(res.Manifest) != 3 {
		t.Fatalf("manifest = %v, want daily + yearly + monthly", res.Manifest)
	}
}

func TestRun_CreateFailureSetsFlagAndContinues(t *testing.T) {
	f := store.NewFake()
	f.FailCreate["web1-daily-20240615-020000-etc"] = true
	o := newOrchestrator(f, "/etc", "/var/www")

	res := o.Run(context.Background(), nil)
	if !res.Failed {
		t.Fatalf("expected Failed after create failure")
	}
	// The second target is still processed in full.
	if _, ok := f.Archives["web1-daily-20240615-020000-varwww"]; !ok {
		t.Fatalf("second target not backed up; ops %v", f.Ops)
	}
	if _, ok := f.Archives["web1-yearly-20240615-020000-varwww"]; !ok {
		t.Fatalf("second target not cascaded; ops %v", f.Ops)
	}
}

func TestRun_CopyFailureSetsFlag(t *testing.T) {
	f := store.NewFake()
	f.FailCopy["web1-yearly-20240615-020000-etc"] = true
	o := newOrchestrator(f, "/etc")

	res := o.Run(context.Background(), nil)
	if !res.Failed {
		t.Fatalf("expected Failed after copy failure")
	}
	// Monthly cascade still attempted.
	if _, ok := f.Archives["web1-monthly-20240615-020000-etc"]; !ok {
		t.Fatalf("monthly cascade skipped after yearly failure; ops %v", f.Ops)
	}
}

func TestRun_DuplicateTargetIsPerTargetFailure(t *testing.T) {
	f := store.NewFake()
	o := newOrchestrator(f, "/etc", "/etc")

	res := o.Run(context.Background(), nil)
	if !res.Failed {
		t.Fatalf("duplicate target should surface as a failure")
	}
}

func TestRun_SharedTimestampAcrossTargets(t *testing.T) {
	f := store.NewFake()
	var calls int
	o := newOrchestrator(f, "/etc", "/var/www")
	o.Now = func() time.Time {
		calls++
		return fixedTime.Add(time.Duration(calls) * time.Hour)
	}

	res := o.Run(context.Background(), nil)
	if res.Failed {
		t.Fatalf("run failed")
	}
	if calls != 1 {
		t.Fatalf("clock sampled %d times, want once per run", calls)
	}
}

func TestRun_DryRunMutatesNothing(t *testing.T) {
	f := store.NewFake()
	o := newOrchestrator(f, "/etc")
	o.DryRun = true

	res := o.Run(context.Background(), nil)
	if res.Failed || len(res.Manifest) != 0 {
		t.Fatalf("dry-run result = %+v", res)
	}
	if f.Mutations() != 0 {
		t.Fatalf("dry-run performed store ops: %v", f.Ops)
	}
}
