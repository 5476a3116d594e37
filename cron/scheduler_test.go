package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus/hooks/test"

	"repairshop.GO/model/repository/repotest"
)

type fakeLocker struct {
	err  error
	keys []string
}

func (f *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration, _ *redislock.Options) (*redislock.Lock, error) {
	f.keys = append(f.keys, key)
	return nil, f.err
}

func TestGuard_NilLockerRunsDirectly(t *testing.T) {
	log, _ := test.NewNullLogger()
	ran := 0
	Guard(nil, log, "x", func(...string) { ran++ })()
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}

func TestGuard_SkipsWhenLockHeld(t *testing.T) {
	log, _ := test.NewNullLogger()
	l := &fakeLocker{err: redislock.ErrNotObtained}
	ran := false
	Guard(l, log, "partsreindex", func(...string) { ran = true })()
	if ran {
		t.Error("job ran without the lock")
	}
	if len(l.keys) != 1 || l.keys[0] != "repairshop:cron:partsreindex" {
		t.Errorf("keys = %v", l.keys)
	}
}

func TestGuard_SkipsOnLockError(t *testing.T) {
	log, hook := test.NewNullLogger()
	ran := false
	Guard(&fakeLocker{err: errors.New("redis down")}, log, "ledgerverify", func(...string) { ran = true })()
	if ran {
		t.Error("job ran after lock error")
	}
	if hook.LastEntry() == nil {
		t.Error("expected a warning to be logged")
	}
}

func TestBuiltins_Schedules(t *testing.T) {
	t.Setenv("CRON_LEDGER_VERIFY", "@every 5m")
	jobs := Builtins(Env{})
	for _, name := range []string{"partsreindex", "ledgerverify", "lowstockreport"} {
		if _, ok := jobs[name]; !ok {
			t.Errorf("missing builtin %s", name)
		}
	}
	if got := jobs["ledgerverify"].Schedule; got != "@every 5m" {
		t.Errorf("ledgerverify schedule = %q", got)
	}
	if got := jobs["partsreindex"].Schedule; got != "0 3 * * *" {
		t.Errorf("partsreindex schedule = %q", got)
	}
}

func TestBuiltins_RunAgainstDB(t *testing.T) {
	db := repotest.Open(t)
	repotest.Part(t, db, "LOW-1", 1)
	repotest.Part(t, db, "OK-1", 50)

	log, hook := test.NewNullLogger()
	jobs := Builtins(Env{DB: db, Log: log})

	jobs["lowstockreport"].Run()
	var low []string
	for _, e := range hook.AllEntries() {
		if e.Message == "low stock" {
			low = append(low, e.Data["sku"].(string))
		}
	}
	if len(low) != 1 || low[0] != "LOW-1" {
		t.Errorf("low stock entries = %v", low)
	}

	hook.Reset()
	jobs["ledgerverify"].Run()
	last := hook.LastEntry()
	if last == nil || last.Message != "ledger verified" || last.Data["mismatches"] != 0 {
		t.Errorf("ledgerverify last entry = %+v", last)
	}

	hook.Reset()
	jobs["partsreindex"].Run()
	if last := hook.LastEntry(); last == nil || last.Message != "search not configured, skipping" {
		t.Errorf("partsreindex last entry = %+v", last)
	}
}
