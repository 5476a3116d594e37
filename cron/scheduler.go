package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Locker is the subset of redislock used to keep a job to one instance.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

const lockTTL = 30 * time.Minute

// Guard wraps run so that, when locker is non-nil, only the instance that
// obtains the job lock executes it. Others skip the tick.
func Guard(locker Locker, log logrus.FieldLogger, name string, run func(...string)) func(...string) {
	if locker == nil {
		return run
	}
	return func(args ...string) {
		lock, err := locker.Obtain(context.Background(), "repairshop:cron:"+name, lockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			log.WithField("job", name).Debug("cron job locked elsewhere, skipping")
			return
		}
		if err != nil {
			log.WithError(err).WithField("job", name).Warn("cron lock failed, skipping")
			return
		}
		defer lock.Release(context.Background())
		run(args...)
	}
}

// StartCron schedules builtins plus every registered job and starts the
// scheduler. Overlapping runs of the same job are skipped.
func StartCron(builtins map[string]Job, locker Locker, log logrus.FieldLogger) (*cron.Cron, error) {
	clog := cron.PrintfLogger(log)
	c := cron.New(cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))

	all := make(map[string]Job, len(builtins))
	for name, j := range builtins {
		all[name] = j
	}
	for name, j := range Jobs() {
		all[name] = j
	}
	for name, j := range all {
		if j.Schedule == "" || j.Schedule == "off" {
			log.WithField("job", name).Info("cron job disabled")
			continue
		}
		run := Guard(locker, log, name, j.Run)
		if _, err := c.AddFunc(j.Schedule, func() { run() }); err != nil {
			return nil, fmt.Errorf("register job %s: %w", name, err)
		}
		log.WithFields(logrus.Fields{"job": name, "schedule": j.Schedule}).Info("cron job scheduled")
	}
	c.Start()
	return c, nil
}
