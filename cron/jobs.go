package cron

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/config"
	"repairshop.GO/service/catalog"
	"repairshop.GO/service/inventory"
	"repairshop.GO/service/notify"
	"repairshop.GO/service/search"
)

const jobTimeout = 20 * time.Minute

// Env is what the built-in jobs run against.
type Env struct {
	DB     *gorm.DB
	Search *search.Service
	Log    logrus.FieldLogger
}

// Builtins returns the shop's maintenance jobs with their configured schedules.
func Builtins(env Env) map[string]Job {
	return map[string]Job{
		"partsreindex":   {Schedule: config.CronSchedule("partsreindex"), Run: env.reindex},
		"ledgerverify":   {Schedule: config.CronSchedule("ledgerverify"), Run: env.verifyLedger},
		"lowstockreport": {Schedule: config.CronSchedule("lowstockreport"), Run: env.lowStock},
	}
}

func (env Env) logger(job string) logrus.FieldLogger {
	return env.Log.WithField("job", job)
}

func (env Env) reindex(...string) {
	log := env.logger("partsreindex")
	if env.Search == nil {
		log.Info("search not configured, skipping")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	report, err := env.Search.ReindexAll(ctx)
	if err != nil {
		log.WithError(err).Warn("reindex failed")
		return
	}
	log.WithField("indexed", report.Indexed).Info(report.Message)
}

// verifyLedger accepts an optional part ID.
func (env Env) verifyLedger(args ...string) {
	log := env.logger("ledgerverify")
	partID := ""
	if len(args) > 0 {
		partID = args[0]
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	report, err := inventory.Verify(ctx, env.DB, partID)
	if err != nil {
		log.WithError(err).Error("ledger verify failed")
		return
	}
	for _, m := range report.Mismatches {
		log.WithFields(logrus.Fields{"partId": m.PartID, "sku": m.SKU, "stock": m.Stock, "ledger": m.Replayed}).
			Error("stock does not match ledger")
	}
	log.WithFields(logrus.Fields{"checked": report.Checked, "mismatches": len(report.Mismatches)}).Info("ledger verified")
}

func (env Env) lowStock(...string) {
	log := env.logger("lowstockreport")
	svc, err := catalog.NewService(env.DB, notify.Nop{}, log)
	if err != nil {
		log.WithError(err).Error("catalog service")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	parts, err := svc.LowStock(ctx, 100)
	if err != nil {
		log.WithError(err).Error("low stock query failed")
		return
	}
	for _, p := range parts {
		log.WithFields(logrus.Fields{"sku": p.SKU, "stock": p.Stock, "threshold": p.LowStockThreshold}).Warn("low stock")
	}
	log.WithField("count", len(parts)).Info("low stock report")
}
