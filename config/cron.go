package config

// Default schedules for the built-in jobs, overridable per job.
var CronSchedules = map[string]struct{ Env, Default string }{
	"partsreindex":   {Env: "CRON_REINDEX", Default: "0 3 * * *"},
	"ledgerverify":   {Env: "CRON_LEDGER_VERIFY", Default: "@hourly"},
	"lowstockreport": {Env: "CRON_LOW_STOCK", Default: "0 8 * * *"},
}

// CronSchedule returns the configured schedule for a built-in job.
func CronSchedule(name string) string {
	s, ok := CronSchedules[name]
	if !ok {
		return ""
	}
	return GetEnv(s.Env, s.Default)
}
