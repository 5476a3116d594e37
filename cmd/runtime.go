package cmd

import (
	"github.com/sirupsen/logrus"

	"repairshop.GO/api"
	"repairshop.GO/config"
	"repairshop.GO/core/cache"
	"repairshop.GO/service/search"
)

// Runtime holds the connections a command needs. Close releases them.
type Runtime struct {
	*api.Deps
}

// Open connects to the database and, when configured, redis and
// Elasticsearch. Commands share the same notifier wiring as the server so
// CLI mutations keep the index and caches fresh.
func Open() (*Runtime, error) {
	log := config.GetLogger()
	db, err := config.NewDB()
	if err != nil {
		return nil, err
	}
	config.InitRedis()
	store := cache.NewStore(config.RedisClient)

	var s *search.Service
	if es, err := config.NewElasticsearchClient(); err != nil {
		log.WithError(err).Warn("elasticsearch client not created")
	} else {
		s = search.NewService(es, config.ElasticsearchIndex(), db, log)
	}
	return &Runtime{Deps: api.NewDeps(db, log, store, s, config.LoadAppConfig())}, nil
}

func (r *Runtime) Close() {
	if err := config.CloseDB(r.DB); err != nil {
		r.Log.WithError(err).Warn("close db")
	}
	config.CloseRedis()
}

// Logger is the command-scoped logger.
func (r *Runtime) Logger(command string) logrus.FieldLogger {
	return r.Log.WithField("command", command)
}
