//go:build !cli
// +build !cli

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repairshop.GO/api"
	"repairshop.GO/config"
	"repairshop.GO/core/auth"
	"repairshop.GO/core/cache"
	"repairshop.GO/service/search"

	_ "repairshop.GO/api/dashboard"
	_ "repairshop.GO/api/graphql"
	_ "repairshop.GO/api/hierarchy"
	_ "repairshop.GO/api/parts"
	_ "repairshop.GO/api/realtime"
	_ "repairshop.GO/api/sales"
	_ "repairshop.GO/api/search"
	_ "repairshop.GO/api/stock"
	_ "repairshop.GO/api/transactions"
	_ "repairshop.GO/custom"
	_ "repairshop.GO/html"
)

func main() {
	config.LoadEnv()
	app := config.LoadAppConfig()
	log := config.GetLogger()

	config.InitRedis()
	if config.RedisClient != nil {
		log.Info("redis connection successful, using shared cache")
	} else {
		log.Info("redis not configured, using in-memory cache")
	}
	defer config.CloseRedis()

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.WithField("driver", config.DBDriver()).Info("database connection successful")

	var searchSvc *search.Service
	if es, err := config.NewElasticsearchClient(); err != nil {
		log.WithError(err).Warn("elasticsearch client not created, search disabled")
	} else {
		searchSvc = search.NewService(es, config.ElasticsearchIndex(), db, log)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := searchSvc.EnsureIndex(ctx); err != nil {
			log.WithError(err).Warn("elasticsearch index not ready")
		}
		cancel()
	}

	deps := api.NewDeps(db, log, cache.NewStore(config.RedisClient), searchSvc, app)
	e := api.NewServer(deps, auth.Middleware(auth.SettingsFromEnv()))

	go func() {
		log.Infof("server running on :%s", app.Port)
		if err := e.Start(":" + app.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	_ = config.CloseDB(db)
}
