// Standalone GraphQL server; run with: go run ./cmd/graphql
package main

import (
	"fmt"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"repairshop.GO/api"
	_ "repairshop.GO/api/graphql"
	"repairshop.GO/config"
	"repairshop.GO/core/auth"
	"repairshop.GO/core/cache"
	_ "repairshop.GO/custom"
)

func main() {
	_ = godotenv.Load()
	log := config.GetLogger()

	db, err := config.NewDB()
	if err != nil {
		log.Fatal("db: ", err)
	}
	config.InitRedis()

	deps := api.NewDeps(db, log, cache.NewStore(config.RedisClient), nil, config.LoadAppConfig())
	e := api.NewServer(deps, auth.Middleware(auth.SettingsFromEnv()))

	// ASCII banner on start (random font each run)
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles", "bigchief"}
	figure.NewFigure("RepairShop GQL ->", fonts[rand.Intn(len(fonts))], true).Print()
	fmt.Println("Standalone GraphQL server")

	port := deps.App.Port
	log.Infof("GraphQL at http://localhost:%s/graphql  Playground at http://localhost:%s/playground", port, port)
	e.Logger.Fatal(e.Start(":" + port))
}
