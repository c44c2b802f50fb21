package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/config"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/database"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/handler"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/hub"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/queue"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/repository"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Nil when Redis is unreachable; caching and rate limiting degrade to
	// pass-through in that case.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	arenas := repository.NewArenaRepo(db)
	containers := repository.NewContainerRepo(db)
	cards := repository.NewSalesCallRepo(db, containers)
	capRepo := repository.NewCapacityRepo(rooms, arenas, containers, cards)

	ws := hub.NewHub()
	go ws.Run()

	// Background consumer appends committed moves to logs/stowage.log.
	go func() {
		if err := queue.StartMoveConsumer(); err != nil {
			log.Printf("move consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	healthH := handler.NewHealthHandler(db, rdb)
	adminH := handler.NewAdminHandler(rooms, users, arenas, cards, ws, cfg.SwapDelaySec)
	playerH := handler.NewPlayerHandler(rooms, arenas, containers, cards, capRepo, ws, int64(cfg.RestowFee))

	e := echo.New()
	router.RegisterRoutes(e, healthH, ws)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterPlayer(e, playerH, cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
