package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/config"
	"github.com/ristinalapbulan-create/sipandusd/database"
	"github.com/ristinalapbulan-create/sipandusd/routes"
	"github.com/ristinalapbulan-create/sipandusd/storage/mongodb"
)

func main() {
	cfg := config.Load()

	// koneksi database (kalau DB belum siap, program langsung berhenti)
	database.Connect(cfg)
	defer database.Disconnect(context.Background())

	store := mongodb.New(database.DB)
	cc := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, *cfg, store, cc)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
