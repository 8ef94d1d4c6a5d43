package main

import (
	"context"
	"log"

	"ai-roleplay-be/internal/bootstrap"
	"ai-roleplay-be/internal/config"
	"ai-roleplay-be/internal/server"
	"ai-roleplay-be/internal/tracer"
	"ai-roleplay-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background memory maintenance consumer
	go func() {
		log.Println("Background: Starting Lifecycle Service...")
		if err := container.LifecycleService.Consume(context.Background()); err != nil {
			log.Printf("Background Lifecycle Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
