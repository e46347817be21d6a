package main

import (
	"context"
	"log"

	"ai-examcoach-be/internal/bootstrap"
	"ai-examcoach-be/internal/config"
	"ai-examcoach-be/internal/server"
	"ai-examcoach-be/internal/tracer"
	"ai-examcoach-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Workers
	go func() {
		log.Println("Background: Starting Embed Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Embed Consumer Error: %v", err)
		}
	}()
	go func() {
		log.Println("Background: Starting Test Generation Consumer...")
		if err := container.TestGenService.Consume(context.Background()); err != nil {
			log.Printf("Background TestGen Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
