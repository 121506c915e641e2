package main

import (
	"context"
	"log"

	"ai-carousel-bot/internal/bootstrap"
	"ai-carousel-bot/internal/config"
	"ai-carousel-bot/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Restore the shared background reference before accepting traffic
	container.ConversationService.EnsureBackground(context.Background())

	// 4. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Generation Service...")
		if err := container.GenerationService.Consume(context.Background()); err != nil {
			log.Printf("Background Generation Error: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Telegram Poller...")
		if err := container.PollerService.Run(context.Background()); err != nil {
			log.Printf("Background Poller Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
