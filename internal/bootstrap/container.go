package bootstrap

import (
	"log"

	"ai-carousel-bot/internal/config"
	"ai-carousel-bot/internal/controller"
	"ai-carousel-bot/internal/pkg/logger"
	"ai-carousel-bot/internal/repository/memory"
	"ai-carousel-bot/internal/service"
	"ai-carousel-bot/pkg/imagegen/kie"
	"ai-carousel-bot/pkg/llm/replicate"
	"ai-carousel-bot/pkg/recordstore/airtable"
	"ai-carousel-bot/pkg/telegram"
	"ai-carousel-bot/pkg/watermark"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	OpsController controller.IOpsController

	// Background Services (Exposed for main.go to run)
	ConversationService service.IConversationService
	GenerationService   service.IGenerationService
	PollerService       service.IPollerService

	Backgrounds *memory.BackgroundStore
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	jobLogger := logger.NewIsolatedLogger(cfg.App.JobLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Backend Clients
	tgClient := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.PollTimeout)

	textProvider := replicate.NewProvider(cfg.Keys.Replicate, replicate.Config{
		PollInterval: cfg.Generation.TextPollEvery,
		MaxWait:      cfg.Generation.TextMaxWait,
		RetryBackoff: cfg.Generation.RetryBackoff,
		MaxRetries:   cfg.Generation.TextMaxRetries,
	})
	imageProvider := kie.NewClient(cfg.Keys.Kie, kie.Config{
		PollInterval: cfg.Generation.ImagePollEvery,
		MaxWait:      cfg.Generation.ImageMaxWait,
	})
	recordStore := airtable.NewClient(cfg.Keys.AirtableToken, cfg.Keys.AirtableBase, cfg.Keys.AirtableTable)

	stamper, err := watermark.NewStamper(cfg.Assets.LogoPath)
	if err != nil {
		// Slides still go out, just without the logo mark.
		log.Printf("[WARN] Watermark logo unavailable: %v", err)
		stamper = nil
	}

	// 4. Stores
	sessionRepo := memory.NewSessionRepository()
	backgrounds := memory.NewBackgroundStore(cfg.Assets.BackgroundCacheFile)
	if err := backgrounds.Load(); err != nil {
		log.Printf("[WARN] Failed to load background cache: %v", err)
	}

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.JobTopicName, pubSub)

	conversationService := service.NewConversationService(
		cfg,
		sysLogger,
		tgClient,
		sessionRepo,
		backgrounds,
		publisherService,
	)

	generationService := service.NewGenerationService(
		pubSub,
		cfg,
		jobLogger,
		tgClient,
		sessionRepo,
		backgrounds,
		textProvider,
		imageProvider,
		recordStore,
		stamper,
	)

	pollerService := service.NewPollerService(tgClient, conversationService, sysLogger)

	return &Container{
		OpsController:       controller.NewOpsController(backgrounds, conversationService),
		ConversationService: conversationService,
		GenerationService:   generationService,
		PollerService:       pollerService,
		Backgrounds:         backgrounds,
	}
}
