package bootstrap

import (
	"context"
	"log"

	"ai-examcoach-be/internal/config"
	"ai-examcoach-be/internal/controller"
	"ai-examcoach-be/internal/handler"
	"ai-examcoach-be/internal/pkg/logger"
	"ai-examcoach-be/internal/pkg/mailer"
	"ai-examcoach-be/internal/repository/implementation"
	"ai-examcoach-be/internal/repository/memory"
	"ai-examcoach-be/internal/service"
	"ai-examcoach-be/internal/websocket"
	"ai-examcoach-be/pkg/assistant"
	"ai-examcoach-be/pkg/assistant/search"
	"ai-examcoach-be/pkg/embedding"
	"ai-examcoach-be/pkg/llm/factory"
	"ai-examcoach-be/pkg/usage"

	pktNats "ai-examcoach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	DocumentController  controller.IDocumentController
	TestController      controller.ITestController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	TestGenService  service.ITestGenService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	apiKey := cfg.Keys.OpenAI
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		apiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Repositories
	documentRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db)
	testRepo := implementation.NewTestRepository(db)
	questionRepo := implementation.NewQuestionRepository(db)
	gradingRepo := implementation.NewGradingResultRepository(db)
	userRepo := implementation.NewUserRepository(db)
	sessionRepo := memory.NewSessionRepository()

	// 6. Assistant Core
	ragLogger := log.New(&lumberjack.Logger{
		Filename:   "logs/llm_rag.log",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}, "", log.LstdFlags)

	webProvider := search.NewWebProvider(cfg.Keys.GoogleSearch, cfg.Keys.GoogleSearchCx)
	registry := assistant.NewRegistry(sessionRepo, assistant.AgentDeps{
		LLM:    llmProvider,
		Web:    webProvider,
		Logger: ragLogger,
		VectorFactory: func(documentName string) search.Provider {
			return search.NewVectorProvider(chunkRepo, embeddingProvider, documentName)
		},
		SimilarityThreshold: cfg.Assistant.SimilarityThreshold,
		MaxContextMessages:  cfg.Assistant.MaxContextMessages,
	})

	limiter := usage.NewLimiter(rdb, cfg.Assistant.DailyUsageLimit)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		documentRepo,
		chunkRepo,
		embeddingProvider,
		natsPub,
		wsHub,
	)

	assistantService := service.NewAssistantService(registry, limiter)
	documentService := service.NewDocumentService(documentRepo, chunkRepo, publisherService, natsPub)
	testGenService := service.NewTestGenService(
		pubSub,
		cfg.Keys.TestGenTopic,
		testRepo,
		questionRepo,
		documentRepo,
		llmProvider,
		natsPub,
		wsHub,
	)
	gradingService := service.NewGradingService(
		testRepo,
		questionRepo,
		gradingRepo,
		userRepo,
		llmProvider,
		emailService,
		natsPub,
	)

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	sysLogger.Info("Bootstrap", "Container initialized", map[string]interface{}{
		"llm_provider":       cfg.Ai.LLMProvider,
		"embedding_provider": cfg.Ai.EmbeddingProvider,
	})

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		DocumentController:  controller.NewDocumentController(documentService),
		TestController:      controller.NewTestController(testGenService, gradingService),

		ConsumerService: consumerService,
		TestGenService:  testGenService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
