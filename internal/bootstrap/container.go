package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-roleplay-be/internal/config"
	"ai-roleplay-be/internal/controller"
	"ai-roleplay-be/internal/handler"
	"ai-roleplay-be/internal/pkg/logger"
	"ai-roleplay-be/internal/repository/memory"
	"ai-roleplay-be/internal/repository/unitofwork"
	"ai-roleplay-be/internal/service"
	"ai-roleplay-be/internal/websocket"
	"ai-roleplay-be/pkg/embedding"
	"ai-roleplay-be/pkg/embedding/jina"
	"ai-roleplay-be/pkg/llm/factory"
	natspkg "ai-roleplay-be/pkg/nats"
	"ai-roleplay-be/pkg/narrative/contextasm"
	"ai-roleplay-be/pkg/narrative/memorylife"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WorkController     controller.IWorkController
	SessionController  controller.ISessionController
	LorebookController controller.ILorebookController

	// Background services (exposed for main.go to run)
	LifecycleService service.ILifecycleService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := natspkg.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := natspkg.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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

	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	sceneCache := memory.NewSceneCache()
	locks := memorylife.NewKeyedMutex()
	policy := memorylife.DefaultPolicy()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.LifecycleTopic)
	lifecycleService := service.NewLifecycleService(
		pubSub,
		cfg.Keys.LifecycleTopic,
		uowFactory,
		policy,
		locks,
		natsPub,
		sysLogger,
	)

	retrievalService := service.NewRetrievalService(uowFactory, policy, sysLogger)
	assembler := contextasm.NewAssembler(
		retrievalService,
		retrievalService,
		log.New(os.Stdout, "", log.LstdFlags),
	)

	workService := service.NewWorkService(uowFactory)
	lorebookService := service.NewLorebookService(uowFactory)
	sessionService := service.NewSessionService(uowFactory, sceneCache)
	exchangeService := service.NewExchangeService(
		uowFactory,
		assembler,
		llmProvider,
		embeddingProvider,
		publisherService,
		natsPub,
		sceneCache,
		wsHub,
		locks,
		sysLogger,
	)

	notifierService := service.NewNotifierService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifierService.Start()
	}

	streamHandler := handler.NewStreamHandler(wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		WorkController:     controller.NewWorkController(workService, retrievalService),
		SessionController:  controller.NewSessionController(sessionService, exchangeService),
		LorebookController: controller.NewLorebookController(lorebookService),

		LifecycleService: lifecycleService,

		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,
	}
}
