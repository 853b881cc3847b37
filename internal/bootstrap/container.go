package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/config"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/controller"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/handler"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/metrics"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/mailer"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/implementation"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/memory"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/service"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/websocket"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/document"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/llm/factory"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/lock"
	pktNats "github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/nats"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/notify"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/oracle"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/oracle/llmoracle"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/oracle/rules"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/reference"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/speech"
)

// EventTopic is the in-process watermill topic every domain event goes through.
const EventTopic = "intake.events"

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	SessionController   controller.ISessionController
	CaseController      controller.ICaseController
	NotificationHandler *handler.NotificationHandler

	// Background Services (Exposed for main.go to run)
	WebSocketHub        *websocket.Hub
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService
	IntakeService       service.IIntakeService

	Metrics *metrics.Metrics
	Logger  logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	m := metrics.New()
	auth := serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(EventTopic, pubSub)

	// 3. Domain profiles
	registry := intake.DefaultRegistry()
	overrides, err := config.LoadDomainProfiles(cfg.Intake.DomainsFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load domain profiles: %v", err)
	}
	if err := config.ApplyDomainOverrides(registry, overrides); err != nil {
		log.Fatalf("[FATAL] Invalid domain profiles: %v", err)
	}

	// 4. Extraction oracle
	extractor := newOracle(ctx, cfg, registry, sysLogger)
	machine := intake.NewMachine(
		service.NewInstrumentedOracle(extractor, m),
		registry,
		intake.WithOracleTimeout(cfg.Intake.OracleTimeout),
	)

	// 5. Infrastructure
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	var locker lock.Locker = lock.NewMemoryLocker()
	var references reference.Generator = reference.NewAtomicGenerator()
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb, cfg.Intake.LockTTL())
		references = reference.NewRedisGenerator(rdb)
		log.Printf("[INFO] Session locks and reference numbers: REDIS")
	} else {
		log.Printf("[INFO] Session locks and reference numbers: IN-MEMORY (single instance only)")
	}

	var sessions contract.SessionRepository
	if cfg.Intake.SessionStore == "memory" {
		sessions = memory.NewSessionRepository(cfg.Intake.SessionTTL)
	} else {
		sessions = implementation.NewSessionRepository(db)
	}
	log.Printf("[INFO] Using Session Store: %s", cfg.Intake.SessionStore)

	documents, err := document.NewTemplateGenerator()
	if err != nil {
		log.Fatalf("[FATAL] Failed to parse document templates: %v", err)
	}

	// NATS
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}
	if natsPub == nil || natsSub == nil {
		natsPub, natsSub = nil, nil
	}

	// 6. Notification System Infrastructure
	wsLogger := logger.NewIsolatedLogger(cfg.App.NotificationLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	notifService := service.NewNotificationService(
		uowFactory,
		newEmailService(ctx, cfg),
		newSMSSender(ctx, cfg),
		natsSub,
		wsHub,
		sysLogger,
	)

	// 7. Services
	caseService := service.NewCaseService(uowFactory, references, sysLogger)
	if err := caseService.ResumeReferences(ctx); err != nil {
		log.Printf("[WARN] Failed to resume reference numbers: %v", err)
	}
	materializer := service.NewCaseMaterializer(caseService, documents, uowFactory, registry, publisherService, m, sysLogger)
	intakeService := service.NewIntakeService(service.IntakeDeps{
		Machine:      machine,
		Sessions:     sessions,
		Locker:       locker,
		Materializer: materializer,
		Transcriber:  speech.NewHTTPTranscriber(cfg.Ai.SpeechURL, cfg.Intake.SpeechTimeout),
		UowFactory:   uowFactory,
		Publisher:    publisherService,
		Metrics:      m,
		Logger:       sysLogger,
		UploadDir:    cfg.App.UploadDir,
		SessionTTL:   cfg.Intake.SessionTTL,

		SpeechTimeout: cfg.Intake.SpeechTimeout,
	})
	authService := service.NewAuthService(uowFactory, cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, sysLogger)

	// Relay: with NATS every event is forwarded to JetStream and the
	// notification worker consumes it from there. Without NATS the relay
	// calls the notification service directly.
	relayTarget := notifService.HandleEvent
	if natsPub != nil {
		relayTarget = natsPub.Publish
		log.Printf("[INFO] Relaying events to NATS JetStream")
	}
	consumerService := service.NewConsumerService(
		pubSub,
		EventTopic,
		logger.NewIsolatedLogger(cfg.App.EventLogFilePath),
		m,
		relayTarget,
	)

	// 8. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService, auth),
		SessionController:   controller.NewSessionController(intakeService, auth),
		CaseController:      controller.NewCaseController(caseService, auth),
		NotificationHandler: handler.NewNotificationHandler(notifService, auth, wsHub, wsLogger),
		WebSocketHub:        wsHub,

		ConsumerService:     consumerService,
		NotificationService: notifService,
		IntakeService:       intakeService,

		Metrics: m,
		Logger:  sysLogger,
	}
}

// newOracle puts the configured language model in front of the rule based
// extractor. The rules oracle always answers, so the chain degrades instead
// of failing when the model is down.
func newOracle(ctx context.Context, cfg *config.Config, registry *intake.Registry, sysLogger logger.ILogger) intake.Oracle {
	fallback := rules.New()
	if cfg.Ai.LLMProvider == "" || cfg.Ai.LLMProvider == "rules" {
		log.Printf("[INFO] Using Extraction Oracle: RULES")
		return oracle.NewChain(sysLogger, fallback)
	}

	baseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "openai" {
		baseURL = cfg.Ai.OpenAIBaseURL
	}
	provider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  baseURL,
		APIKey:   cfg.Ai.OpenAIAPIKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	llm, err := llmoracle.New(provider, registry.Keys())
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM oracle: %v", err)
	}
	log.Printf("[INFO] Using Extraction Oracle: %s (%s) with rules fallback", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	return oracle.NewChain(sysLogger, llm, fallback)
}

func newEmailService(ctx context.Context, cfg *config.Config) mailer.IEmailService {
	switch cfg.Notify.EmailProvider {
	case "smtp":
		if cfg.SMTP.Host == "" {
			log.Printf("[WARN] SMTP_HOST is empty, email notifications disabled")
			return mailer.NopEmailService{}
		}
		return mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	case "ses":
		svc, err := mailer.NewSESEmailService(ctx, cfg.Notify.AWSRegion, cfg.Notify.SESSender)
		if err != nil {
			log.Printf("[WARN] Failed to initialize SES: %v. Email notifications disabled", err)
			return mailer.NopEmailService{}
		}
		return svc
	default:
		return mailer.NopEmailService{}
	}
}

func newSMSSender(ctx context.Context, cfg *config.Config) notify.SMSSender {
	if !cfg.Notify.SNSEnabled {
		return notify.NopSender{}
	}
	sender, err := notify.NewSNSSender(ctx, cfg.Notify.AWSRegion, cfg.Notify.SMSSenderID)
	if err != nil {
		log.Printf("[WARN] Failed to initialize SNS: %v. SMS notifications disabled", err)
		return notify.NopSender{}
	}
	return sender
}
