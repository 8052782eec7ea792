package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"civilpass_backend/internal/config"
	"civilpass_backend/internal/controller"
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/prompt"
	"civilpass_backend/internal/repository"
	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/configwatcher"
	"civilpass_backend/pkg/database"
	"civilpass_backend/pkg/logger"
	"civilpass_backend/pkg/monitoring"
	"civilpass_backend/pkg/security"
	"civilpass_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	essayReview  *repository.EssayReviewRepository
	qa           *repository.QARepository
	uploadRecord *repository.UploadRecordRepository
	session      *repository.SessionRepository
	kv           repository.KVStore
}

type services struct {
	ai         *service.AIService
	ner        *service.AIService
	storage    *service.StorageService
	graph      *service.KnowledgeGraphBuilder
	essay      *service.EssayService
	chat       *service.ChatService
	material   *service.MaterialService
	news       *service.NewsService
	experience *service.ExperienceService
	calendar   *service.CalendarService
	upload     *service.UploadService
	auth       *service.AuthService
}

type controllers struct {
	essay      *controller.EssayController
	chat       *controller.ChatController
	material   *controller.MaterialController
	news       *controller.NewsController
	experience *controller.ExperienceController
	calendar   *controller.CalendarController
	admin      *controller.AdminController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	// 未配置 redis 时会话与缓存保存在进程内
	kv := repository.NewKVStore(rdb)
	return &repositories{
		essayReview:  repository.NewEssayReviewRepository(db),
		qa:           repository.NewQARepository(db),
		uploadRecord: repository.NewUploadRecordRepository(db),
		session:      repository.NewSessionRepository(kv),
		kv:           kv,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}
	prompts := prompt.MustLoad()

	s.ai = service.NewAIService(cfg.AI)
	s.ner = service.NewNERService(cfg.AI)
	s.storage = service.NewStorageService(cfg, service.NewObjectCache(repos.kv, cfg.App.CacheTTL))
	s.graph = service.NewKnowledgeGraphBuilder(service.NewLLMEntityRecognizer(s.ner, prompts))

	essayAI := service.NewEssayAI(s.ai, prompts)
	s.essay = service.NewEssayService(
		service.NewEssayLoop(essayAI, essayAI, model.RubricLabels()),
		repos.essayReview,
		cfg.Essay,
	)

	s.chat = service.NewChatService(s.ai, s.graph, prompts, repos.session, repos.qa, s.storage)
	s.material = service.NewMaterialService(s.storage)
	s.news = service.NewNewsService(s.storage, cfg.App.CacheTTL)
	s.experience = service.NewExperienceService(s.storage, repos.uploadRecord)
	s.calendar = service.NewCalendarService(s.storage)
	s.upload = service.NewUploadService(s.storage, repos.uploadRecord, s.news, cfg)
	s.auth = service.NewAuthService(cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		essay:      controller.NewEssayController(s.essay),
		chat:       controller.NewChatController(s.chat),
		material:   controller.NewMaterialController(s.material),
		news:       controller.NewNewsController(s.news),
		experience: controller.NewExperienceController(s.experience),
		calendar:   controller.NewCalendarController(s.calendar),
		admin:      controller.NewAdminController(s.auth, s.upload),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloadCallbacks 配置文件变更后可热更新的项：模型名与批改默认参数
func (a *App) registerReloadCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if cfg.AI.Model != s.ai.Model() {
			logger.Log.Info("chat model changed", zap.String("from", s.ai.Model()), zap.String("to", cfg.AI.Model))
			s.ai.SetModel(cfg.AI.Model)
		}
		s.ner.SetModel(cfg.AI.NERModelOrDefault())
		s.essay.UpdateDefaults(cfg.Essay)
	})
}

func (a *App) reload(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)
	app.registerReloadCallbacks(services)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("civilpass", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if configFile := a.Config.ConfigFile; configFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, filepath.Clean(configFile), a.reload); err != nil {
				logger.Log.Error("config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
