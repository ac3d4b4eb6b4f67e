package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"newslens/internal/bot"
	"newslens/internal/cache"
	"newslens/internal/config"
	"newslens/internal/db"
	"newslens/internal/handler"
	"newslens/internal/job"
	"newslens/internal/narrative"
	"newslens/internal/provider"
	"newslens/internal/repository"
	"newslens/internal/service"
	"newslens/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "newslens/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newStoreFunc     = func(tracer trace.Tracer) service.DashboardStore {
		if db.Pool == nil {
			return nil
		}
		return repository.NewDashboardRepository(db.Pool, tracer)
	}
	newRedisFunc = func() service.RedisClient {
		if cache.Client == nil {
			return nil
		}
		return cache.Client
	}
	newAnalyzerFunc = func(tracer trace.Tracer, cfg *config.Config) service.Analyzer {
		if cfg.AnalysisServiceURL == "" {
			return nil
		}
		return provider.NewAnalysisProvider(tracer, cfg.AnalysisServiceURL, cfg.AnalysisRateLimitPerMin)
	}
	newNarratorFunc = func(tracer trace.Tracer, cfg *config.Config) service.Narrator {
		if cfg.OpenAIAPIKey == "" {
			return nil
		}
		var rdb narrative.RedisClient
		if cache.Client != nil {
			rdb = cache.Client
		}
		return narrative.NewService(tracer, narrative.NewOpenAIClient(cfg.OpenAIAPIKey), rdb, cfg.OpenAIModel)
	}
	newDashboardServiceFunc = service.NewDashboardService
	newJanitorFunc          = job.NewJanitor
	startJanitorFunc        = func(j *job.Janitor, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc    = bot.StartTelegramBot
	newHandlerFunc          = handler.New
	newRouterFunc           = gin.Default
	setupSignalNotify       = signal.Notify
	waitForSignalFunc       = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc     = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc  = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Newslens API
// @version         1.0
// @description     Compares news coverage and sentiment of two search queries.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres is optional; without it dashboards live in Redis only.
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)
	defer db.Close()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	store := newStoreFunc(tracer)
	dashboards := newDashboardServiceFunc(
		tracer,
		store,
		newRedisFunc(),
		newAnalyzerFunc(tracer, cfg),
		newNarratorFunc(tracer, cfg),
		cfg.DashboardOptions(),
		cfg.DashboardCacheTTL(),
	)

	if store != nil {
		janitor := newJanitorFunc(tracer, dashboards, cfg.DashboardRetentionDays, cfg.JanitorPollSecs)
		startJanitorFunc(janitor, ctx)
	}

	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(dashboards, cfg.PublicBaseURL)

	h := newHandlerFunc(tracer, dashboards, cfg.PublicBaseURL, cfg.AssistantChatURL)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
