// Command mcp serves the outlet_sentiment and sentiment_buckets tools over the
// Model Context Protocol, on stdio or streamable HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newslens/internal/cache"
	"newslens/internal/config"
	"newslens/internal/db"
	"newslens/internal/repository"
	"newslens/internal/service"
	"newslens/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		return tracing.InitNamedTracer(ctx, tracing.ServiceName+"-mcp")
	}
	newStoreFunc = func(tracer trace.Tracer) service.DashboardStore {
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
	runStdioFunc = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	fatalf                 = log.Fatalf
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	// stdout carries the protocol on stdio, so logs go to stderr.
	log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)
	defer db.Close()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		fatalf("failed to initialize tracer: %v", err)
		return
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	opts := cfg.DashboardOptions()
	dashboards := service.NewDashboardService(tracer, newStoreFunc(tracer), newRedisFunc(),
		nil, nil, opts, cfg.DashboardCacheTTL())
	server := newServer(dashboards, opts.Tone)

	if cfg.MCPTransport != "http" {
		log.Println("MCP server running on stdio")
		if err := runStdioFunc(ctx, server); err != nil {
			fatalf("mcp stdio: %v", err)
		}
		return
	}

	addr := fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort)
	srv := &http.Server{
		Addr: addr,
		Handler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("MCP server listening on http://%s", addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Printf("MCP server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down MCP server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Printf("MCP server shutdown error: %v", err)
	}
}
