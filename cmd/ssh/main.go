package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"newslens/internal/cache"
	"newslens/internal/clipboard"
	"newslens/internal/config"
	"newslens/internal/dashboard"
	"newslens/internal/db"
	"newslens/internal/export"
	"newslens/internal/repository"
	"newslens/internal/service"
	"newslens/internal/tui"
	"newslens/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

const usage = "usage: ssh -t <host> <dashboard-id>"

// ctxKey is a typed context key to avoid collisions.
type ctxKey string

const dashboardKey ctxKey = "dashboard"

// DashboardLoader loads the chart model of a stored comparison.
type DashboardLoader interface {
	Dashboard(ctx context.Context, id string) (*dashboard.Dashboard, error)
}

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		return tracing.InitNamedTracer(ctx, tracing.ServiceName+"-ssh")
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
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// Read-only: sessions never search, so no analyzer or narrator.
	dashboards := service.NewDashboardService(tracer, newStoreFunc(tracer), newRedisFunc(),
		nil, nil, cfg.DashboardOptions(), cfg.DashboardCacheTTL())

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), gossh.FingerprintSHA256(key))
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				return sessionModel(s, cfg)
			}),
			loadDashboardMiddleware(dashboards),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}

// loadDashboardMiddleware resolves the session command to a dashboard before
// the TUI starts and ends sessions that name none.
func loadDashboardMiddleware(dashboards DashboardLoader) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			d, err := loadDashboard(s.Context(), dashboards, s.Command())
			if err != nil {
				wish.Fatalln(s, err.Error())
				return
			}
			s.Context().SetValue(dashboardKey, d)
			next(s)
		}
	}
}

func loadDashboard(ctx context.Context, dashboards DashboardLoader, command []string) (*dashboard.Dashboard, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New(usage)
	}
	id := strings.TrimSpace(command[0])
	d, err := dashboards.Dashboard(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		return nil, fmt.Errorf("dashboard %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load dashboard %s: %w", id, err)
	}
	return d, nil
}

func sessionModel(s ssh.Session, cfg *config.Config) (tea.Model, []tea.ProgramOption) {
	d, ok := s.Context().Value(dashboardKey).(*dashboard.Dashboard)
	if !ok {
		return nil, nil
	}
	pty, _, _ := s.Pty()
	clip := clipboard.NewOSC52(s, strings.HasPrefix(pty.Term, "screen"))
	shareURL := export.ShareLink(cfg.PublicBaseURL, d.Comparison().ID)

	model := tui.New(s.Context(), d, clip, shareURL, cfg.AssistantChatURL)
	model.SetSize(pty.Window.Width, pty.Window.Height)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}
