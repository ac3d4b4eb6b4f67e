package config

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "API_KEY", "PUBLIC_BASE_URL",
		"ASSISTANT_CHAT_URL", "ANALYSIS_SERVICE_URL", "ANALYSIS_RATE_LIMIT_PER_MIN",
		"DASHBOARD_CACHE_TTL_SECS", "DASHBOARD_RETENTION_DAYS", "JANITOR_POLL_SECS",
		"SENTIMENT_BUCKET_BOUND", "SENTIMENT_TONE_BOUND", "OPENAI_API_KEY", "OPENAI_MODEL",
		"TELEGRAM_BOT_TOKEN", "SSH_PORT", "SSH_HOST_KEY_PATH",
		"MCP_TRANSPORT", "MCP_HTTP_BIND", "MCP_HTTP_PORT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.PublicBaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected default base url %s", cfg.PublicBaseURL)
	}
	if cfg.DashboardCacheTTLSecs != 3600 || cfg.DashboardRetentionDays != 30 || cfg.JanitorPollSecs != 3600 {
		t.Fatalf("unexpected dashboard defaults: %+v", cfg)
	}
	if cfg.AnalysisRateLimitPerMin != 30 {
		t.Fatalf("expected rate limit 30, got %d", cfg.AnalysisRateLimitPerMin)
	}
	if cfg.SentimentBucketBound != 0.2 || cfg.SentimentToneBound != 0.33 {
		t.Fatalf("unexpected sentiment bounds: %v %v", cfg.SentimentBucketBound, cfg.SentimentToneBound)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" || cfg.SSHPort != 23234 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MCPTransport != "stdio" || cfg.MCPHTTPBind != "127.0.0.1" || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected mcp defaults: %+v", cfg)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("PUBLIC_BASE_URL", "https://lens.example/")
	t.Setenv("DASHBOARD_CACHE_TTL_SECS", "60")
	t.Setenv("SENTIMENT_BUCKET_BOUND", "0.1")
	t.Setenv("MCP_TRANSPORT", "HTTP")

	cfg := Load()
	if cfg.Port != 9000 || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.PublicBaseURL != "https://lens.example" {
		t.Fatalf("trailing slash should be trimmed, got %s", cfg.PublicBaseURL)
	}
	if cfg.DashboardCacheTTLSecs != 60 || cfg.SentimentBucketBound != 0.1 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.MCPTransport != "http" {
		t.Fatalf("expected http transport, got %s", cfg.MCPTransport)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_RETENTION_DAYS", "bad")
	t.Setenv("SENTIMENT_TONE_BOUND", "3")
	t.Setenv("MCP_TRANSPORT", "grpc")

	cfg := Load()
	if cfg.DashboardRetentionDays != 30 {
		t.Fatalf("invalid retention should fall back to default, got %d", cfg.DashboardRetentionDays)
	}
	if cfg.SentimentToneBound != 0.33 {
		t.Fatalf("out of range tone bound should fall back, got %v", cfg.SentimentToneBound)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("unsupported transport should fall back to stdio, got %s", cfg.MCPTransport)
	}
}

func TestLoadWarnsOnInvalidSentimentBounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTIMENT_BUCKET_BOUND", "wide")
	t.Setenv("SENTIMENT_TONE_BOUND", "-0.5")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cfg := Load()
	if cfg.SentimentBucketBound != 0.2 || cfg.SentimentToneBound != 0.33 {
		t.Fatalf("invalid bounds should fall back: %v %v", cfg.SentimentBucketBound, cfg.SentimentToneBound)
	}
	out := buf.String()
	for _, want := range []string{
		`Warning: invalid SENTIMENT_BUCKET_BOUND="wide", using 0.2`,
		`Warning: invalid SENTIMENT_TONE_BOUND="-0.5", using 0.33`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in log output:\n%s", want, out)
		}
	}
}

func TestDashboardOptions(t *testing.T) {
	cfg := &Config{SentimentBucketBound: 0.25, SentimentToneBound: 0.4, DashboardCacheTTLSecs: 90}

	opts := cfg.DashboardOptions()
	if opts.Buckets.Bound != 0.25 {
		t.Fatalf("unexpected bucket bound %v", opts.Buckets.Bound)
	}
	if opts.Tone.Low != -0.4 || opts.Tone.High != 0.4 {
		t.Fatalf("unexpected tone band %+v", opts.Tone)
	}
	if cfg.DashboardCacheTTL().Seconds() != 90 {
		t.Fatalf("unexpected ttl %v", cfg.DashboardCacheTTL())
	}
}
