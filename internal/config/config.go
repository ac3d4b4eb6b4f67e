package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"newslens/internal/dashboard"
	"newslens/internal/sentiment"
)

type Config struct {
	Port          int
	DatabaseURL   string
	RedisURL      string
	APIKey        string
	PublicBaseURL string

	AssistantChatURL        string
	AnalysisServiceURL      string
	AnalysisRateLimitPerMin int

	DashboardCacheTTLSecs  int
	DashboardRetentionDays int
	JanitorPollSecs        int

	SentimentBucketBound float64
	SentimentToneBound   float64

	OpenAIAPIKey string
	OpenAIModel  string

	TelegramBotToken string

	SSHPort        int
	SSHHostKeyPath string

	MCPTransport string
	MCPHTTPBind  string
	MCPHTTPPort  int
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		APIKey:             os.Getenv("API_KEY"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		AnalysisServiceURL: strings.TrimSpace(os.Getenv("ANALYSIS_SERVICE_URL")),
		AssistantChatURL:   strings.TrimSpace(os.Getenv("ASSISTANT_CHAT_URL")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, dashboard ingestion is unauthenticated")
	}
	if cfg.AnalysisServiceURL == "" {
		log.Println("Warning: ANALYSIS_SERVICE_URL not set, dashboard search will be disabled")
	}

	cfg.Port = positiveInt("PORT", 8080)

	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	cfg.AnalysisRateLimitPerMin = positiveInt("ANALYSIS_RATE_LIMIT_PER_MIN", 30)
	cfg.DashboardCacheTTLSecs = positiveInt("DASHBOARD_CACHE_TTL_SECS", 3600)
	cfg.DashboardRetentionDays = positiveInt("DASHBOARD_RETENTION_DAYS", 30)
	cfg.JanitorPollSecs = positiveInt("JANITOR_POLL_SECS", 3600)

	cfg.SentimentBucketBound = unitFloat("SENTIMENT_BUCKET_BOUND", 0.2)
	cfg.SentimentToneBound = unitFloat("SENTIMENT_TONE_BOUND", 0.33)

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, comparative narratives will be disabled")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.SSHPort = positiveInt("SSH_PORT", 23234)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/newslens_ed25519"
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}
	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)

	return cfg
}

// DashboardOptions returns the sentiment classifiers for the configured bounds.
func (c *Config) DashboardOptions() dashboard.Options {
	return dashboard.Options{
		Buckets: sentiment.BucketClassifier{Bound: c.SentimentBucketBound},
		Tone:    sentiment.ToneClassifier{Low: -c.SentimentToneBound, High: c.SentimentToneBound},
	}
}

func (c *Config) DashboardCacheTTL() time.Duration {
	return time.Duration(c.DashboardCacheTTLSecs) * time.Second
}

// unitFloat reads a value strictly between 0 and 1.
func unitFloat(name string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 && n < 1 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %v", name, v, def)
	}
	return def
}

func positiveInt(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %d", name, v, def)
	}
	return def
}
