package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	PostgresURL        string
	RedditClientID     string
	RedditClientSecret string
	RedditRedirectURI  string
	RedditUserAgent    string
	RedditProxyURL     string
	RedditTimeout      int // seconds
	SessionSecret      string
	AuthUsername       string
	AuthPassword       string
	RequireSession     bool
	DefaultKeywords    []string
	OpportunitySignals []string
	Competitors        []string
	DetectLanguages    []string
	MentionLimit       int
	CORSOrigins        []string
	Port               string
	AppEnv             string // EnvDevelopment or EnvProduction
	LogLevel           slog.Level
}

var Config AppConfig

var (
	defaultKeywords    = "Cleverbridge,Merchant of Record,MoR,scaling"
	defaultSignals     = "help,alternative,pricing,recommend,looking for,switch,cost,fees,billing,payment"
	defaultCompetitors = "fastspring,paddle,stripe,chargebee,lemon squeezy,2checkout"
	defaultCORSOrigins = "http://localhost:5173,http://localhost:8080,http://localhost:8081"
)

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.RedditClientID = loadRequired("REDDIT_CLIENT_ID")
	cfg.RedditClientSecret = loadRequired("REDDIT_CLIENT_SECRET")
	cfg.RedditRedirectURI = loadOptional("REDDIT_REDIRECT_URI", "http://localhost:8000/auth/callback")
	cfg.RedditUserAgent = loadOptional("REDDIT_USER_AGENT", "redditsentiment/1.0")
	cfg.RedditProxyURL = os.Getenv("REDDIT_PROXY_URL")
	cfg.RedditTimeout = loadInt("REDDIT_TIMEOUT_SECONDS", 10)
	cfg.SessionSecret = os.Getenv("SESSION_SECRET_KEY")
	cfg.AuthUsername = loadOptional("AUTH_USERNAME", "admin")
	cfg.AuthPassword = loadOptional("AUTH_PASSWORD", "reddit123")
	cfg.RequireSession = loadBool("REQUIRE_SESSION", false)
	cfg.DefaultKeywords = splitList(loadOptional("DEFAULT_KEYWORDS", defaultKeywords))
	cfg.OpportunitySignals = splitList(loadOptional("OPPORTUNITY_SIGNALS", defaultSignals))
	cfg.Competitors = splitList(loadOptional("COMPETITORS", defaultCompetitors))
	cfg.DetectLanguages = splitList(loadOptional("DETECT_LANGUAGES", "en,de,fr,es"))
	cfg.MentionLimit = loadInt("MENTION_LIMIT", 25)
	cfg.CORSOrigins = splitList(loadOptional("CORS_ORIGINS", defaultCORSOrigins))
	cfg.Port = loadOptional("PORT", "8000")

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Error("Invalid integer env var, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func loadBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Error("Invalid boolean env var, using default", "key", key, "value", value)
		return defaultValue
	}
	return b
}

// splitList parses a comma separated list, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
