package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"github.com/kova98/redditsentiment.api/config"
	"github.com/kova98/redditsentiment.api/data"
	"github.com/kova98/redditsentiment.api/data/repos"
	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/handlers"
	"github.com/kova98/redditsentiment.api/matchers"
	"github.com/kova98/redditsentiment.api/metrics"
	"github.com/kova98/redditsentiment.api/sentiment"
	"github.com/kova98/redditsentiment.api/services"
	"github.com/kova98/redditsentiment.api/sources"
)

var (
	session           *handlers.SessionHandler
	SessionContextKey = "session"
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", config.Config.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	timeout := time.Duration(config.Config.RedditTimeout) * time.Second
	baseClient, err := sources.NewHTTPClient(config.Config.RedditProxyURL, config.Config.RedditUserAgent, timeout)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}
	appClient := sources.NewAppOnlyClient(baseClient, config.Config.RedditClientID, config.Config.RedditClientSecret)
	reddit := sources.NewRedditClient(logger, appClient, baseClient, sources.RedditAPIURL)
	fetcher := sources.NewMentionFetcher(logger, reddit, sources.NewLanguageDetector(config.Config.DetectLanguages))

	subredditRepo := repos.NewSubredditRepo(db)
	keywordRepo := repos.NewKeywordRepo(db)
	cache := services.NewConfigCache(subredditRepo, keywordRepo, config.Config.DefaultKeywords)

	triageStores := map[enums.TriageSet]handlers.TriageStore{}
	triageListers := map[enums.TriageSet]services.TriageLister{}
	for _, set := range enums.TriageSets {
		repo := repos.NewTriageRepo(db, set)
		triageStores[set] = repo
		triageListers[set] = repo
	}

	classifier := matchers.NewOpportunityClassifier(config.Config.OpportunitySignals, config.Config.Competitors)
	aggregator := services.NewAggregator(logger, cache, fetcher, triageListers, sentiment.NewScorer(), classifier, config.Config.MentionLimit)

	oauthConfig := sources.NewUserOAuthConfig(config.Config.RedditClientID, config.Config.RedditClientSecret, config.Config.RedditRedirectURI)
	accountManager := services.NewAccountManager(logger, repos.NewAccountRepo(db), reddit, sources.NewUserOAuth(oauthConfig, baseClient))

	secure := config.Config.IsProduction()
	dashboard := handlers.NewDashboardHandler(logger, aggregator)
	triage := handlers.NewTriageHandler(triageStores)
	monitor := handlers.NewMonitorHandler(subredditRepo, keywordRepo, cache)
	accounts := handlers.NewAccountHandler(logger, accountManager, secure)
	health := handlers.NewHealthHandler(db)
	session = handlers.NewSessionHandler(config.Config.AuthUsername, config.Config.AuthPassword, config.Config.SessionSecret, secure)

	protected := public
	if config.Config.RequireSession {
		protected = private
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /dashboard-data", protected(dashboard.GetDashboard))
	mux.HandleFunc("GET /recent-mentions", protected(dashboard.GetRecentMentions))

	mux.HandleFunc("POST /flag", protected(triage.Add(enums.TriageFlagged)))
	mux.HandleFunc("POST /unflag", protected(triage.Remove(enums.TriageFlagged)))
	mux.HandleFunc("GET /flagged", protected(triage.List(enums.TriageFlagged)))
	mux.HandleFunc("POST /engage", protected(triage.Add(enums.TriageEngaged)))
	mux.HandleFunc("POST /unengage", protected(triage.Remove(enums.TriageEngaged)))
	mux.HandleFunc("GET /engaged", protected(triage.List(enums.TriageEngaged)))
	mux.HandleFunc("POST /ignore", protected(triage.Add(enums.TriageIgnored)))
	mux.HandleFunc("POST /unignore", protected(triage.Remove(enums.TriageIgnored)))
	mux.HandleFunc("GET /ignored", protected(triage.List(enums.TriageIgnored)))

	mux.HandleFunc("GET /monitored-subreddits", protected(monitor.GetSubreddits))
	mux.HandleFunc("POST /monitored-subreddits", protected(monitor.AddSubreddit))
	mux.HandleFunc("DELETE /monitored-subreddits/{name}", protected(monitor.RemoveSubreddit))
	mux.HandleFunc("GET /keywords", protected(monitor.GetKeywords))
	mux.HandleFunc("POST /keywords", protected(monitor.AddKeyword))
	mux.HandleFunc("DELETE /keywords/{name}", protected(monitor.RemoveKeyword))
	mux.HandleFunc("POST /cache/clear", protected(monitor.ClearCache))

	mux.HandleFunc("GET /auth/login", protected(accounts.Login))
	mux.HandleFunc("GET /auth/callback", public(accounts.Callback))
	mux.HandleFunc("GET /accounts", protected(accounts.GetAccounts))
	mux.HandleFunc("DELETE /accounts/{id}", protected(accounts.DeleteAccount))
	mux.HandleFunc("POST /accounts/{id}/status", protected(accounts.UpdateStatus))
	mux.HandleFunc("POST /accounts/{id}/refresh_stats", protected(accounts.RefreshStats))

	mux.HandleFunc("POST /api/login", public(session.Login))
	mux.HandleFunc("GET /api/config", public(session.GetConfig))

	mux.HandleFunc("GET /healthz", public(health.Health))
	mux.Handle("GET /metrics", metrics.Handler())

	server := &http.Server{
		Addr:              ":" + config.Config.Port,
		Handler:           withCORS(mux, config.Config.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("Starting server", "port", config.Config.Port, "require_session", config.Config.RequireSession)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to start server", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("failed to close database connection", "error", err)
	}
}

func withCORS(next http.Handler, origins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(origins, "*") || slices.Contains(origins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func private(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := session.Authenticate(r)
		if result.Code != http.StatusOK {
			slog.Debug("unauthorized request", "path", r.URL.Path)
			writeResult(w, result)
			metrics.ObserveHTTP(r.Method, r.Pattern, result.Code, 0)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, result.Body)

		public(handler)(w, r.WithContext(ctx))
	}
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsed := time.Since(ts)
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsed.Milliseconds())
		metrics.ObserveHTTP(r.Method, r.Pattern, res.Code, elapsed)
		if res.Written {
			return
		}
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code >= http.StatusInternalServerError && res.Error != nil {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
