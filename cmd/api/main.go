package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"agri-advisor/internal/cache"
	"agri-advisor/internal/config"
	httphandler "agri-advisor/internal/http"
	"agri-advisor/internal/ingest"
	"agri-advisor/internal/middleware"
	"agri-advisor/internal/prompts"
	"agri-advisor/internal/repo"
	"agri-advisor/internal/services/advisor"
	"agri-advisor/internal/services/housekeeping"
	"agri-advisor/internal/services/llm"
)

func main() {
	var (
		replayDir = flag.String("replay", "", "Parse saved model replies in a directory and print JSON")
		port      = flag.String("port", "", "Port to run the server on (overrides PORT)")
	)
	flag.Parse()

	setupLogger(config.LoadLog())

	// Replay mode needs no model or storage.
	if *replayDir != "" {
		n, err := ingest.NewReplayer(os.Stdout).ReplayDirectory(*replayDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", *replayDir).Msg("Replay failed")
		}
		log.Info().Int("files", n).Msg("Replay finished")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmClient, err := newLLMClient(cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM client")
	}

	builder := prompts.Default()
	if cfg.Prompts.File != "" {
		builder, err = prompts.Load(cfg.Prompts.File)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Prompts.File).Msg("Failed to load prompt templates")
		}
	}

	// Rate limiter: Redis when configured so limits hold across replicas.
	var (
		limiter    middleware.Limiter
		redisCache *cache.RedisCache
	)
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisCache.Close()
		limiter = middleware.NewRedisLimiter(redisCache, cfg.RateLimit.RequestsPerMinute)
	} else {
		limiter = middleware.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	// Query log is optional.
	var (
		queryLog *repo.QueryLog
		recorder advisor.Recorder
		lister   httphandler.QueryLister
		pinger   func(context.Context) error
	)
	if cfg.QueryLog.DatabaseURL != "" {
		pool, err := repo.NewDB(ctx, cfg.QueryLog.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		queryLog = repo.NewQueryLog(pool)
		if err := queryLog.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to create query log schema")
		}
		recorder, lister, pinger = queryLog, queryLog, pool.Ping
	}

	service := advisor.NewService(llmClient, builder, recorder)

	router := httphandler.NewRouter(limiter, cfg.Server.RequestTimeout)
	router.RegisterAdvisorRoutes(httphandler.NewAdvisorHandler(service))
	router.RegisterQueryLogRoutes(httphandler.NewQueryLogHandler(lister))
	router.RegisterHealthRoutes(func(r *http.Request) error {
		if redisCache != nil {
			if err := redisCache.Ping(r.Context()); err != nil {
				return err
			}
		}
		if pinger != nil {
			return pinger(r.Context())
		}
		return nil
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if queryLog != nil {
		pruner := housekeeping.NewPruner(queryLog, cfg.QueryLog.Retention)
		pruner.Start(gctx, cfg.QueryLog.PruneInterval)
		defer pruner.Stop()
	}

	g.Go(func() error {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("provider", cfg.LLM.Provider).
			Str("model", cfg.LLM.Model).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server error")
	}
	log.Info().Msg("Server stopped")
}

func newLLMClient(cfg config.LLMConfig) (llm.Client, error) {
	if cfg.Provider == config.ProviderOllama {
		return llm.NewOllamaClient(cfg.OllamaURL, cfg.Model, cfg.Timeout)
	}
	return llm.NewOpenAIClient(cfg.APIKey, llm.OpenAIOptions{
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	})
}

func setupLogger(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
