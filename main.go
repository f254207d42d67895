package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/Amaranth-us/legal-advisor/pkg/api"
	"github.com/Amaranth-us/legal-advisor/pkg/chatgpt"
	"github.com/Amaranth-us/legal-advisor/pkg/database"
	"github.com/Amaranth-us/legal-advisor/pkg/domain"
	"github.com/Amaranth-us/legal-advisor/pkg/logger"
	"github.com/Amaranth-us/legal-advisor/pkg/prompt"
	"github.com/Amaranth-us/legal-advisor/pkg/repository"
	"github.com/Amaranth-us/legal-advisor/pkg/retry"
	"github.com/Amaranth-us/legal-advisor/pkg/service"
	"github.com/Amaranth-us/legal-advisor/pkg/services"
)

type Config struct {
	OpenAIToken       string        `env:"OPEN_AI_TOKEN,required"`
	OpenAIModel       string        `env:"OPEN_AI_MODEL" envDefault:"gpt-3.5-turbo"`
	OpenAITemperature float64       `env:"OPEN_AI_TEMPERATURE" envDefault:"0.7"`
	Port              string        `env:"PORT" envDefault:"8000"`
	PgURL             string        `env:"DATABASE_URL"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:" " envDefault:"*"`
	MaxTotalTokens    int           `env:"MAX_TOTAL_TOKENS" envDefault:"4096"`
	MaxResponseTokens int           `env:"MAX_RESPONSE_TOKENS" envDefault:"500"`
	RetryMaxAttempts  int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay    time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`
	RetryMaxDelay     time.Duration `env:"RETRY_MAX_DELAY" envDefault:"10s"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	serviceGroup, err := setupServices()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return serviceGroup.Run(ctx)
}

func setupServices() (service.Group, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	budget := domain.TokenBudget{
		MaxTotalTokens:    cfg.MaxTotalTokens,
		MaxResponseTokens: cfg.MaxResponseTokens,
	}
	if err := budget.Validate(); err != nil {
		return nil, fmt.Errorf("validating token budget: %w", err)
	}

	policy := retry.Policy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
	}

	var historyRepository services.SessionHistoryRepository
	if cfg.PgURL != "" {
		db, err := database.NewPostgres(cfg.PgURL)
		if err != nil {
			return nil, fmt.Errorf("creating db: %w", err)
		}
		historyRepository = repository.NewSessionHistoryRepository(db)
	} else {
		slog.Warn("DATABASE_URL not set, session history is kept in memory")
		historyRepository = repository.NewMemorySessionHistoryRepository()
	}

	completionClient, err := chatgpt.NewClient(chatgpt.Config{
		Token:             cfg.OpenAIToken,
		Model:             cfg.OpenAIModel,
		Temperature:       float32(cfg.OpenAITemperature),
		MaxResponseTokens: cfg.MaxResponseTokens,
		Retry:             policy,
	})
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	tokenizer := prompt.HeuristicTokenizer{}
	counter := prompt.NewCounter(tokenizer, cfg.OpenAIModel)
	trimmer := prompt.NewTrimmer(counter, tokenizer, cfg.OpenAIModel)

	chatService := services.NewChatService(completionClient, trimmer, historyRepository, budget)
	sessionService := services.NewSessionService(historyRepository)

	router := api.NewRouter(chatService, sessionService, cfg.AllowedOrigins)

	return service.Group{
		service.NewRESTServer(":"+cfg.Port, router),
	}, nil
}
