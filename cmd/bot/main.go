package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listabot/internal/api"
	"listabot/internal/bot"
	"listabot/internal/config"
	"listabot/internal/domain"
	"listabot/internal/logging"
	"listabot/internal/models"
	"listabot/internal/repository"
	"listabot/internal/roles"
	"listabot/internal/service"
	"listabot/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listStore, usersTab, adminsTab, err := initStorage(ctx, cfg, &logger)
	if err != nil {
		return err
	}

	redisClient, stateService, stateRepo := initStateService(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	contactRepo := repository.NewContactRepo(listStore)
	contactService := service.NewContactService(contactRepo, &logger)
	reservationService := service.NewReservationService(contactRepo, stateRepo, &logger)
	roleDirectory := roles.New(usersTab, adminsTab, cfg.Roles.UserIDs, cfg.Roles.AdminIDs, &logger)
	metrics := bot.NewMetrics()

	if cfg.API.Enabled {
		apiServer := api.NewHTTPServer(cfg.API, contactRepo, &logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
		defer func() {
			_ = apiServer.Shutdown(context.Background())
		}()
	}

	return startBot(ctx, cfg, stateService, contactService, reservationService, roleDirectory, metrics, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()
	return cfg, logger, closer, nil
}

// initStorage opens the roster backend. With Sheets the role tabs live
// on the same spreadsheet; with CSV they stay nil and roles come from
// config only.
func initStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (listStore, usersTab, adminsTab domain.RowStore, err error) {
	switch cfg.Storage.Backend {
	case "csv":
		csvStore, err := store.NewCSVStore(cfg.Storage.CSVPath)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.Storage.CSVPath).Msg("Failed to open CSV roster")
			return nil, nil, nil, err
		}
		logger.Info().Str("path", cfg.Storage.CSVPath).Msg("Using CSV roster")
		return csvStore, nil, nil, nil

	default:
		client, err := store.NewSheetsClient(ctx, cfg.Storage.Google.CredentialsFile, cfg.Storage.Google.SpreadsheetID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize Google Sheets client")
			return nil, nil, nil, err
		}
		if err := client.TestConnection(ctx, cfg.Storage.Google.ListTab); err != nil {
			logger.Error().Err(err).Msg("Google Sheets connection test failed")
			if email, emailErr := client.ServiceAccountEmail(cfg.Storage.Google.CredentialsFile); emailErr == nil {
				logger.Error().Str("service_account", email).Msg("Share the spreadsheet with this account")
			}
			return nil, nil, nil, err
		}

		listStore = client.OpenTab(cfg.Storage.Google.ListTab, models.CSVHeaders)
		if cfg.Storage.Google.RoleTabs {
			usersTab = client.OpenTab(models.UsersTabName, models.RoleHeaders)
			adminsTab = client.OpenTab(models.AdminsTabName, models.RoleHeaders)
		}
		logger.Info().Str("tab", cfg.Storage.Google.ListTab).Msg("Google Sheets roster initialized")
		return listStore, usersTab, adminsTab, nil
	}
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService, domain.StateRepository) {
	ttl := time.Duration(cfg.Bot.SessionTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(models.DefaultRedisTTL) * time.Second
	}

	fallback := repository.NewMemoryStateRepo()
	var stateRepo domain.StateRepository = fallback

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable, sessions start on the in-memory fallback")
		}
		primary := repository.NewRedisStateRepo(redisClient, ttl)
		stateRepo = repository.NewFailoverStateRepo(primary, fallback, logger)
	} else {
		logger.Info().Msg("Redis not configured, sessions are in-memory only")
	}

	return redisClient, service.NewStateService(stateRepo, logger), stateRepo
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	stateService *service.StateService,
	contactService *service.ContactService,
	reservationService *service.ReservationService,
	roleDirectory *roles.Directory,
	metrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Error().Msg("Set the bot token in config.yaml")
		return os.ErrInvalid
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	telegramBot, err := bot.NewBot(
		tgService, cfg, stateService, contactService,
		reservationService, roleDirectory, metrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create bot")
		return err
	}

	logger.Info().Msg("Bot started")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
