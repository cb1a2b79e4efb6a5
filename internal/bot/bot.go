package bot

import (
	"context"
	"os"
	"time"

	"listabot/internal/config"
	"listabot/internal/domain"
	"listabot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	stateService domain.StateManager
	contacts     *service.ContactService
	reservations domain.ReservationManager
	roles        domain.RoleDirectory
	metrics      *Metrics
	logger       *zerolog.Logger

	// openAccess is true when no user or admin IDs are configured and the
	// role tabs are disabled; the bot then answers anyone who finds it.
	openAccess bool
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	stateService domain.StateManager,
	contacts *service.ContactService,
	reservations domain.ReservationManager,
	roles domain.RoleDirectory,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	openAccess := len(config.Roles.UserIDs) == 0 &&
		len(config.Roles.AdminIDs) == 0 &&
		!config.Storage.Google.RoleTabs

	return &Bot{
		tgService:    tgService,
		config:       config,
		stateService: stateService,
		contacts:     contacts,
		reservations: reservations,
		roles:        roles,
		metrics:      metrics,
		logger:       logger,
		openAccess:   openAccess,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(update, func() {
		if b.metrics != nil {
			b.metrics.UpdatesProcessed.Inc()
		}

		var userID int64
		if update.Message != nil {
			userID = update.Message.From.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
		}

		if userID == 0 {
			return
		}

		if !b.isAuthorized(updateCtx, userID) {
			if update.Message != nil {
				b.sendMessage(update.Message.Chat.ID,
					"⛔ No estás autorizado para usar este bot. Pedile acceso a un administrador.")
			}
			l.Warn().Int64("user_id", userID).Msg("Unauthorized access attempt")
			return
		}

		if !b.isAdmin(updateCtx, userID) {
			allowed, err := b.stateService.CheckRateLimit(updateCtx, userID,
				b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				l.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
			} else if !allowed {
				l.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
				if update.Message != nil {
					b.sendMessage(update.Message.Chat.ID,
						"⚠️ Estás enviando mensajes demasiado rápido. Esperá un momento, por favor.")
				}
				return
			}
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update)
			return
		}

		if update.Message == nil {
			return
		}

		b.handleMessage(updateCtx, update)
	})
}

func (b *Bot) isAuthorized(ctx context.Context, userID int64) bool {
	if b.openAccess {
		return true
	}
	return b.roles.IsAllowed(ctx, userID)
}

func (b *Bot) isAdmin(ctx context.Context, userID int64) bool {
	return b.roles.IsAdmin(ctx, userID)
}
