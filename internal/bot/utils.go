package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"listabot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Short codes used in callback data so status literals with spaces and
// accents never travel inside callback payloads.
var statusByCode = map[string]string{
	"ACC":   models.StatusAccepted,
	"REJ":   models.StatusRejected,
	"WRONG": models.StatusWrongNumber,
	"LATER": models.StatusCallBack,
	"PEND":  models.StatusPending,
}

func statusEmoji(status string) string {
	switch {
	case status == models.StatusAccepted:
		return "✅"
	case status == models.StatusRejected:
		return "❌"
	case status == models.StatusWrongNumber:
		return "📵"
	case status == models.StatusCallBack:
		return "🕐"
	case models.IsInContact(status):
		return "📞"
	default:
		return "⏳"
	}
}

func (b *Bot) getUserState(ctx context.Context, userID int64) *models.UserState {
	state, err := b.stateService.GetUserState(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("Failed to load user state")
		return models.NewUserState(userID)
	}
	return state
}

func (b *Bot) setUserState(ctx context.Context, state *models.UserState) {
	if err := b.stateService.SetUserState(ctx, state); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", state.UserID).Msg("Failed to save user state")
	}
}

func (b *Bot) clearFlow(ctx context.Context, userID int64) {
	state := b.getUserState(ctx, userID)
	state.ClearFlow()
	b.setUserState(ctx, state)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// ownerLabel is the name written into the claim tag. Resolution order:
// name recorded in a role tab, @username, full Telegram name, numeric ID.
func (b *Bot) ownerLabel(ctx context.Context, user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if name := b.roles.DisplayName(ctx, user.ID); name != "" {
		return name
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	full := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if full != "" {
		return full
	}
	return strconv.FormatInt(user.ID, 10)
}

func formatContactLine(n int, c models.Contact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s %s", n, c.FirstName, c.LastName)
	if c.Phone != "" {
		fmt.Fprintf(&sb, " — 📱 %s", c.Phone)
	}
	fmt.Fprintf(&sb, "\n   %s %s", statusEmoji(c.Status), models.CleanStatusForDisplay(c.Status))
	if c.Note != "" {
		fmt.Fprintf(&sb, "\n   📝 %s", c.Note)
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatContactDetail(c models.Contact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 %s %s\n", c.FirstName, c.LastName)
	if c.Phone != "" {
		fmt.Fprintf(&sb, "📱 %s\n", c.Phone)
	}
	if c.NationalID != "" {
		fmt.Fprintf(&sb, "🪪 %s\n", c.NationalID)
	}
	fmt.Fprintf(&sb, "%s %s\n", statusEmoji(c.Status), models.CleanStatusForDisplay(c.Status))
	if c.Note != "" {
		fmt.Fprintf(&sb, "📝 %s\n", c.Note)
	}
	return sb.String()
}

func contactDisplayName(c models.Contact) string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		name = c.Phone
	}
	return name
}
