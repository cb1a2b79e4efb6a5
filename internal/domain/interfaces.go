package domain

import (
	"context"
	"time"

	"listabot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RowStore is the raw tabular backend. ReadAll returns every physical
// row, header first, so callers can map hand-typed header variants.
// OverwriteAll takes data rows only and writes the canonical header
// itself. UpdateCell addresses the physical sheet: row 1 is the header,
// data starts at row 2; col is 0-based into models.CSVHeaders.
type RowStore interface {
	ReadAll(ctx context.Context) ([][]string, error)
	OverwriteAll(ctx context.Context, rows [][]string) error
	UpdateCell(ctx context.Context, row, col int, value string) error
	AppendRow(ctx context.Context, row []string) error
}

// TabOpener is implemented by backends that expose multiple named tabs
// (the roles directory lives on auxiliary tabs of the same spreadsheet).
// The header defines the tab's column set and width.
type TabOpener interface {
	OpenTab(name string, header []string) RowStore
}

// UpsertResult says what an upsert did.
type UpsertResult int

const (
	UpsertInserted UpsertResult = iota
	UpsertUpdated
)

// ContactRepository presents the roster as typed contacts over a RowStore.
type ContactRepository interface {
	ReadAll(ctx context.Context) ([]models.Contact, error)
	Overwrite(ctx context.Context, contacts []models.Contact) error
	Upsert(ctx context.Context, c models.Contact) (UpsertResult, error)
	// UpdateStatus rewrites the Estado cell of the row matching target,
	// resolving it by exact content first and business key second.
	UpdateStatus(ctx context.Context, target models.Contact, status, note string) error
	FilterByStatus(ctx context.Context, status string) ([]models.Contact, error)
	Append(ctx context.Context, c models.Contact) error
}

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetUserState(ctx context.Context, state *models.UserState) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// ReservationManager implements the claim protocol: take a batch of
// pending rows, tag them with the owner, later release whatever remains
// unresolved back to pending.
type ReservationManager interface {
	// Preview returns up to limit pending rows without claiming them and
	// records them in the user's session so a following Claim binds the
	// same rows.
	Preview(ctx context.Context, userID int64, limit int) ([]models.Contact, error)
	// Claim reserves up to limit pending rows for the owner label and
	// returns the claimed batch.
	Claim(ctx context.Context, userID int64, owner string, limit int) ([]models.Contact, error)
	// ActiveRows returns the still-unresolved rows of the user's
	// reservation as currently stored.
	ActiveRows(ctx context.Context, userID int64) ([]models.Contact, error)
	// Release reverts the unresolved claimed rows to pending and clears
	// the reservation. Returns how many rows were reverted.
	Release(ctx context.Context, userID int64) (int, error)
}

// RoleDirectory answers who may use the bot and who administers it.
type RoleDirectory interface {
	IsAllowed(ctx context.Context, userID int64) bool
	IsAdmin(ctx context.Context, userID int64) bool
	DisplayName(ctx context.Context, userID int64) string
	Users(ctx context.Context) ([]models.RoleEntry, error)
	Admins(ctx context.Context) ([]models.RoleEntry, error)
	AddUser(ctx context.Context, e models.RoleEntry, admin bool) error
	RemoveUser(ctx context.Context, userID int64, admin bool) error
	Refresh(ctx context.Context) error
}

// MessageSink is the one-way reply channel conversation flows write to.
// Handlers depend on this instead of the full Telegram API so flows can
// be exercised with a recording fake.
type MessageSink interface {
	SendText(chatID int64, text string) error
}

// TelegramSender is the thin surface of the Bot API client.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, name string, data []byte, caption string) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
