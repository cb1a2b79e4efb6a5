package bot

import (
	"context"
	"strings"
	"testing"

	"listabot/internal/config"
	"listabot/internal/models"
	"listabot/internal/repository"
	"listabot/internal/roles"
	"listabot/internal/service"
	"listabot/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = int64(100)
	testAdminID = int64(200)
)

// fakeTelegram records everything the bot sends.
type fakeTelegram struct {
	texts     []string
	documents []string
	contacts  []tgbotapi.Contact
	keyboards []tgbotapi.InlineKeyboardMarkup
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.texts = append(f.texts, v.Text)
	case tgbotapi.ContactConfig:
		f.contacts = append(f.contacts, tgbotapi.Contact{
			PhoneNumber: v.PhoneNumber,
			FirstName:   v.FirstName,
			LastName:    v.LastName,
		})
	}
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	f.texts = append(f.texts, text)
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeTelegram) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	f.texts = append(f.texts, text)
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeTelegram) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	f.texts = append(f.texts, text)
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeTelegram) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	f.texts = append(f.texts, text)
	f.keyboards = append(f.keyboards, keyboard)
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeTelegram) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	f.texts = append(f.texts, text)
	if keyboard != nil {
		f.keyboards = append(f.keyboards, *keyboard)
	}
	return tgbotapi.Message{MessageID: messageID}, nil
}

func (f *fakeTelegram) SendDocument(chatID int64, name string, data []byte, caption string) (tgbotapi.Message, error) {
	f.documents = append(f.documents, name)
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeTelegram) AnswerCallback(callbackID string, text string) error { return nil }

func (f *fakeTelegram) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return nil
}

func (f *fakeTelegram) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "listabot_test"}
}

func (f *fakeTelegram) StopReceivingUpdates() {}

func (f *fakeTelegram) lastText() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

func (f *fakeTelegram) allText() string {
	return strings.Join(f.texts, "\n---\n")
}

type botFixture struct {
	bot   *Bot
	tg    *fakeTelegram
	store *store.MemoryStore
}

func newBotFixture(t *testing.T, rows [][]string) *botFixture {
	t.Helper()
	logger := zerolog.Nop()

	mem := store.NewMemoryStore(rows)
	contactRepo := repository.NewContactRepo(mem)
	stateRepo := repository.NewMemoryStateRepo()

	contactSvc := service.NewContactService(contactRepo, &logger)
	stateSvc := service.NewStateService(stateRepo, &logger)
	reservationSvc := service.NewReservationService(contactRepo, stateRepo, &logger)
	dir := roles.New(nil, nil, []int64{testUserID}, []int64{testAdminID}, &logger)

	cfg := &config.Config{}
	cfg.Bot = config.BotConfig{
		ClaimLimit:        3,
		EditPageSize:      5,
		ListPageSize:      10,
		RateLimitMessages: 1000,
		RateLimitWindow:   60,
	}
	cfg.Roles = config.RolesConfig{UserIDs: []int64{testUserID}, AdminIDs: []int64{testAdminID}}

	tg := &fakeTelegram{}
	b, err := NewBot(tg, cfg, stateSvc, contactSvc, reservationSvc, dir, nil, &logger)
	require.NoError(t, err)

	return &botFixture{bot: b, tg: tg, store: mem}
}

func messageUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 10,
			Text:      text,
			From:      &tgbotapi.User{ID: userID, FirstName: "Test"},
			Chat:      &tgbotapi.Chat{ID: userID},
		},
	}
}

func commandUpdate(userID int64, command string) tgbotapi.Update {
	u := messageUpdate(userID, command)
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command)},
	}
	return u
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			Data: data,
			From: &tgbotapi.User{ID: userID, FirstName: "Test"},
			Message: &tgbotapi.Message{
				MessageID: 42,
				Chat:      &tgbotapi.Chat{ID: userID},
			},
		},
	}
}

func pendingRoster(n int) [][]string {
	rows := make([][]string, 0, n)
	names := []string{"Ana", "Bruno", "Carla", "Diego", "Elena", "Fabián"}
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			names[i%len(names)], "García",
			"1155500" + string(rune('0'+i)), "", models.StatusPending, "",
		})
	}
	return rows
}

func TestStartShowsMenu(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))

	f.bot.processUpdate(context.Background(), commandUpdate(testUserID, "/start"))

	assert.Contains(t, f.tg.lastText(), "asistente")
}

func TestUnauthorizedUserIsRejected(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))

	f.bot.processUpdate(context.Background(), messageUpdate(999, btnLista))

	assert.Contains(t, f.tg.lastText(), "No estás autorizado")
}

func TestOpenAccessWhenNoRolesConfigured(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))
	f.bot.config.Roles = config.RolesConfig{}
	f.bot.openAccess = true

	f.bot.processUpdate(context.Background(), commandUpdate(999, "/whoami"))

	assert.Contains(t, f.tg.lastText(), "ID: 999")
}

func TestPendingPreviewDoesNotClaim(t *testing.T) {
	f := newBotFixture(t, pendingRoster(4))

	f.bot.processUpdate(context.Background(), messageUpdate(testUserID, btnPending))

	assert.Contains(t, f.tg.lastText(), "Próxima tanda")
	for _, row := range f.store.Rows() {
		assert.Equal(t, models.StatusPending, row[models.ColStatus])
	}
}

func TestClaimCallbackTagsRows(t *testing.T) {
	f := newBotFixture(t, pendingRoster(4))
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnPending))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "MENU:CLAIM"))

	tagged := 0
	for _, row := range f.store.Rows() {
		if models.IsInContact(row[models.ColStatus]) {
			tagged++
		}
	}
	assert.Equal(t, 3, tagged)
	assert.Contains(t, f.tg.allText(), "Tanda reservada")
}

func TestSetStatusFromListView(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnLista))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "LISTEDIT:0"))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "SET:0:ACC"))

	assert.Equal(t, models.StatusAccepted, f.store.Rows()[0][models.ColStatus])
}

func TestCallBackLaterAsksForNote(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnLista))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "SET:0:LATER"))

	assert.Contains(t, f.tg.lastText(), "nota")

	f.bot.processUpdate(ctx, messageUpdate(testUserID, "llamar el viernes"))

	row := f.store.Rows()[0]
	assert.Equal(t, models.StatusCallBack, row[models.ColStatus])
	assert.Equal(t, "llamar el viernes", row[models.ColNote])
}

func TestNoteCancelLeavesRowUntouched(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnLista))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "SET:1:LATER"))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "OBS:CANCEL"))

	row := f.store.Rows()[1]
	assert.Equal(t, models.StatusPending, row[models.ColStatus])
	assert.Equal(t, "", row[models.ColNote])
}

func TestMenuCommandReleasesUnresolvedBatch(t *testing.T) {
	f := newBotFixture(t, pendingRoster(3))
	ctx := context.Background()

	f.bot.processUpdate(ctx, commandUpdate(testUserID, "/get_pendientes"))
	f.bot.processUpdate(ctx, commandUpdate(testUserID, "/menu"))

	for _, row := range f.store.Rows() {
		assert.Equal(t, models.StatusPending, row[models.ColStatus])
	}
	assert.Contains(t, f.tg.allText(), "volvió a Pendiente")
}

func TestResetReleasesUnresolvedBatch(t *testing.T) {
	f := newBotFixture(t, pendingRoster(3))
	ctx := context.Background()

	f.bot.processUpdate(ctx, commandUpdate(testUserID, "/get_pendientes"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "reset"))

	for _, row := range f.store.Rows() {
		assert.Equal(t, models.StatusPending, row[models.ColStatus])
	}
	assert.Contains(t, f.tg.allText(), "volvió a Pendiente")
}

func TestPendingExhaustedIsFriendly(t *testing.T) {
	f := newBotFixture(t, [][]string{
		{"Ana", "", "111", "", models.StatusAccepted, ""},
	})

	f.bot.processUpdate(context.Background(), messageUpdate(testUserID, btnPending))

	assert.Contains(t, f.tg.lastText(), "No quedan contactos pendientes")
}

func TestReleaseRevertsClaimedRows(t *testing.T) {
	f := newBotFixture(t, pendingRoster(3))
	ctx := context.Background()

	f.bot.processUpdate(ctx, commandUpdate(testUserID, "/get_pendientes"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnRelease))

	assert.Contains(t, f.tg.lastText(), "volvieron a Pendiente")
	for _, row := range f.store.Rows() {
		assert.Equal(t, models.StatusPending, row[models.ColStatus])
	}
}

func TestAddContactConversation(t *testing.T) {
	f := newBotFixture(t, pendingRoster(1))
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnAdd))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "Marta"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "Suárez"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "11 4444-5555"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "-"))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "ADD:ST:ACC"))

	rows := f.store.Rows()
	require.Len(t, rows, 2)
	added := rows[1]
	assert.Equal(t, "Marta", added[models.ColFirstName])
	assert.Equal(t, "1144445555", added[models.ColPhone])
	assert.Equal(t, models.StatusAccepted, added[models.ColStatus])
	assert.Contains(t, f.tg.lastText(), "agregado")
}

func TestAddContactUpsertsByPhone(t *testing.T) {
	f := newBotFixture(t, [][]string{
		{"Ana", "García", "1155500077", "", models.StatusAccepted, ""},
	})
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnAdd))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "Ana María"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "García"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "11 5550-0077"))
	f.bot.processUpdate(ctx, messageUpdate(testUserID, "-"))
	f.bot.processUpdate(ctx, callbackUpdate(testUserID, "ADD:ST:PEND"))

	rows := f.store.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana María", rows[0][models.ColFirstName])
	// the operator picked Pendiente, so the row goes back into rotation
	assert.Equal(t, models.StatusPending, rows[0][models.ColStatus])
	assert.Contains(t, f.tg.lastText(), "actualizado")
}

func TestAdminPanelRequiresAdmin(t *testing.T) {
	f := newBotFixture(t, pendingRoster(1))
	ctx := context.Background()

	f.bot.processUpdate(ctx, messageUpdate(testUserID, btnAdmin))
	assert.Contains(t, f.tg.lastText(), "administradores")

	f.bot.processUpdate(ctx, messageUpdate(testAdminID, btnAdmin))
	assert.Contains(t, f.tg.lastText(), "Panel de administración")
}

func TestSummaryCountsStatuses(t *testing.T) {
	f := newBotFixture(t, [][]string{
		{"Ana", "", "111", "", models.StatusPending, ""},
		{"Bea", "", "222", "", models.StatusAccepted, ""},
		{"Car", "", "333", "", models.StatusAccepted, ""},
	})

	f.bot.processUpdate(context.Background(), messageUpdate(testUserID, btnSummary))

	text := f.tg.lastText()
	assert.Contains(t, text, "Aceptado: 2")
	assert.Contains(t, text, "Pendiente: 1")
	assert.Contains(t, text, "Total: 3")
}

func TestExportVCardSendsDocument(t *testing.T) {
	f := newBotFixture(t, pendingRoster(2))

	f.bot.processUpdate(context.Background(), commandUpdate(testUserID, "/vcard"))

	require.Len(t, f.tg.documents, 1)
	assert.Contains(t, f.tg.documents[0], ".vcf")
}

func TestGetPendientesClaimsAndLists(t *testing.T) {
	f := newBotFixture(t, pendingRoster(5))

	f.bot.processUpdate(context.Background(), commandUpdate(testUserID, "/get_pendientes"))

	tagged := 0
	for _, row := range f.store.Rows() {
		if models.IsInContact(row[models.ColStatus]) {
			tagged++
		}
	}
	assert.Equal(t, 3, tagged)
	assert.Contains(t, f.tg.allText(), "Tu tanda")
}
