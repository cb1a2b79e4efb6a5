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

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	data := callback.Data
	userID := callback.From.ID

	// Answer right away so the client stops the spinner.
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Failed to answer callback")
	}

	var chatID int64
	var messageID int
	if callback.Message != nil {
		chatID = callback.Message.Chat.ID
		messageID = callback.Message.MessageID
	}
	if chatID == 0 {
		return
	}

	state := b.getUserState(ctx, userID)

	switch {
	case data == "MENU:CLAIM":
		b.claimBatch(ctx, chatID, userID, callback.From)

	case data == "MENU:CANCEL":
		state.ClearFlow()
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "Listo, no se reservó nada.")

	case data == "MENU:RELEASE":
		b.releaseBatch(ctx, chatID, userID)

	case strings.HasPrefix(data, "MENU:EXPORT:"):
		b.handleExportCallback(ctx, chatID, userID, strings.TrimPrefix(data, "MENU:EXPORT:"))

	case strings.HasPrefix(data, "PAGE:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "PAGE:"))
		b.gotoPage(ctx, chatID, messageID, state, page)

	case strings.HasPrefix(data, "EDITPAGE:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "EDITPAGE:"))
		b.gotoPage(ctx, chatID, messageID, state, page)

	case strings.HasPrefix(data, "EDIT:"):
		i, _ := strconv.Atoi(strings.TrimPrefix(data, "EDIT:"))
		b.selectRow(ctx, chatID, messageID, state, i, "EDITPAGE:")

	case strings.HasPrefix(data, "LISTEDIT:"):
		i, _ := strconv.Atoi(strings.TrimPrefix(data, "LISTEDIT:"))
		b.selectRow(ctx, chatID, messageID, state, i, "PAGE:")

	case strings.HasPrefix(data, "SET:"):
		b.handleSetCallback(ctx, chatID, messageID, state, strings.TrimPrefix(data, "SET:"))

	case data == "OBS:CANCEL":
		b.cancelNote(ctx, chatID, messageID, state)

	case strings.HasPrefix(data, "ADD:ST:"):
		b.setAddStatus(ctx, chatID, state, strings.TrimPrefix(data, "ADD:ST:"))

	case strings.HasPrefix(data, "ADMIN:"):
		b.handleAdminCallback(ctx, chatID, userID, state, strings.TrimPrefix(data, "ADMIN:"))
	}
}

func (b *Bot) gotoPage(ctx context.Context, chatID int64, messageID int, state *models.UserState, page int) {
	view := state.Edit
	if view == nil {
		b.sendMessage(chatID, "La vista expiró. Abrí la lista otra vez.")
		return
	}
	view.Page = page
	view.Selected = -1
	b.setUserState(ctx, state)

	b.renderContactPage(b.viewParams(chatID, messageID, view), view)
}

// selectRow shows one contact with the status choice keyboard. back is
// the page-callback prefix of the view the row came from.
func (b *Bot) selectRow(ctx context.Context, chatID int64, messageID int, state *models.UserState, i int, backPrefix string) {
	view := state.Edit
	if view == nil || i < 0 || i >= len(view.Rows) {
		b.sendMessage(chatID, "Esa fila ya no está en la vista. Abrí la lista otra vez.")
		return
	}
	view.Selected = i
	b.setUserState(ctx, state)

	back := fmt.Sprintf("%s%d", backPrefix, view.Page)
	text := formatContactDetail(view.Rows[i]) + "\n¿Qué pasó con este contacto?"
	keyboard := statusKeyboard(i, back)
	if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to show status keyboard")
	}
}

// handleSetCallback parses "SET:<i>:<code>". Contactar Luego opens the
// note dialog instead of committing immediately.
func (b *Bot) handleSetCallback(ctx context.Context, chatID int64, messageID int, state *models.UserState, payload string) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return
	}
	i, err := strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	status, ok := statusByCode[parts[1]]
	if !ok {
		return
	}
	view := state.Edit
	if view == nil || i < 0 || i >= len(view.Rows) {
		b.sendMessage(chatID, "Esa fila ya no está en la vista. Abrí la lista otra vez.")
		return
	}

	if status == models.StatusCallBack {
		view.NoteTarget = i
		state.CurrentStep = models.StepAwaitNote
		b.setUserState(ctx, state)

		keyboard := noteCancelKeyboard()
		text := formatContactDetail(view.Rows[i]) + "\n📝 Escribí la nota (cuándo volver a llamar):"
		if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to ask for note")
		}
		return
	}

	b.commitStatus(ctx, chatID, state, i, status, messageID)
}

// cancelNote backs out of the note dialog. In the edit flow the row is
// left untouched and the browsing view returns; in the add flow the
// contact is saved with an empty note.
func (b *Bot) cancelNote(ctx context.Context, chatID int64, messageID int, state *models.UserState) {
	if state.CurrentStep == models.StepAddContact && state.Add != nil {
		b.finishAddContact(ctx, chatID, state)
		return
	}

	view := state.Edit
	if view == nil {
		state.ClearFlow()
		b.setUserState(ctx, state)
		return
	}
	view.NoteTarget = -1
	view.Selected = -1
	state.CurrentStep = models.StepEditing
	b.setUserState(ctx, state)

	b.renderContactPage(b.viewParams(chatID, messageID, view), view)
}

func (b *Bot) handleAdminCallback(ctx context.Context, chatID, userID int64, state *models.UserState, payload string) {
	if !b.isAdmin(ctx, userID) {
		b.sendMessage(chatID, "⛔ Solo los administradores pueden hacer eso.")
		return
	}

	switch payload {
	case "LIST":
		b.showRoleList(ctx, chatID)
	case "ADD:USER":
		b.startAdminFlow(ctx, chatID, state, "add", "usuario")
	case "ADD:ADMIN":
		b.startAdminFlow(ctx, chatID, state, "add", "admin")
	case "DEL:USER":
		b.startAdminFlow(ctx, chatID, state, "del", "usuario")
	case "DEL:ADMIN":
		b.startAdminFlow(ctx, chatID, state, "del", "admin")
	}
}

func (b *Bot) handleExportCallback(ctx context.Context, chatID, userID int64, format string) {
	switch format {
	case "GCSV":
		b.exportGoogleCSV(ctx, chatID, userID)
	case "VCF":
		b.exportVCard(ctx, chatID, userID)
	case "CARDS":
		b.exportContactCards(ctx, chatID, userID)
	case "XLSX":
		if !b.isAdmin(ctx, userID) {
			b.sendMessage(chatID, "⛔ La exportación a Excel es solo para administradores.")
			return
		}
		b.exportExcel(ctx, chatID)
	}
}
