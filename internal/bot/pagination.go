package bot

import (
	"fmt"
	"strings"

	"listabot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type PaginationParams struct {
	ChatID    int64
	MessageID int // 0 sends a new message instead of editing
	Title     string
	// ItemPrefix and PagePrefix build the per-row and navigation
	// callbacks ("EDIT:"/"EDITPAGE:" or "LISTEDIT:"/"PAGE:").
	ItemPrefix string
	PagePrefix string
	// Footer rows appended below the navigation.
	Footer [][]tgbotapi.InlineKeyboardButton
}

// renderContactPage draws one page of an edit view: numbered contact
// lines, one button per row, and prev/next navigation. The view's Page
// is clamped against the current row count before rendering.
func (b *Bot) renderContactPage(params PaginationParams, view *models.EditView) {
	perPage := view.PageSize
	if perPage <= 0 {
		perPage = models.EditPageSize
	}

	total := len(view.Rows)
	totalPages := (total + perPage - 1) / perPage
	if view.Page >= totalPages && totalPages > 0 {
		view.Page = totalPages - 1
	}
	if view.Page < 0 {
		view.Page = 0
	}

	startIdx := view.Page * perPage
	endIdx := startIdx + perPage
	if endIdx > total {
		endIdx = total
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("%s\n\n", params.Title))
	if totalPages > 1 {
		message.WriteString(fmt.Sprintf("Página %d de %d\n\n", view.Page+1, totalPages))
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	if total == 0 {
		message.WriteString("No hay contactos para mostrar.")
	}
	for i := startIdx; i < endIdx; i++ {
		c := view.Rows[i]
		message.WriteString(formatContactLine(i+1, c))
		message.WriteString("\n")

		btn := tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d. %s", i+1, contactDisplayName(c)),
			fmt.Sprintf("%s%d", params.ItemPrefix, i),
		)
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
	}

	var navButtons []tgbotapi.InlineKeyboardButton
	if view.Page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Anterior", fmt.Sprintf("%s%d", params.PagePrefix, view.Page-1)))
	}
	if endIdx < total {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Siguiente ➡️", fmt.Sprintf("%s%d", params.PagePrefix, view.Page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}
	keyboard = append(keyboard, params.Footer...)

	// the API rejects an empty inline keyboard
	if len(keyboard) == 0 {
		b.sendMessage(params.ChatID, message.String())
		return
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	if params.MessageID != 0 {
		if _, err := b.tgService.EditMessage(params.ChatID, params.MessageID, message.String(), &markup); err != nil {
			b.logger.Error().Err(err).Msg("Failed to edit paginated message")
		}
		return
	}
	if _, err := b.tgService.SendWithInlineKeyboard(params.ChatID, message.String(), markup); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send paginated message")
	}
}

// viewParams maps an edit view's source to its callback grammar.
func (b *Bot) viewParams(chatID int64, messageID int, view *models.EditView) PaginationParams {
	params := PaginationParams{
		ChatID:    chatID,
		MessageID: messageID,
		Title:     view.Title,
	}
	if view.Source == models.EditSourceClaim {
		params.ItemPrefix = "EDIT:"
		params.PagePrefix = "EDITPAGE:"
		params.Footer = [][]tgbotapi.InlineKeyboardButton{{
			tgbotapi.NewInlineKeyboardButtonData("🔓 Liberar tanda", "MENU:RELEASE"),
		}}
	} else {
		params.ItemPrefix = "LISTEDIT:"
		params.PagePrefix = "PAGE:"
	}
	return params
}
