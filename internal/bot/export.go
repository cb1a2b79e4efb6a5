package bot

import (
	"context"
	"fmt"
	"time"

	"listabot/internal/export"
	"listabot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) showExportMenu(ctx context.Context, chatID, userID int64) {
	if _, err := b.tgService.SendWithInlineKeyboard(chatID,
		"📤 ¿En qué formato? Si tenés una tanda reservada se exporta la tanda, si no, la lista completa.",
		exportKeyboard(b.isAdmin(ctx, userID))); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send export menu")
	}
}

// exportRows picks what gets exported: the user's active batch when one
// exists, the whole roster otherwise.
func (b *Bot) exportRows(ctx context.Context, userID int64) ([]models.Contact, string, error) {
	rows, err := b.reservations.ActiveRows(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if len(rows) > 0 {
		return rows, "tanda", nil
	}
	all, err := b.contacts.List(ctx)
	if err != nil {
		return nil, "", err
	}
	return all, "lista", nil
}

func exportFileName(scope, ext string) string {
	return fmt.Sprintf("%s_%s.%s", scope, time.Now().Format("2006-01-02"), ext)
}

func (b *Bot) exportGoogleCSV(ctx context.Context, chatID, userID int64) {
	rows, scope, err := b.exportRows(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	data, err := export.GoogleContactsCSV(rows)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if b.metrics != nil {
		b.metrics.ExportsTotal.WithLabelValues("gcsv").Inc()
	}
	caption := fmt.Sprintf("📇 %d contactos, listos para importar en Google Contacts.", len(rows))
	if _, err := b.tgService.SendDocument(chatID, exportFileName(scope, "csv"), data, caption); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send CSV export")
		b.sendMessage(chatID, "❌ No pude mandar el archivo. Probá de nuevo.")
	}
}

func (b *Bot) exportVCard(ctx context.Context, chatID, userID int64) {
	rows, scope, err := b.exportRows(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	data := export.VCard(rows)
	if len(data) == 0 {
		b.sendMessage(chatID, "Ninguno de esos contactos tiene teléfono, no hay nada que exportar.")
		return
	}
	if b.metrics != nil {
		b.metrics.ExportsTotal.WithLabelValues("vcf").Inc()
	}
	caption := fmt.Sprintf("📲 %d contactos en vCard.", len(rows))
	if _, err := b.tgService.SendDocument(chatID, exportFileName(scope, "vcf"), data, caption); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send vCard export")
		b.sendMessage(chatID, "❌ No pude mandar el archivo. Probá de nuevo.")
	}
}

func (b *Bot) exportContactCards(ctx context.Context, chatID, userID int64) {
	rows, _, err := b.exportRows(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendContactCards(ctx, chatID, rows)
}

// sendContactCards pushes each row as a native Telegram contact card so
// the number is tappable on the phone. Rows without a phone are skipped.
func (b *Bot) sendContactCards(ctx context.Context, chatID int64, rows []models.Contact) {
	sent := 0
	for _, c := range rows {
		if c.Phone == "" {
			continue
		}
		card := tgbotapi.NewContact(chatID, c.Phone, c.FirstName)
		card.LastName = c.LastName
		if _, err := b.tgService.Send(card); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("phone", c.Phone).Msg("Failed to send contact card")
			continue
		}
		sent++
	}
	if b.metrics != nil {
		b.metrics.ExportsTotal.WithLabelValues("cards").Inc()
	}
	if sent == 0 {
		b.sendMessage(chatID, "Ninguno de esos contactos tiene teléfono para mandar como tarjeta.")
	}
}

func (b *Bot) exportExcel(ctx context.Context, chatID int64) {
	rows, err := b.contacts.List(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	data, err := export.Excel(rows)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if b.metrics != nil {
		b.metrics.ExportsTotal.WithLabelValues("xlsx").Inc()
	}
	caption := fmt.Sprintf("📊 Planilla completa, %d contactos.", len(rows))
	if _, err := b.tgService.SendDocument(chatID, exportFileName("lista", "xlsx"), data, caption); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send Excel export")
		b.sendMessage(chatID, "❌ No pude mandar el archivo. Probá de nuevo.")
	}
}
