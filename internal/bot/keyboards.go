package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnLista    = "📋 Lista"
	btnPending  = "⏳ Pendientes"
	btnMyBatch  = "✏️ Mi tanda"
	btnRelease  = "🔓 Liberar tanda"
	btnAccepted = "✅ Aceptados"
	btnRejected = "❌ Rechazados"
	btnSummary  = "📊 Resumen"
	btnAdd      = "➕ Agregar contacto"
	btnExport   = "📤 Exportar"
	btnAdmin    = "👑 Admin"
)

func (b *Bot) mainMenuKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPending),
			tgbotapi.NewKeyboardButton(btnMyBatch),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLista),
			tgbotapi.NewKeyboardButton(btnSummary),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAccepted),
			tgbotapi.NewKeyboardButton(btnRejected),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdd),
			tgbotapi.NewKeyboardButton(btnExport),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRelease),
			tgbotapi.NewKeyboardButton(btnAdmin),
		))
	} else {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRelease),
		))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// statusKeyboard offers the final statuses for the contact at position i
// of the current edit view. back is the callback that re-renders the list.
func statusKeyboard(i int, back string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Aceptado", fmt.Sprintf("SET:%d:ACC", i)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Rechazado", fmt.Sprintf("SET:%d:REJ", i)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📵 Número incorrecto", fmt.Sprintf("SET:%d:WRONG", i)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🕐 Contactar Luego", fmt.Sprintf("SET:%d:LATER", i)),
			tgbotapi.NewInlineKeyboardButtonData("⏳ Pendiente", fmt.Sprintf("SET:%d:PEND", i)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver", back),
		),
	)
}

func previewKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Editar esta tanda", "MENU:CLAIM"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancelar", "MENU:CANCEL"),
		),
	)
}

func exportKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📇 Google Contacts (CSV)", "MENU:EXPORT:GCSV"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📲 vCard (.vcf)", "MENU:EXPORT:VCF"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Tarjetas de contacto", "MENU:EXPORT:CARDS"),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Excel (planilla completa)", "MENU:EXPORT:XLSX"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 Ver usuarios", "ADMIN:LIST"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Usuario", "ADMIN:ADD:USER"),
			tgbotapi.NewInlineKeyboardButtonData("➕ Admin", "ADMIN:ADD:ADMIN"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖ Usuario", "ADMIN:DEL:USER"),
			tgbotapi.NewInlineKeyboardButtonData("➖ Admin", "ADMIN:DEL:ADMIN"),
		),
	)
}

// addStatusKeyboard picks the initial status of a hand-added contact.
func addStatusKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Pendiente", "ADD:ST:PEND"),
			tgbotapi.NewInlineKeyboardButtonData("✅ Aceptado", "ADD:ST:ACC"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Rechazado", "ADD:ST:REJ"),
			tgbotapi.NewInlineKeyboardButtonData("🕐 Contactar Luego", "ADD:ST:LATER"),
		),
	)
}

func noteCancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Omitir nota", "OBS:CANCEL"),
		),
	)
}
