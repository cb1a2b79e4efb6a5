package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"listabot/internal/domain"
	"listabot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	text := strings.TrimSpace(msg.Text)
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, update)
		return
	}

	if strings.EqualFold(text, "reset") {
		b.autoRelease(ctx, chatID, userID)
		b.clearFlow(ctx, userID)
		b.handleMainMenu(ctx, update)
		return
	}

	// Menu buttons act like commands regardless of the current step.
	switch text {
	case btnLista:
		b.showList(ctx, chatID, userID)
		return
	case btnPending:
		b.showPendingPreview(ctx, chatID, userID)
		return
	case btnMyBatch:
		b.showClaimedBatch(ctx, chatID, userID, 0)
		return
	case btnRelease:
		b.releaseBatch(ctx, chatID, userID)
		return
	case btnAccepted:
		b.showByStatus(ctx, chatID, userID, models.StatusAccepted)
		return
	case btnRejected:
		b.showByStatus(ctx, chatID, userID, models.StatusRejected)
		return
	case btnSummary:
		b.showSummary(ctx, chatID)
		return
	case btnAdd:
		b.startAddContact(ctx, chatID, userID)
		return
	case btnExport:
		b.showExportMenu(ctx, chatID, userID)
		return
	case btnAdmin:
		b.showAdminPanel(ctx, chatID, userID)
		return
	}

	// Anything else is step input for an in-flight conversation.
	state := b.getUserState(ctx, userID)
	switch state.CurrentStep {
	case models.StepAwaitNote:
		b.handleNoteInput(ctx, chatID, state, text)
	case models.StepAddContact:
		b.handleAddContactInput(ctx, chatID, state, text)
	case models.StepAdminAdd:
		b.handleAdminAddInput(ctx, chatID, state, text)
	case models.StepAdminRemove:
		b.handleAdminRemoveInput(ctx, chatID, state, text)
	default:
		b.handleMainMenu(ctx, update)
	}
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "menu":
		b.autoRelease(ctx, chatID, userID)
		b.clearFlow(ctx, userID)
		b.handleMainMenu(ctx, update)
	case "get_lista":
		b.showList(ctx, chatID, userID)
	case "get_pendientes":
		b.claimBatch(ctx, chatID, userID, msg.From)
	case "get_aceptados":
		b.showByStatus(ctx, chatID, userID, models.StatusAccepted)
	case "get_rechazados":
		b.showByStatus(ctx, chatID, userID, models.StatusRejected)
	case "gen_contacts":
		b.exportGoogleCSV(ctx, chatID, userID)
	case "vcard":
		b.exportVCard(ctx, chatID, userID)
	case "add":
		b.startAddContact(ctx, chatID, userID)
	case "whoami":
		b.showWhoAmI(ctx, chatID, msg.From)
	default:
		b.sendMessage(chatID, "No conozco ese comando. Usá /menu para ver las opciones.")
	}
}

func (b *Bot) handleMainMenu(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	keyboard := b.mainMenuKeyboard(b.isAdmin(ctx, userID))
	if _, err := b.tgService.SendWithKeyboard(chatID,
		"¡Hola! Soy el asistente de la lista de contactos. ¿Qué hacemos?", keyboard); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send main menu")
	}
}

// showList opens the whole roster as a browsable, editable view.
func (b *Bot) showList(ctx context.Context, chatID, userID int64) {
	contacts, err := b.contacts.List(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(contacts) == 0 {
		b.sendMessage(chatID, "La lista está vacía.")
		return
	}

	view := &models.EditView{
		Rows:       contacts,
		PageSize:   b.listPageSize(),
		Source:     models.EditSourceAll,
		Title:      fmt.Sprintf("📋 Lista completa (%d contactos)", len(contacts)),
		Selected:   -1,
		NoteTarget: -1,
	}
	b.openView(ctx, chatID, userID, view)
}

func (b *Bot) showByStatus(ctx context.Context, chatID, userID int64, status string) {
	contacts, err := b.contacts.ByStatus(ctx, status)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(contacts) == 0 {
		b.sendMessage(chatID, fmt.Sprintf("No hay contactos con estado %q.", status))
		return
	}

	view := &models.EditView{
		Rows:       contacts,
		PageSize:   b.listPageSize(),
		Source:     status,
		Title:      fmt.Sprintf("%s %s (%d)", statusEmoji(status), status, len(contacts)),
		Selected:   -1,
		NoteTarget: -1,
	}
	b.openView(ctx, chatID, userID, view)
}

func (b *Bot) openView(ctx context.Context, chatID, userID int64, view *models.EditView) {
	state := b.getUserState(ctx, userID)
	state.CurrentStep = models.StepEditing
	state.Edit = view
	b.setUserState(ctx, state)

	b.renderContactPage(b.viewParams(chatID, 0, view), view)
}

// showPendingPreview shows the next batch without claiming it. The rows
// are pinned in the session so a following claim binds them.
func (b *Bot) showPendingPreview(ctx context.Context, chatID, userID int64) {
	limit := b.claimLimit()
	rows, err := b.reservations.Preview(ctx, userID, limit)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(rows) == 0 {
		b.sendMessage(chatID, "🎉 No quedan contactos pendientes. ¡Buen trabajo!")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "⏳ Próxima tanda de pendientes (%d):\n\n", len(rows))
	for i, c := range rows {
		sb.WriteString(formatContactLine(i+1, c))
		sb.WriteString("\n")
	}
	sb.WriteString("¿Tomás esta tanda? Quedará marcada a tu nombre.")

	if _, err := b.tgService.SendWithInlineKeyboard(chatID, sb.String(), previewKeyboard()); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send pending preview")
	}
}

// claimBatch claims without preview (the classic /get_pendientes path).
func (b *Bot) claimBatch(ctx context.Context, chatID, userID int64, from *tgbotapi.User) {
	owner := b.ownerLabel(ctx, from)
	claimed, err := b.reservations.Claim(ctx, userID, owner, b.claimLimit())
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(claimed) == 0 {
		b.sendMessage(chatID, "🎉 No quedan contactos pendientes. ¡Buen trabajo!")
		return
	}
	if b.metrics != nil {
		b.metrics.ClaimsTotal.Inc()
		b.metrics.ClaimedRows.Add(float64(len(claimed)))
	}

	b.sendMessage(chatID, fmt.Sprintf("📞 Tanda reservada: %d contactos a nombre de %s.", len(claimed), owner))

	if b.config.Bot.SendContactCards {
		b.sendContactCards(ctx, chatID, claimed)
	}
	b.showClaimedBatch(ctx, chatID, userID, 0)
}

// showClaimedBatch renders the user's active reservation as the edit view.
func (b *Bot) showClaimedBatch(ctx context.Context, chatID, userID int64, messageID int) {
	rows, err := b.reservations.ActiveRows(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(rows) == 0 {
		b.sendMessage(chatID, "No tenés contactos en tu tanda. Pedí una con «⏳ Pendientes».")
		return
	}

	view := &models.EditView{
		Rows:       rows,
		PageSize:   b.editPageSize(),
		Source:     models.EditSourceClaim,
		Title:      fmt.Sprintf("✏️ Tu tanda (%d sin resolver)", len(rows)),
		Selected:   -1,
		NoteTarget: -1,
	}
	state := b.getUserState(ctx, userID)
	state.CurrentStep = models.StepEditing
	state.Edit = view
	b.setUserState(ctx, state)

	b.renderContactPage(b.viewParams(chatID, messageID, view), view)
}

// autoRelease returns an unresolved batch to the pool when its owner
// walks back to the main menu instead of finishing it.
func (b *Bot) autoRelease(ctx context.Context, chatID, userID int64) {
	released, err := b.reservations.Release(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNothingReserved) {
			b.sendMessage(chatID, b.getErrorMessage(err))
		}
		return
	}
	if b.metrics != nil {
		b.metrics.ReleasesTotal.Inc()
	}
	if released > 0 {
		b.sendMessage(chatID, fmt.Sprintf("🔓 Tu tanda sin resolver volvió a Pendiente (%d contactos).", released))
	}
}

func (b *Bot) releaseBatch(ctx context.Context, chatID, userID int64) {
	released, err := b.reservations.Release(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if b.metrics != nil {
		b.metrics.ReleasesTotal.Inc()
	}
	if released == 0 {
		b.sendMessage(chatID, "✅ Tanda cerrada. Todos los contactos quedaron resueltos.")
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("🔓 Tanda liberada: %d contactos volvieron a Pendiente.", released))
}

func (b *Bot) showSummary(ctx context.Context, chatID int64) {
	counts, err := b.contacts.Summary(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	statuses := make([]string, 0, len(counts))
	total := 0
	for s, n := range counts {
		statuses = append(statuses, s)
		total += n
	}
	sort.Strings(statuses)

	var sb strings.Builder
	sb.WriteString("📊 Resumen de la lista:\n\n")
	for _, s := range statuses {
		fmt.Fprintf(&sb, "%s %s: %d\n", statusEmoji(s), s, counts[s])
	}
	fmt.Fprintf(&sb, "\nTotal: %d contactos", total)
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) showWhoAmI(ctx context.Context, chatID int64, from *tgbotapi.User) {
	role := "usuario"
	if b.isAdmin(ctx, from.ID) {
		role = "admin"
	}
	b.sendMessage(chatID, fmt.Sprintf("🪪 ID: %d\nNombre: %s\nRol: %s", from.ID, b.ownerLabel(ctx, from), role))
}

func (b *Bot) listPageSize() int {
	if b.config.Bot.ListPageSize > 0 {
		return b.config.Bot.ListPageSize
	}
	return models.ListPageSize
}

func (b *Bot) editPageSize() int {
	if b.config.Bot.EditPageSize > 0 {
		return b.config.Bot.EditPageSize
	}
	return models.EditPageSize
}

func (b *Bot) claimLimit() int {
	if b.config.Bot.ClaimLimit > 0 {
		return b.config.Bot.ClaimLimit
	}
	return models.DefaultClaimLimit
}
