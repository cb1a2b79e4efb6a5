package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"listabot/internal/domain"
	"listabot/internal/models"

	"github.com/rs/zerolog"
)

// --- Contactar Luego note dialog ---

func (b *Bot) handleNoteInput(ctx context.Context, chatID int64, state *models.UserState, text string) {
	view := state.Edit
	if view == nil || view.NoteTarget < 0 || view.NoteTarget >= len(view.Rows) {
		state.ClearFlow()
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "Se perdió el contacto que estabas anotando. Abrí la lista otra vez.")
		return
	}

	target := view.Rows[view.NoteTarget]
	if err := b.contacts.SetStatus(ctx, target, models.StatusCallBack, text); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if b.metrics != nil {
		b.metrics.StatusChanges.WithLabelValues(models.StatusCallBack).Inc()
	}

	b.sendMessage(chatID, fmt.Sprintf("🕐 %s quedó para contactar luego, con nota.", contactDisplayName(target)))
	b.refreshView(ctx, chatID, state, 0)
}

// commitStatus writes the chosen status for row i of the edit view and
// re-renders it from fresh data. Non-CallBack statuses carry no note.
func (b *Bot) commitStatus(ctx context.Context, chatID int64, state *models.UserState, i int, status string, messageID int) {
	view := state.Edit
	if view == nil || i < 0 || i >= len(view.Rows) {
		b.sendMessage(chatID, "Esa fila ya no está en la vista. Abrí la lista otra vez.")
		return
	}

	target := view.Rows[i]
	if err := b.contacts.SetStatus(ctx, target, status, ""); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if b.metrics != nil {
		b.metrics.StatusChanges.WithLabelValues(status).Inc()
	}

	b.refreshView(ctx, chatID, state, messageID)
}

// refreshView re-reads the rows of the current edit view from its source
// and redraws it. Claimed views refresh through the reservation so rows
// resolved meanwhile drop out.
func (b *Bot) refreshView(ctx context.Context, chatID int64, state *models.UserState, messageID int) {
	view := state.Edit
	if view == nil {
		return
	}

	var (
		rows []models.Contact
		err  error
	)
	switch view.Source {
	case models.EditSourceClaim:
		rows, err = b.reservations.ActiveRows(ctx, state.UserID)
	case models.EditSourceAll:
		rows, err = b.contacts.List(ctx)
	default:
		rows, err = b.contacts.ByStatus(ctx, view.Source)
	}
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if view.Source == models.EditSourceClaim && len(rows) == 0 {
		state.ClearFlow()
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "🎉 Resolviste toda la tanda. Liberala o pedí otra con «⏳ Pendientes».")
		return
	}

	view.Rows = rows
	view.Selected = -1
	view.NoteTarget = -1
	if view.Source == models.EditSourceClaim {
		view.Title = fmt.Sprintf("✏️ Tu tanda (%d sin resolver)", len(rows))
	}
	state.CurrentStep = models.StepEditing
	b.setUserState(ctx, state)

	b.renderContactPage(b.viewParams(chatID, messageID, view), view)
}

// --- add-contact conversation ---

const (
	addFieldFirstName = "first_name"
	addFieldLastName  = "last_name"
	addFieldPhone     = "phone"
	addFieldDNI       = "dni"
	addFieldNote      = "note"
)

func (b *Bot) startAddContact(ctx context.Context, chatID, userID int64) {
	state := b.getUserState(ctx, userID)
	state.ClearFlow()
	state.CurrentStep = models.StepAddContact
	state.Add = &models.AddDraft{Field: addFieldFirstName}
	b.setUserState(ctx, state)

	b.sendMessage(chatID, "➕ Nuevo contacto.\n\n¿Nombre? (escribí «reset» para cancelar)")
}

func (b *Bot) handleAddContactInput(ctx context.Context, chatID int64, state *models.UserState, text string) {
	draft := state.Add
	if draft == nil {
		state.ClearFlow()
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "Se perdió el alta en curso. Empezá de nuevo con «➕ Agregar contacto».")
		return
	}

	switch draft.Field {
	case addFieldFirstName:
		if text == "" {
			b.sendMessage(chatID, "El nombre no puede quedar vacío. ¿Nombre?")
			return
		}
		draft.Contact.FirstName = text
		draft.Field = addFieldLastName
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "¿Apellido? (mandá «-» si no tiene)")

	case addFieldLastName:
		if text != "-" {
			draft.Contact.LastName = text
		}
		draft.Field = addFieldPhone
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "¿Teléfono?")

	case addFieldPhone:
		phone := models.CleanPhone(text)
		if phone == "" {
			b.sendMessage(chatID, "Ese teléfono no parece válido. Probá otra vez.")
			return
		}
		draft.Contact.Phone = phone
		draft.Field = addFieldDNI
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "¿DNI? (mandá «-» para omitirlo)")

	case addFieldDNI:
		if text != "-" {
			draft.Contact.NationalID = text
		}
		b.setUserState(ctx, state)
		detail := formatContactDetail(draft.Contact)
		if _, err := b.tgService.SendWithInlineKeyboard(chatID,
			detail+"\n¿Con qué estado lo guardo?", addStatusKeyboard()); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send add-contact status keyboard")
		}

	case addFieldNote:
		draft.Contact.Note = text
		b.finishAddContact(ctx, chatID, state)

	default:
		state.ClearFlow()
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "Se perdió el alta en curso. Empezá de nuevo con «➕ Agregar contacto».")
	}
}

// setAddStatus is driven by the ADD:ST:<code> callbacks.
func (b *Bot) setAddStatus(ctx context.Context, chatID int64, state *models.UserState, code string) {
	draft := state.Add
	if draft == nil {
		b.sendMessage(chatID, "Se perdió el alta en curso. Empezá de nuevo con «➕ Agregar contacto».")
		return
	}
	status, ok := statusByCode[code]
	if !ok {
		return
	}
	draft.Contact.Status = status

	if status == models.StatusCallBack {
		draft.Field = addFieldNote
		b.setUserState(ctx, state)
		if _, err := b.tgService.SendWithInlineKeyboard(chatID,
			"📝 Escribí la nota para este contacto:", noteCancelKeyboard()); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to ask for add-contact note")
		}
		return
	}
	b.finishAddContact(ctx, chatID, state)
}

func (b *Bot) finishAddContact(ctx context.Context, chatID int64, state *models.UserState) {
	draft := state.Add
	result, err := b.contacts.Add(ctx, draft.Contact)

	state.ClearFlow()
	b.setUserState(ctx, state)

	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	verb := "agregado"
	if result == domain.UpsertUpdated {
		verb = "actualizado"
	}
	b.sendMessage(chatID, fmt.Sprintf("✅ Contacto %s: %s", verb, contactDisplayName(draft.Contact)))
}

// --- admin role management ---

func (b *Bot) showAdminPanel(ctx context.Context, chatID, userID int64) {
	if !b.isAdmin(ctx, userID) {
		b.sendMessage(chatID, "⛔ Solo los administradores pueden entrar acá.")
		return
	}
	if _, err := b.tgService.SendWithInlineKeyboard(chatID,
		"👑 Panel de administración:", adminKeyboard()); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send admin panel")
	}
}

func (b *Bot) showRoleList(ctx context.Context, chatID int64) {
	users, err := b.roles.Users(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	admins, err := b.roles.Admins(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Usuarios permitidos:\n")
	if len(users) == 0 {
		sb.WriteString("  (ninguno)\n")
	}
	for _, e := range users {
		fmt.Fprintf(&sb, "  • %d %s\n", e.UserID, e.Name)
	}
	sb.WriteString("\n👑 Admins:\n")
	if len(admins) == 0 {
		sb.WriteString("  (ninguno)\n")
	}
	for _, e := range admins {
		fmt.Fprintf(&sb, "  • %d %s\n", e.UserID, e.Name)
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) startAdminFlow(ctx context.Context, chatID int64, state *models.UserState, action, role string) {
	state.ClearFlow()
	state.Admin = &models.AdminDraft{Role: role, Action: action}
	if action == "add" {
		state.CurrentStep = models.StepAdminAdd
		b.sendMessage(chatID, "Mandame «ID nombre», por ejemplo: 123456789 Carla")
	} else {
		state.CurrentStep = models.StepAdminRemove
		b.sendMessage(chatID, "Mandame el ID a quitar, por ejemplo: 123456789")
	}
	b.setUserState(ctx, state)
}

func (b *Bot) handleAdminAddInput(ctx context.Context, chatID int64, state *models.UserState, text string) {
	draft := state.Admin
	if draft == nil {
		state.ClearFlow()
		b.setUserState(ctx, state)
		return
	}

	parts := strings.SplitN(text, " ", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		b.sendMessage(chatID, "Ese ID no es válido. Mandame «ID nombre».")
		return
	}
	name := ""
	if len(parts) == 2 {
		name = strings.TrimSpace(parts[1])
	}

	entry := models.RoleEntry{UserID: id, Name: name}
	if err := b.roles.AddUser(ctx, entry, draft.Role == "admin"); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	state.ClearFlow()
	b.setUserState(ctx, state)
	b.sendMessage(chatID, fmt.Sprintf("✅ %d agregado como %s.", id, draft.Role))
}

func (b *Bot) handleAdminRemoveInput(ctx context.Context, chatID int64, state *models.UserState, text string) {
	draft := state.Admin
	if draft == nil {
		state.ClearFlow()
		b.setUserState(ctx, state)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		b.sendMessage(chatID, "Ese ID no es válido. Mandame solo el número.")
		return
	}

	if err := b.roles.RemoveUser(ctx, id, draft.Role == "admin"); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	state.ClearFlow()
	b.setUserState(ctx, state)
	b.sendMessage(chatID, fmt.Sprintf("✅ %d quitado de %s.", id, draft.Role))
}
