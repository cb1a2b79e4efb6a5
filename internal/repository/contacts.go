package repository

import (
	"context"
	"strings"

	"listabot/internal/domain"
	"listabot/internal/models"
)

// headerSynonyms maps normalized header spellings to canonical columns.
// Rosters are hand-made spreadsheets and arrive with all of these.
var headerSynonyms = map[string]int{
	"nombre":        models.ColFirstName,
	"nombres":       models.ColFirstName,
	"apellido":      models.ColLastName,
	"apellidos":     models.ColLastName,
	"telefono":      models.ColPhone,
	"tel":           models.ColPhone,
	"celular":       models.ColPhone,
	"dni":           models.ColNationalID,
	"documento":     models.ColNationalID,
	"doc":           models.ColNationalID,
	"email":         models.ColNationalID,
	"estado":        models.ColStatus,
	"etiquetas":     models.ColStatus,
	"status":        models.ColStatus,
	"label":         models.ColStatus,
	"labels":        models.ColStatus,
	"observacion":   models.ColNote,
	"observaciones": models.ColNote,
	"nota":          models.ColNote,
	"notas":         models.ColNote,
	"notes":         models.ColNote,
}

// ContactRepo reads and writes the roster through a RowStore. Data row i
// of a snapshot lives at physical sheet row i+2.
type ContactRepo struct {
	store domain.RowStore
}

func NewContactRepo(store domain.RowStore) *ContactRepo {
	return &ContactRepo{store: store}
}

// ReadAll returns the roster with columns reordered to canonical
// positions and status values normalized.
func (r *ContactRepo) ReadAll(ctx context.Context) ([]models.Contact, error) {
	raw, err := r.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	colmap := mapHeader(raw[0])
	contacts := make([]models.Contact, 0, len(raw)-1)
	for _, row := range raw[1:] {
		row = models.PadRow(row, models.ColumnCount)
		canonical := make([]string, models.ColumnCount)
		for dst, src := range colmap {
			canonical[dst] = row[src]
		}
		c := models.ContactFromRow(canonical)
		c.Status = normalizeStatus(c.Status)
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (r *ContactRepo) Overwrite(ctx context.Context, contacts []models.Contact) error {
	rows := make([][]string, len(contacts))
	for i, c := range contacts {
		rows[i] = c.Row()
	}
	return r.store.OverwriteAll(ctx, rows)
}

func (r *ContactRepo) Append(ctx context.Context, c models.Contact) error {
	return r.store.AppendRow(ctx, c.Row())
}

// Upsert matches by business key. On update the incoming personal fields
// replace the stored ones; an empty incoming status or note keeps the
// stored value so an import never wipes campaign progress.
func (r *ContactRepo) Upsert(ctx context.Context, c models.Contact) (domain.UpsertResult, error) {
	contacts, err := r.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	key := c.Key()
	for i := range contacts {
		if !key.Empty() && key.Matches(contacts[i]) {
			merged := c
			if strings.TrimSpace(merged.Status) == "" {
				merged.Status = contacts[i].Status
			}
			if strings.TrimSpace(merged.Note) == "" {
				merged.Note = contacts[i].Note
			}
			contacts[i] = merged
			return domain.UpsertUpdated, r.Overwrite(ctx, contacts)
		}
	}

	if strings.TrimSpace(c.Status) == "" {
		c.Status = models.StatusPending
	}
	return domain.UpsertInserted, r.Append(ctx, c)
}

// UpdateStatus locates the target in a fresh snapshot, by exact content
// first and by business key as fallback, and rewrites its Estado cell.
// The note cell is only written for "Contactar Luego" and is cleared
// when the row returns to Pendiente or gets claimed, so stale call notes
// never survive a state change.
func (r *ContactRepo) UpdateStatus(ctx context.Context, target models.Contact, status, note string) error {
	contacts, err := r.ReadAll(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range contacts {
		if contacts[i].Equal(target) {
			idx = i
			break
		}
	}
	if idx < 0 {
		key := target.Key()
		for i := range contacts {
			if key.Matches(contacts[i]) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return domain.ErrRowNotFound
	}

	physical := idx + 2
	if err := r.store.UpdateCell(ctx, physical, models.ColStatus, status); err != nil {
		return err
	}

	switch {
	case status == models.StatusCallBack:
		return r.store.UpdateCell(ctx, physical, models.ColNote, note)
	case status == models.StatusPending || models.IsInContact(status):
		if contacts[idx].Note != "" {
			return r.store.UpdateCell(ctx, physical, models.ColNote, "")
		}
	}
	return nil
}

func (r *ContactRepo) FilterByStatus(ctx context.Context, status string) ([]models.Contact, error) {
	contacts, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Contact
	for _, c := range contacts {
		if strings.TrimSpace(c.Status) == status {
			out = append(out, c)
		}
	}
	return out, nil
}

// mapHeader resolves a raw header row into canonical->source indices.
// Unrecognized canonical columns fall back to their own position.
func mapHeader(header []string) map[int]int {
	colmap := make(map[int]int, models.ColumnCount)
	for i := 0; i < models.ColumnCount; i++ {
		colmap[i] = i
	}
	for src, name := range header {
		if dst, ok := headerSynonyms[models.NormalizeText(name)]; ok && src < models.ColumnCount {
			colmap[dst] = src
		}
	}
	return colmap
}

// normalizeStatus coerces spelling variants to the canonical literals.
// Claim tags and unknown values pass through untouched, an empty cell
// means pending.
func normalizeStatus(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return models.StatusPending
	}
	if models.IsInContact(t) {
		return t
	}
	switch models.NormalizeText(t) {
	case "pendiente":
		return models.StatusPending
	case "aceptado", "aceptada":
		return models.StatusAccepted
	case "rechazado", "rechazada":
		return models.StatusRejected
	case "numero incorrecto":
		return models.StatusWrongNumber
	case "contactar luego":
		return models.StatusCallBack
	}
	return t
}
