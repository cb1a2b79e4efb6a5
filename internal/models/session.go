package models

import "time"

// Conversation steps. Empty step means the user is at the main menu.
const (
	StepIdle        = ""
	StepPreview     = "preview"
	StepEditing     = "editing"
	StepAwaitNote   = "await_note"
	StepAddContact  = "add_contact"
	StepAdminAdd    = "admin_add"
	StepAdminRemove = "admin_remove"
)

// Reservation records the rows a user has claimed. Rows is the snapshot
// taken at claim time; Indices are 0-based data-row positions in the
// table at that moment. Both are hints for later resolution, the stored
// claim tag is authoritative.
type Reservation struct {
	Owner   string    `json:"owner"`
	Rows    []Contact `json:"rows"`
	Indices []int     `json:"indices"`
}

// Active reports whether any rows are currently claimed.
func (r *Reservation) Active() bool {
	return r != nil && (len(r.Rows) > 0 || len(r.Indices) > 0)
}

// Preview remembers which pending rows a user was shown before claiming,
// so the claim binds exactly those rows when they are still pending.
type Preview struct {
	Keys    []RowKey `json:"keys"`
	Indices []int    `json:"indices"`
	Limit   int      `json:"limit"`
}

// Edit view sources. A status literal is also a valid source and means
// the view was produced by a status filter.
const (
	EditSourceClaim = "claim"
	EditSourceAll   = "all"
)

// EditView is the paginated row list a user edits from. Rows is the
// working copy; Source says which listing produced it ("claim", "all",
// or a status filter) so it can be refreshed after a write.
type EditView struct {
	Rows     []Contact `json:"rows"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Source   string    `json:"source"`
	Title    string    `json:"title"`

	// Selected is the Rows index awaiting a status pick, NoteTarget the
	// one awaiting note text. -1 means none.
	Selected   int `json:"selected"`
	NoteTarget int `json:"note_target"`
}

// AddDraft accumulates fields during the add-contact conversation.
type AddDraft struct {
	Contact Contact `json:"contact"`
	Field   string  `json:"field"`
}

// AdminDraft holds the in-flight input of an admin add/remove dialog.
type AdminDraft struct {
	Role   string `json:"role"`
	Action string `json:"action"`
}

// UserState is everything the bot remembers about one user's
// conversation. It serializes to JSON for the Redis backend.
type UserState struct {
	UserID      int64        `json:"user_id"`
	CurrentStep string       `json:"current_step"`
	Reservation *Reservation `json:"reservation,omitempty"`
	Preview     *Preview     `json:"preview,omitempty"`
	Edit        *EditView    `json:"edit,omitempty"`
	Add         *AddDraft    `json:"add,omitempty"`
	Admin       *AdminDraft  `json:"admin,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewUserState returns an idle state for a user.
func NewUserState(userID int64) *UserState {
	return &UserState{UserID: userID, UpdatedAt: time.Now()}
}

// ClearFlow drops per-conversation scratch data but keeps the
// reservation, which outlives any single dialog.
func (s *UserState) ClearFlow() {
	s.CurrentStep = StepIdle
	s.Preview = nil
	s.Edit = nil
	s.Add = nil
	s.Admin = nil
}
