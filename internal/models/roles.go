package models

// RoleEntry is one line of a roles tab: a Telegram user ID plus the
// human name shown in owner tags and listings.
type RoleEntry struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// Role tab names in the backing spreadsheet.
const (
	UsersTabName  = "Usuarios permitidos"
	AdminsTabName = "Admins"
)

// RoleHeaders is the column set of the role tabs.
var RoleHeaders = []string{"user_id", "name"}
