package models

import "strings"

// CSVHeaders is the canonical column order of the backing table.
// Every store backend reads and writes exactly these six columns.
var CSVHeaders = []string{"Nombre", "Apellido", "Teléfono", "DNI", "Estado", "Observación"}

// Column indices into CSVHeaders.
const (
	ColFirstName = iota
	ColLastName
	ColPhone
	ColNationalID
	ColStatus
	ColNote

	ColumnCount = 6
)

// Contact is one row of the outreach roster. All fields are stored as
// plain strings in the backing table; Phone and NationalID together form
// the business key (see RowKey).
type Contact struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

// ContactFromRow builds a Contact from a raw store row, padding missing
// trailing cells with empty strings.
func ContactFromRow(row []string) Contact {
	row = PadRow(row, ColumnCount)
	return Contact{
		FirstName:  row[ColFirstName],
		LastName:   row[ColLastName],
		Phone:      row[ColPhone],
		NationalID: row[ColNationalID],
		Status:     row[ColStatus],
		Note:       row[ColNote],
	}
}

// Row renders the contact in canonical column order.
func (c Contact) Row() []string {
	return []string{c.FirstName, c.LastName, c.Phone, c.NationalID, c.Status, c.Note}
}

// Key returns the business key material of the contact.
func (c Contact) Key() RowKey {
	return RowKey{Phone: strings.TrimSpace(c.Phone), NationalID: strings.TrimSpace(c.NationalID)}
}

// Equal reports field-by-field equality after trimming, the notion of
// "same row content" used for exact-match row resolution.
func (c Contact) Equal(other Contact) bool {
	return strings.TrimSpace(c.FirstName) == strings.TrimSpace(other.FirstName) &&
		strings.TrimSpace(c.LastName) == strings.TrimSpace(other.LastName) &&
		strings.TrimSpace(c.Phone) == strings.TrimSpace(other.Phone) &&
		strings.TrimSpace(c.NationalID) == strings.TrimSpace(other.NationalID) &&
		strings.TrimSpace(c.Status) == strings.TrimSpace(other.Status) &&
		strings.TrimSpace(c.Note) == strings.TrimSpace(other.Note)
}

// RowKey identifies "the same person" across snapshots in lieu of a
// stable row ID. A non-empty phone match wins; the national ID is only
// consulted when it is non-empty on both sides.
type RowKey struct {
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
}

func (k RowKey) Empty() bool {
	return k.Phone == "" && k.NationalID == ""
}

// Matches reports whether the contact is the person identified by the key.
func (k RowKey) Matches(c Contact) bool {
	if k.Empty() {
		return false
	}
	if k.Phone != "" && strings.TrimSpace(c.Phone) == k.Phone {
		return true
	}
	if k.NationalID != "" && strings.TrimSpace(c.NationalID) == k.NationalID {
		return true
	}
	return false
}

// PadRow extends row to n cells with empty strings, or truncates extra
// trailing cells. Store rows routinely come back short of the full width.
func PadRow(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

// CleanPhone strips spaces and dashes from user-entered phone numbers.
func CleanPhone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}
