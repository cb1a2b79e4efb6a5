package export

import (
	"bytes"
	"encoding/csv"

	"listabot/internal/models"
)

// GoogleContactsHeaders is the column set Google Contacts expects on
// CSV import.
var GoogleContactsHeaders = []string{
	"Given Name", "Family Name", "Phone 1 - Value", "Labels", "Nickname", "Notes",
}

// GoogleContactsCSV renders the roster in Google Contacts import
// format. The campaign status travels in Labels and the national ID in
// Nickname so both survive the round trip through a phone's address
// book.
func GoogleContactsCSV(contacts []models.Contact) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(GoogleContactsHeaders); err != nil {
		return nil, err
	}
	for _, c := range contacts {
		row := []string{
			c.FirstName,
			c.LastName,
			c.Phone,
			models.CleanStatusForDisplay(c.Status),
			c.NationalID,
			c.Note,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
