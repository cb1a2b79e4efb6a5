package export

import (
	"fmt"
	"regexp"
	"strings"

	"listabot/internal/models"
)

var vcardPhoneRe = regexp.MustCompile(`[^\d+]`)

// sanitizePhone keeps digits and at most a leading plus. A plus typed
// anywhere else in the cell is noise from hand-entered rosters.
func sanitizePhone(raw string) string {
	s := vcardPhoneRe.ReplaceAllString(raw, "")
	leading := strings.HasPrefix(s, "+")
	s = strings.ReplaceAll(s, "+", "")
	if leading && s != "" {
		s = "+" + s
	}
	return s
}

// VCard renders the roster as a single vCard 4.0 file, one card per
// contact. Contacts without a phone are skipped since a dialer cannot
// use them.
func VCard(contacts []models.Contact) []byte {
	var b strings.Builder
	n := 0
	for _, c := range contacts {
		phone := sanitizePhone(c.Phone)
		if phone == "" {
			continue
		}
		n++

		full := strings.TrimSpace(c.FirstName + " " + c.LastName)
		if full == "" {
			full = fmt.Sprintf("Contacto %d", n)
		}

		b.WriteString("BEGIN:VCARD\r\n")
		b.WriteString("VERSION:4.0\r\n")
		fmt.Fprintf(&b, "N:%s;%s;;;\r\n", escapeVCard(c.LastName), escapeVCard(c.FirstName))
		fmt.Fprintf(&b, "FN:%s\r\n", escapeVCard(full))
		fmt.Fprintf(&b, "TEL;TYPE=cell:%s\r\n", phone)
		if c.NationalID != "" {
			fmt.Fprintf(&b, "NICKNAME:%s\r\n", escapeVCard(c.NationalID))
		}
		note := models.CleanStatusForDisplay(c.Status)
		if c.Note != "" {
			note += " / " + c.Note
		}
		if note != "" {
			fmt.Fprintf(&b, "NOTE:%s\r\n", escapeVCard(note))
		}
		b.WriteString("END:VCARD\r\n")
	}
	return []byte(b.String())
}

// escapeVCard escapes the characters RFC 6350 reserves in text values.
func escapeVCard(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}
