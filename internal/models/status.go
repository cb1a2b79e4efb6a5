package models

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Stored status literals. The table keeps Spanish display strings as the
// canonical values; filtering is exact string equality on these.
const (
	StatusPending     = "Pendiente"
	StatusAccepted    = "Aceptado"
	StatusRejected    = "Rechazado"
	StatusWrongNumber = "Número incorrecto"
	StatusCallBack    = "Contactar Luego"

	// InContactPrefix heads the composite claim tag. The full stored value
	// is InContactPrefix + owner label.
	InContactPrefix = "En contacto - "
)

// StatusKind discriminates parsed status values.
type StatusKind int

const (
	KindPending StatusKind = iota
	KindAccepted
	KindRejected
	KindWrongNumber
	KindCallBack
	KindInContact
	KindUnknown
)

// Status is the structured form of the Estado cell. The owner of a claim
// is a proper field here; the combined "En contacto - <owner>" string only
// exists at the storage and presentation boundary.
type Status struct {
	Kind  StatusKind
	Owner string
}

// ParseStatus interprets a stored Estado cell value.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	switch s {
	case StatusPending, "":
		return Status{Kind: KindPending}
	case StatusAccepted:
		return Status{Kind: KindAccepted}
	case StatusRejected:
		return Status{Kind: KindRejected}
	case StatusWrongNumber:
		return Status{Kind: KindWrongNumber}
	case StatusCallBack:
		return Status{Kind: KindCallBack}
	}
	if IsInContact(s) {
		owner := ""
		if rest, ok := strings.CutPrefix(s, InContactPrefix); ok {
			owner = strings.TrimSpace(rest)
		}
		return Status{Kind: KindInContact, Owner: owner}
	}
	return Status{Kind: KindUnknown}
}

// String renders the stored form.
func (s Status) String() string {
	switch s.Kind {
	case KindPending:
		return StatusPending
	case KindAccepted:
		return StatusAccepted
	case KindRejected:
		return StatusRejected
	case KindWrongNumber:
		return StatusWrongNumber
	case KindCallBack:
		return StatusCallBack
	case KindInContact:
		return InContactPrefix + s.Owner
	}
	return ""
}

// InContact builds the claim tag for an owner label.
func InContact(owner string) string {
	return InContactPrefix + strings.TrimSpace(owner)
}

// IsInContact reports whether a stored status value is a claim tag,
// tolerating case and accent variations seen in hand-edited sheets.
func IsInContact(s string) bool {
	return strings.HasPrefix(NormalizeText(s), "en contacto")
}

// InContactOwner extracts the owner label embedded in a claim tag.
// Returns "" when the value is not a claim tag or carries no owner.
func InContactOwner(s string) string {
	if rest, ok := strings.CutPrefix(strings.TrimSpace(s), InContactPrefix); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

// NormalizeText lowercases and strips diacritics, for loose comparisons
// of hand-typed header and status values.
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToLower(out)
}

var corruptTagRe = regexp.MustCompile(`^En contacto\s*[-–—]\s*\(?(\d{5,})\b`)

// CleanStatusForDisplay repairs claim tags corrupted by historical
// formatting noise ("En contacto - (123…, Update(...))" and friends),
// reducing them to "En contacto - <id>" for presentation. Stored values
// are left untouched.
func CleanStatusForDisplay(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return v
	}
	if m := corruptTagRe.FindStringSubmatch(v); m != nil {
		return InContactPrefix + m[1]
	}
	if strings.HasPrefix(v, "En contacto") && strings.Contains(v, "Update(") {
		if m := regexp.MustCompile(`\b(\d{5,})\b`).FindStringSubmatch(v); m != nil {
			return InContactPrefix + m[1]
		}
		return "En contacto"
	}
	return v
}
