package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	t.Run("simple statuses", func(t *testing.T) {
		assert.Equal(t, Status{Kind: KindPending}, ParseStatus("Pendiente"))
		assert.Equal(t, Status{Kind: KindPending}, ParseStatus(""))
		assert.Equal(t, Status{Kind: KindAccepted}, ParseStatus("Aceptado"))
		assert.Equal(t, Status{Kind: KindRejected}, ParseStatus("Rechazado"))
		assert.Equal(t, Status{Kind: KindWrongNumber}, ParseStatus("Número incorrecto"))
		assert.Equal(t, Status{Kind: KindCallBack}, ParseStatus("Contactar Luego"))
	})

	t.Run("claim tag carries owner", func(t *testing.T) {
		s := ParseStatus("En contacto - @maria")
		assert.Equal(t, KindInContact, s.Kind)
		assert.Equal(t, "@maria", s.Owner)
	})

	t.Run("unknown literal", func(t *testing.T) {
		assert.Equal(t, KindUnknown, ParseStatus("lo que sea").Kind)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Pendiente", Status{Kind: KindPending}.String())
	assert.Equal(t, "En contacto - @maria", Status{Kind: KindInContact, Owner: "@maria"}.String())

	// parse then render is the identity for well-formed values
	for _, v := range []string{"Pendiente", "Aceptado", "Rechazado", "Número incorrecto", "Contactar Luego", "En contacto - 123456"} {
		assert.Equal(t, v, ParseStatus(v).String())
	}
}

func TestIsInContact(t *testing.T) {
	assert.True(t, IsInContact("En contacto - @maria"))
	assert.True(t, IsInContact("en contacto - @maria"))
	assert.True(t, IsInContact("En Contacto"))
	assert.False(t, IsInContact("Pendiente"))
	assert.False(t, IsInContact(""))
}

func TestInContactOwner(t *testing.T) {
	assert.Equal(t, "@maria", InContactOwner("En contacto - @maria"))
	assert.Equal(t, "123456", InContactOwner("En contacto - 123456 "))
	assert.Empty(t, InContactOwner("Pendiente"))
	assert.Empty(t, InContactOwner("En contacto"))
}

func TestCleanStatusForDisplay(t *testing.T) {
	t.Run("well formed values pass through", func(t *testing.T) {
		assert.Equal(t, "Pendiente", CleanStatusForDisplay("Pendiente"))
		assert.Equal(t, "En contacto - @maria", CleanStatusForDisplay("En contacto - @maria"))
	})

	t.Run("corrupted tag reduced to owner id", func(t *testing.T) {
		got := CleanStatusForDisplay("En contacto - (123456789, Update(message=...))")
		assert.Equal(t, "En contacto - 123456789", got)
	})
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "telefono", NormalizeText(" Teléfono "))
	assert.Equal(t, "numero incorrecto", NormalizeText("Número Incorrecto"))
}
