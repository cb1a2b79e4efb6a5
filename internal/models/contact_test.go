package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactFromRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		c := ContactFromRow([]string{"Ana", "García", "1155512345", "30123456", "Pendiente", "nota"})
		assert.Equal(t, "Ana", c.FirstName)
		assert.Equal(t, "García", c.LastName)
		assert.Equal(t, "1155512345", c.Phone)
		assert.Equal(t, "30123456", c.NationalID)
		assert.Equal(t, "Pendiente", c.Status)
		assert.Equal(t, "nota", c.Note)
	})

	t.Run("short row is padded", func(t *testing.T) {
		c := ContactFromRow([]string{"Ana", "García"})
		assert.Equal(t, "Ana", c.FirstName)
		assert.Empty(t, c.Phone)
		assert.Empty(t, c.Status)
		assert.Empty(t, c.Note)
	})

	t.Run("round trip", func(t *testing.T) {
		row := []string{"Ana", "García", "1155512345", "30123456", "Aceptado", ""}
		assert.Equal(t, row, ContactFromRow(row).Row())
	})
}

func TestPadRow(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, PadRow([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, PadRow([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a", "b"}, PadRow([]string{"a", "b"}, 2))
}

func TestRowKeyMatches(t *testing.T) {
	c := Contact{FirstName: "Ana", Phone: "1155512345", NationalID: "30123456"}

	t.Run("phone match", func(t *testing.T) {
		assert.True(t, RowKey{Phone: "1155512345"}.Matches(c))
	})

	t.Run("national id match", func(t *testing.T) {
		assert.True(t, RowKey{NationalID: "30123456"}.Matches(c))
	})

	t.Run("phone wins over differing id", func(t *testing.T) {
		k := RowKey{Phone: "1155512345", NationalID: "99999999"}
		assert.True(t, k.Matches(c))
	})

	t.Run("empty key never matches", func(t *testing.T) {
		assert.False(t, RowKey{}.Matches(c))
		assert.False(t, RowKey{}.Matches(Contact{}))
	})

	t.Run("trims stored values", func(t *testing.T) {
		assert.True(t, RowKey{Phone: "1155512345"}.Matches(Contact{Phone: " 1155512345 "}))
	})
}

func TestContactEqual(t *testing.T) {
	a := Contact{FirstName: "Ana", Phone: "111", Status: "Pendiente"}
	b := Contact{FirstName: " Ana ", Phone: "111", Status: "Pendiente"}
	assert.True(t, a.Equal(b))

	b.Status = "Aceptado"
	assert.False(t, a.Equal(b))
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+5491155512345", CleanPhone(" +54 9 11 5551-2345 "))
	assert.Equal(t, "1155512345", CleanPhone("11 5551 2345"))
}
