package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"listabot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = []models.Contact{
	{FirstName: "Ana", LastName: "García", Phone: "+54 9 11 5551-2345", NationalID: "30123456", Status: "Pendiente"},
	{FirstName: "Juan", LastName: "Pérez", Phone: "1144448888", Status: "Contactar Luego", Note: "después de las 18"},
	{FirstName: "Sin", LastName: "Teléfono", Status: "Pendiente"},
}

func TestGoogleContactsCSV(t *testing.T) {
	data, err := GoogleContactsCSV(sample)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, GoogleContactsHeaders, records[0])
	assert.Equal(t, "Ana", records[1][0])
	assert.Equal(t, "+54 9 11 5551-2345", records[1][2])
	assert.Equal(t, "Pendiente", records[1][3], "status travels in Labels")
	assert.Equal(t, "30123456", records[1][4], "national id travels in Nickname")
	assert.Equal(t, "después de las 18", records[2][5])
}

func TestVCard(t *testing.T) {
	data := string(VCard(sample))

	assert.Equal(t, 2, strings.Count(data, "BEGIN:VCARD"), "phoneless contacts are skipped")
	assert.Contains(t, data, "VERSION:4.0")
	assert.Contains(t, data, "TEL;TYPE=cell:+5491155512345", "phone keeps digits and plus only")
	assert.Contains(t, data, "N:García;Ana;;;")
	assert.Contains(t, data, "FN:Juan Pérez")
	assert.Contains(t, data, "NOTE:Contactar Luego / después de las 18")
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "+5491155512345", sanitizePhone("+54 9 11 5551-2345"))
	assert.Equal(t, "1144448888", sanitizePhone("11 4444+8888"), "only a leading plus survives")
	assert.Equal(t, "+541155", sanitizePhone("+54 11+55"))
	assert.Equal(t, "", sanitizePhone("+"))
	assert.Equal(t, "", sanitizePhone("s/tel"))
}

func TestVCardPlaceholderName(t *testing.T) {
	data := string(VCard([]models.Contact{
		{Phone: "+54 9 11 5550-0001", Status: "Pendiente"},
	}))
	assert.Contains(t, data, "FN:Contacto 1")
}

func TestVCardEscaping(t *testing.T) {
	data := string(VCard([]models.Contact{
		{FirstName: "Ana, la; rara", Phone: "111", Status: "Pendiente"},
	}))
	assert.Contains(t, data, "FN:Ana\\, la\\; rara")
}

func TestExcel(t *testing.T) {
	data, err := Excel(sample)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Lista")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, models.CSVHeaders, rows[0])
	assert.Equal(t, "Ana", rows[1][models.ColFirstName])

	summary, err := f.GetRows("Resumen")
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, []string{"Estado", "Cantidad"}, summary[0])
}
