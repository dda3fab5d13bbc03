package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterQuotesSpecialFields(t *testing.T) {
	data := Dataset{
		Headers: []string{"Nome", "Endereço", "Alergias"},
		Rows: []map[string]string{
			{"Nome": "Ana Silva", "Endereço": "Rua Exemplo 123, Bairro", "Alergias": "leite, ovo"},
			{"Nome": `Bia "Pequena"`, "Endereço": "linha 1\nlinha 2"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	expected := "Nome,Endereço,Alergias\r\n" +
		"Ana Silva,\"Rua Exemplo 123, Bairro\",\"leite, ovo\"\r\n" +
		"\"Bia \"\"Pequena\"\"\",\"linha 1\r\nlinha 2\",\r\n"
	assert.Equal(t, expected, string(out))

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Bia "Pequena"`, records[2][0])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterHeaderOnly(t *testing.T) {
	out, err := (&CSVExporter{}).Render(Dataset{Headers: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, "A,B\n", string(out))
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Nome", "Status"},
		Rows:    []map[string]string{{"Nome": "João", "Status": "Ativo"}},
	}
	out, err := NewPDFExporter().Render(data, "Relatório")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
