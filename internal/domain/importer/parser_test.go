package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStandardFile(t *testing.T) {
	parser := NewParser(1000)

	text := "nombre,marca,precio,categoria\n" +
		"Sauvage,Dior,180000,para-ellos\n" +
		"Good Girl,Carolina Herrera,165000,para-ellas\n"

	parsed, err := parser.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"nombre", "marca", "precio", "categoria"}, parsed.Headers)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, 2, parsed.Rows[0].Line)
	assert.Equal(t, "Sauvage", parsed.Rows[0].Data["nombre"])
	assert.Equal(t, "Good Girl", parsed.Rows[1].Data["nombre"])
	assert.Equal(t, 0, parsed.Skipped)
}

func TestParseHeadersAreLowercasedAndTrimmed(t *testing.T) {
	parser := NewParser(1000)

	text := "Nombre , MARCA,Precio,Categoria\nSauvage,Dior,180000,para-ellos\n"

	parsed, err := parser.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"nombre", "marca", "precio", "categoria"}, parsed.Headers)
}

func TestParseBlankLinesAreDiscarded(t *testing.T) {
	parser := NewParser(1000)

	text := "\nnombre,marca,precio,categoria\n\n\nSauvage,Dior,180000,para-ellos\n\n"

	parsed, err := parser.Parse(text)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
}

func TestParseTooShortFile(t *testing.T) {
	parser := NewParser(1000)

	_, err := parser.Parse("nombre,marca,precio,categoria\n")
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseMissingRequiredColumns(t *testing.T) {
	parser := NewParser(1000)

	_, err := parser.Parse("nombre,precio\nSauvage,180000\n")
	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"marca", "categoria"}, missingErr.Missing)
}

func TestParseSkipsColumnCountMismatch(t *testing.T) {
	parser := NewParser(1000)

	text := "nombre,marca,precio,categoria\n" +
		"Sauvage,Dior,180000,para-ellos\n" +
		"broken,row\n" +
		"Good Girl,Carolina Herrera,165000,para-ellas\n"

	parsed, err := parser.Parse(text)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, 1, parsed.Skipped)
	// Line numbers keep counting over skipped rows
	assert.Equal(t, 4, parsed.Rows[1].Line)
}

func TestParseRowCap(t *testing.T) {
	parser := NewParser(5)

	var b strings.Builder
	b.WriteString("nombre,marca,precio,categoria\n")
	for i := 0; i < 6; i++ {
		b.WriteString("Sauvage,Dior,180000,para-ellos\n")
	}

	_, err := parser.Parse(b.String())
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseQuotedDialectMatchesStandard(t *testing.T) {
	parser := NewParser(1000)

	standard := "nombre,marca,precio,categoria\n" +
		`"Sauvage","Dior","180000","para-ellos"` + "\n"
	quoted := `"nombre","marca","precio","categoria"` + "\n" +
		`"""Sauvage","Dior","180000","para-ellos"""` + "\n"

	fromStandard, err := parser.Parse(standard)
	require.NoError(t, err)
	fromQuoted, err := parser.Parse(quoted)
	require.NoError(t, err)

	assert.Equal(t, fromStandard.Rows[0].Data, fromQuoted.Rows[0].Data)
	assert.Equal(t, "Sauvage", fromQuoted.Rows[0].Data["nombre"])
	assert.Equal(t, "para-ellos", fromQuoted.Rows[0].Data["categoria"])
}

func TestParseStandardLineQuoting(t *testing.T) {
	fields := parseStandardLine(`plain,"quoted, with comma","escaped ""quote"" inside"`)
	require.Len(t, fields, 3)
	assert.Equal(t, "plain", fields[0])
	assert.Equal(t, "quoted, with comma", fields[1])
	assert.Equal(t, `escaped "quote" inside`, fields[2])
}

func TestParseQuotedDialectWithCommasInsideFields(t *testing.T) {
	parser := NewParser(1000)

	// Notas carries commas; in this dialect only the `","` sequence separates
	text := `"nombre","marca","precio","categoria","notas"` + "\n" +
		`"Khamrah","Lattafa","95000","unisex","Canela, datil, vainilla"` + "\n"

	parsed, err := parser.Parse(text)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "Canela, datil, vainilla", parsed.Rows[0].Data["notas"])
}
