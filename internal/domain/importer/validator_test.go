package importer

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfumeria-backend/internal/domain/product"
)

func validRow() Row {
	return Row{
		Line: 2,
		Data: map[string]string{
			"nombre":    "Sauvage",
			"marca":     "Dior",
			"precio":    "180000",
			"categoria": "para-ellos",
		},
	}
}

func TestValidateAcceptsMinimalRow(t *testing.T) {
	assert.Empty(t, Validate(validRow()))
}

func TestValidateRequiredFields(t *testing.T) {
	for _, field := range RequiredColumns {
		t.Run(field, func(t *testing.T) {
			row := validRow()
			row.Data[field] = "  "
			problems := Validate(row)
			require.NotEmpty(t, problems)
			assert.Contains(t, problems[0], field)
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
	}{
		{"precio not a number", "precio", "abc"},
		{"precio zero", "precio", "0"},
		{"precio negative", "precio", "-5"},
		{"categoria unknown", "categoria", "para-todos"},
		{"subcategoria unknown", "subcategoria", "deportivo"},
		{"ml zero", "ml", "0"},
		{"ml too large", "ml", "1001"},
		{"ml not a number", "ml", "mucho"},
		{"stock negative", "stock", "-1"},
		{"descuento zero", "descuento", "0"},
		{"descuento too large", "descuento", "100"},
		{"estado unknown", "estado", "vendido"},
		{"luxury not boolean", "luxury", "maybe"},
		{"activo not boolean", "activo", "2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			row.Data[tc.field] = tc.value
			assert.NotEmpty(t, Validate(row))
		})
	}
}

func TestValidateAcceptsBooleanTokens(t *testing.T) {
	for _, token := range []string{"true", "false", "1", "0", "yes", "no", "si", "SI", "True"} {
		row := validRow()
		row.Data["luxury"] = token
		assert.Empty(t, Validate(row), "token %q should be accepted", token)
	}
}

func TestParseBoolToken(t *testing.T) {
	for _, token := range []string{"true", "1", "yes", "si", " SI ", "TRUE"} {
		assert.True(t, ParseBoolToken(token), "token %q", token)
	}
	for _, token := range []string{"false", "0", "no", "", "  ", "garbage"} {
		assert.False(t, ParseBoolToken(token), "token %q", token)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(validRow())

	assert.Equal(t, "Sauvage", p.Nombre)
	assert.Equal(t, "Dior", p.Marca)
	assert.Equal(t, 180000.0, p.Precio)
	assert.Equal(t, "para-ellos", p.Categoria)
	assert.Nil(t, p.Subcategoria)
	assert.Equal(t, "", p.Descripcion)
	assert.Equal(t, "", p.Notas)
	assert.Equal(t, "", p.ImagenURL)
	assert.Equal(t, 100, p.ML)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, product.EstadoDisponible, p.Estado)
	assert.Nil(t, p.Descuento)
	assert.False(t, p.Luxury)
	assert.True(t, p.Activo)
}

func TestNormalizeExplicitValues(t *testing.T) {
	row := validRow()
	row.Data["subcategoria"] = "Arabes"
	row.Data["ml"] = "80"
	row.Data["stock"] = "12"
	row.Data["estado"] = "OFERTA"
	row.Data["descuento"] = "15"
	row.Data["luxury"] = "si"
	row.Data["activo"] = "no"

	p := Normalize(row)

	require.NotNil(t, p.Subcategoria)
	assert.Equal(t, "arabes", *p.Subcategoria)
	assert.Equal(t, 80, p.ML)
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, "oferta", p.Estado)
	require.NotNil(t, p.Descuento)
	assert.Equal(t, 15, *p.Descuento)
	assert.True(t, p.Luxury)
	assert.False(t, p.Activo)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	row := validRow()
	row.Data["ml"] = "80"
	row.Data["estado"] = "Oferta"
	row.Data["luxury"] = "si"

	first := Normalize(row)
	second := Normalize(rowFromNormalized(first))

	assert.Equal(t, first, second)
}

// rowFromNormalized renders a normalized product back into raw cells
func rowFromNormalized(p product.Product) Row {
	data := map[string]string{
		"nombre":      p.Nombre,
		"marca":       p.Marca,
		"precio":      strconv.FormatFloat(p.Precio, 'f', -1, 64),
		"categoria":   p.Categoria,
		"descripcion": p.Descripcion,
		"notas":       p.Notas,
		"imagen_url":  p.ImagenURL,
		"ml":          strconv.Itoa(p.ML),
		"stock":       strconv.Itoa(p.Stock),
		"estado":      p.Estado,
		"luxury":      fmt.Sprintf("%t", p.Luxury),
		"activo":      fmt.Sprintf("%t", p.Activo),
	}
	if p.Subcategoria != nil {
		data["subcategoria"] = *p.Subcategoria
	}
	if p.Descuento != nil {
		data["descuento"] = strconv.Itoa(*p.Descuento)
	}
	return Row{Line: 2, Data: data}
}

func TestEndToEndSauvageExample(t *testing.T) {
	parser := NewParser(1000)

	parsed, err := parser.Parse("nombre,marca,precio,categoria\nSauvage,Dior,180000,para-ellos\n")
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)

	require.Empty(t, Validate(parsed.Rows[0]))
	p := Normalize(parsed.Rows[0])

	assert.Equal(t, 180000.0, p.Precio)
	assert.Equal(t, "para-ellos", p.Categoria)
	assert.Equal(t, 100, p.ML)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, "disponible", p.Estado)
	assert.True(t, p.Activo)
}
