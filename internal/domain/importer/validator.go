// internal/domain/importer/validator.go
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/your-org/perfumeria-backend/internal/domain/product"
)

// ValidSubcategorias are the accepted subcategoria values
var ValidSubcategorias = []string{"arabes", "disenador", "nicho"}

var boolTokens = map[string]bool{
	"true": true, "false": true,
	"1": true, "0": true,
	"yes": true, "no": true,
	"si": true,
}

var trueTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "si": true,
}

// Validate checks one parsed row and returns human-readable problems.
// An empty slice means the row is valid. Validation failures are
// ordinary values, not errors; errors are reserved for file-level
// conditions.
func Validate(row Row) []string {
	var problems []string

	// Required fields
	for _, field := range RequiredColumns {
		if strings.TrimSpace(row.Data[field]) == "" {
			problems = append(problems, fmt.Sprintf("%s is required", field))
		}
	}

	// precio must be a positive number
	if raw := strings.TrimSpace(row.Data["precio"]); raw != "" {
		if precio, err := strconv.ParseFloat(raw, 64); err != nil || precio <= 0 {
			problems = append(problems, fmt.Sprintf("precio must be a positive number, got %q", raw))
		}
	}

	// categoria enum
	if raw := strings.ToLower(strings.TrimSpace(row.Data["categoria"])); raw != "" {
		if !product.IsValidCategoria(raw) {
			problems = append(problems, fmt.Sprintf("categoria must be one of %s, got %q",
				strings.Join(product.ValidCategorias(), ", "), raw))
		}
	}

	// subcategoria enum, when present
	if raw := strings.ToLower(strings.TrimSpace(row.Data["subcategoria"])); raw != "" {
		if !isValidSubcategoria(raw) {
			problems = append(problems, fmt.Sprintf("subcategoria must be one of %s, got %q",
				strings.Join(ValidSubcategorias, ", "), raw))
		}
	}

	// ml range, when present
	if raw := strings.TrimSpace(row.Data["ml"]); raw != "" {
		if ml, err := strconv.Atoi(raw); err != nil || ml < 1 || ml > 1000 {
			problems = append(problems, fmt.Sprintf("ml must be between 1 and 1000, got %q", raw))
		}
	}

	// stock, when present
	if raw := strings.TrimSpace(row.Data["stock"]); raw != "" {
		if stock, err := strconv.Atoi(raw); err != nil || stock < 0 {
			problems = append(problems, fmt.Sprintf("stock must be zero or positive, got %q", raw))
		}
	}

	// descuento range, when present
	if raw := strings.TrimSpace(row.Data["descuento"]); raw != "" {
		if descuento, err := strconv.Atoi(raw); err != nil || descuento < 1 || descuento > 99 {
			problems = append(problems, fmt.Sprintf("descuento must be between 1 and 99, got %q", raw))
		}
	}

	// estado enum, when present
	if raw := strings.ToLower(strings.TrimSpace(row.Data["estado"])); raw != "" {
		if !product.IsValidEstado(raw) {
			problems = append(problems, fmt.Sprintf("estado must be one of %s, got %q",
				strings.Join(product.ValidEstados(), ", "), raw))
		}
	}

	// boolean tokens, when present
	for _, field := range []string{"luxury", "activo"} {
		if raw := strings.ToLower(strings.TrimSpace(row.Data[field])); raw != "" {
			if !boolTokens[raw] {
				problems = append(problems, fmt.Sprintf("%s must be a boolean token (true/false/1/0/yes/no/si), got %q", field, raw))
			}
		}
	}

	return problems
}

// Normalize converts an already-validated row into a Product, applying
// the defaults for every optional field. It never fails: callers must
// run Validate first.
func Normalize(row Row) product.Product {
	get := func(field string) string {
		return strings.TrimSpace(row.Data[field])
	}

	precio, _ := strconv.ParseFloat(get("precio"), 64)

	ml := 100
	if raw := get("ml"); raw != "" {
		ml, _ = strconv.Atoi(raw)
	}

	stock := 0
	if raw := get("stock"); raw != "" {
		stock, _ = strconv.Atoi(raw)
	}

	estado := strings.ToLower(get("estado"))
	if estado == "" {
		estado = product.EstadoDisponible
	}

	var subcategoria *string
	if raw := strings.ToLower(get("subcategoria")); raw != "" {
		subcategoria = &raw
	}

	var descuento *int
	if raw := get("descuento"); raw != "" {
		value, _ := strconv.Atoi(raw)
		descuento = &value
	}

	// activo defaults to true when absent; the bool-token parser alone
	// would read a blank value as false.
	activo := true
	if raw := get("activo"); raw != "" {
		activo = ParseBoolToken(raw)
	}

	return product.Product{
		Nombre:       get("nombre"),
		Marca:        get("marca"),
		Precio:       precio,
		Categoria:    strings.ToLower(get("categoria")),
		Subcategoria: subcategoria,
		Descripcion:  get("descripcion"),
		Notas:        get("notas"),
		ImagenURL:    get("imagen_url"),
		ML:           ml,
		Stock:        stock,
		Estado:       estado,
		Descuento:    descuento,
		Luxury:       ParseBoolToken(get("luxury")),
		Activo:       activo,
	}
}

// ParseBoolToken reports whether the value is an affirmative token.
// Blank or unknown input is false.
func ParseBoolToken(value string) bool {
	return trueTokens[strings.ToLower(strings.TrimSpace(value))]
}

func isValidSubcategoria(value string) bool {
	for _, s := range ValidSubcategorias {
		if s == value {
			return true
		}
	}
	return false
}
