// internal/domain/importer/parser.go
package importer

import (
	"fmt"
	"strings"
)

// RequiredColumns are the headers every import file must carry
var RequiredColumns = []string{"nombre", "marca", "precio", "categoria"}

// FormatError is a file-level parse failure: nothing in the file can be
// processed.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// MissingColumnsError reports required headers absent from the file
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Row is one parsed data row. Line is 1-based with the header on line 1,
// so the first data row is line 2. Data is keyed by lower-cased header.
type Row struct {
	Line int
	Data map[string]string
}

// Parsed is the result of parsing an import file
type Parsed struct {
	Headers []string
	Rows    []Row
	// Skipped counts data rows dropped because their field count did
	// not match the header count. These are tolerated, not fatal.
	Skipped int
}

// Parser turns raw CSV text into rows. Two quoting dialects are
// accepted: standard RFC-4180 quoting, and a malformed export style
// where each whole line is wrapped in one outer quote pair and fields
// are separated by the three characters `","`.
type Parser struct {
	MaxRows int
}

// NewParser creates a parser with the given data-row cap
func NewParser(maxRows int) *Parser {
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &Parser{MaxRows: maxRows}
}

// Parse parses the full file text
func (p *Parser) Parse(text string) (*Parsed, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return nil, &FormatError{Message: "file must contain a header row and at least one data row"}
	}

	if len(lines)-1 > p.MaxRows {
		return nil, &FormatError{Message: fmt.Sprintf("file has %d data rows, maximum is %d", len(lines)-1, p.MaxRows)}
	}

	rawHeaders := parseLine(lines[0])
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var missing []string
	for _, required := range RequiredColumns {
		found := false
		for _, h := range headers {
			if h == required {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	parsed := &Parsed{Headers: headers}
	for i, line := range lines[1:] {
		fields := parseLine(line)
		if len(fields) != len(headers) {
			parsed.Skipped++
			continue
		}

		data := make(map[string]string, len(headers))
		for j, h := range headers {
			data[h] = fields[j]
		}
		parsed.Rows = append(parsed.Rows, Row{Line: i + 2, Data: data})
	}

	if len(parsed.Rows) == 0 {
		return nil, &FormatError{Message: "file contains no parsable data rows"}
	}

	return parsed, nil
}

// parseLine detects the dialect of one line and tokenizes it. The
// decision is per line: exported files mix an unwrapped header with
// wrapped data rows, and the two parsers agree on every line that is
// valid in both dialects.
func parseLine(line string) []string {
	if isQuotedDialect(line) {
		return parseQuotedLine(line)
	}
	return parseStandardLine(line)
}

// isQuotedDialect reports whether a line uses the malformed
// outer-quoted export style.
func isQuotedDialect(line string) bool {
	return len(line) >= 2 &&
		strings.HasPrefix(line, `"`) &&
		strings.HasSuffix(line, `"`) &&
		strings.Contains(line, `","`)
}

// parseQuotedLine parses the outer-quoted dialect: the whole line is
// wrapped in one quote pair and fields are separated by `","`.
func parseQuotedLine(line string) []string {
	inner := strings.TrimPrefix(line, `"`)
	inner = strings.TrimSuffix(inner, `"`)

	fields := strings.Split(inner, `","`)
	for i, field := range fields {
		// Leftover doubled quotes at the edges come from escaping the
		// line-level wrap; strip them before un-escaping the rest.
		field = strings.TrimPrefix(field, `""`)
		field = strings.TrimSuffix(field, `""`)
		fields[i] = strings.ReplaceAll(field, `""`, `"`)
	}
	return fields
}

// parseStandardLine parses one RFC-4180 style line: quotes toggle
// quoted mode, a doubled quote inside quotes is a literal quote, commas
// outside quotes separate fields.
func parseStandardLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, cleanField(current.String()))

	return fields
}

// cleanField strips a fully wrapping quote pair and un-escapes doubled
// quotes left in the value.
func cleanField(field string) string {
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		field = field[1 : len(field)-1]
	}
	return strings.ReplaceAll(field, `""`, `"`)
}
