// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/importer"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateImportReport renders an import report as a PDF document
func (s *Service) GenerateImportReport(report *importer.Report) (*bytes.Buffer, error) {
	data := reportData{
		Report:      report,
		AppName:     s.config.App.Name,
		GeneratedAt: time.Now().Format("January 2, 2006 15:04"),
		StartedAt:   report.StartedAt.Format("2006-01-02 15:04:05"),
		Elapsed:     report.Elapsed.Round(time.Millisecond).String(),
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data reportData) (string, error) {
	tmpl := template.Must(template.New("report").Parse(reportTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// reportData represents the data passed to the report template
type reportData struct {
	Report      *importer.Report
	AppName     string
	GeneratedAt string
	StartedAt   string
	Elapsed     string
}

// Import report HTML template
const reportTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Reporte de importación {{.Report.SessionID}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .report-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .meta {
            text-align: right;
            color: #6b7280;
            font-size: 12px;
        }
        .summary {
            margin-bottom: 30px;
        }
        .summary table {
            width: 100%;
        }
        .summary td {
            padding: 5px 0;
            vertical-align: top;
        }
        .summary .label {
            font-weight: bold;
            width: 150px;
        }
        .status-completed { color: #059669; font-weight: bold; }
        .status-failed { color: #dc2626; font-weight: bold; }
        .status-cancelled { color: #d97706; font-weight: bold; }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin: 20px 0 10px 0;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 8px;
            text-align: left;
            font-size: 12px;
        }
        .items-table th {
            background-color: #f9fafb;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <div class="report-title">Reporte de importación</div>
            <div>{{.AppName}}</div>
        </div>
        <div class="meta">
            <div>Sesión: {{.Report.SessionID}}</div>
            <div>Generado: {{.GeneratedAt}}</div>
        </div>
    </div>

    <div class="summary">
        <table>
            <tr><td class="label">Estado</td><td class="status-{{.Report.Status}}">{{.Report.Status}}</td></tr>
            <tr><td class="label">Inicio</td><td>{{.StartedAt}}</td></tr>
            <tr><td class="label">Duración</td><td>{{.Elapsed}}</td></tr>
            <tr><td class="label">Total de filas</td><td>{{.Report.Total}}</td></tr>
            <tr><td class="label">Exitosos</td><td>{{.Report.Succeeded}}</td></tr>
            <tr><td class="label">Fallidos</td><td>{{.Report.FailedRows}}</td></tr>
            {{if gt .Report.Skipped 0}}
            <tr><td class="label">Omitidos</td><td>{{.Report.Skipped}} (número de columnas incorrecto)</td></tr>
            {{end}}
        </table>
    </div>

    {{if .Report.Successful}}
    <div class="section-title">Productos importados</div>
    <table class="items-table">
        <tr><th>Producto</th><th>Marca</th><th>Resultado</th></tr>
        {{range .Report.Successful}}
        <tr><td>{{.Nombre}}</td><td>{{.Marca}}</td><td>{{.Message}}</td></tr>
        {{end}}
    </table>
    {{end}}

    {{if .Report.Failed}}
    <div class="section-title">Productos con errores</div>
    <table class="items-table">
        <tr><th>Producto</th><th>Marca</th><th>Error</th></tr>
        {{range .Report.Failed}}
        <tr><td>{{.Nombre}}</td><td>{{.Marca}}</td><td>{{.Message}}</td></tr>
        {{end}}
    </table>
    {{end}}
</body>
</html>
`
