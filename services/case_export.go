package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"lexsync_app_go/models"

	"github.com/xuri/excelize/v2"
)

// CaseExporter renders the canonical case record to downloadable
// artifacts and stores them via the configured storage provider.
// Export failures never block the case write.
type CaseExporter struct {
	storage StorageProvider

	// renderPDF turns the summary HTML into PDF bytes. Headless Chrome
	// by default; swappable so environments without a browser can still
	// exercise the export path.
	renderPDF func(htmlContent string, options PDFOptions) ([]byte, error)
}

func NewCaseExporter(storage StorageProvider) *CaseExporter {
	return &CaseExporter{storage: storage, renderPDF: GeneratePDF}
}

// ExportWorkbook builds an .xlsx case file and uploads it. Returns the
// storage result so callers can surface the artifact location.
func (e *CaseExporter) ExportWorkbook(ctx context.Context, userID string, rec *models.CaseRecord) (*StorageResult, error) {
	buf, err := BuildCaseWorkbook(rec)
	if err != nil {
		return nil, err
	}

	key := GenerateExportKey(userID, rec.CaseID, ".xlsx")
	const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	result, err := e.storage.UploadReader(ctx, buf, key, xlsxMime, int64(buf.Len()))
	if err != nil {
		return nil, fmt.Errorf("failed to store case workbook: %w", err)
	}
	return result, nil
}

// ExportPDF renders the case summary to PDF with headless Chrome and
// uploads it
func (e *CaseExporter) ExportPDF(ctx context.Context, userID string, rec *models.CaseRecord) (*StorageResult, error) {
	pdf, err := e.renderPDF(BuildCaseSummaryHTML(rec), DefaultPDFOptions())
	if err != nil {
		return nil, err
	}

	key := GenerateExportKey(userID, rec.CaseID, ".pdf")
	result, err := e.storage.UploadReader(ctx, bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf)))
	if err != nil {
		return nil, fmt.Errorf("failed to store case PDF: %w", err)
	}
	return result, nil
}

// BuildCaseWorkbook renders the record into an Excel workbook with
// Summary, Deadlines and Actuaciones sheets
func BuildCaseWorkbook(rec *models.CaseRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetSummary = "Summary"
	f.SetSheetName("Sheet1", sheetSummary)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheetSummary, "A1", fmt.Sprintf("Case %s", strings.ToUpper(rec.CaseID)))
	f.SetCellStyle(sheetSummary, "A1", "A1", titleStyle)

	summaryRows := [][2]string{
		{"Plaintiff", rec.Plaintiff},
		{"Defendant", rec.Defendant},
		{"Other parties", strings.Join(rec.OtherParties, ", ")},
		{"Court", rec.Court},
		{"Case type", rec.CaseType},
		{"Status", rec.Status},
	}
	if rec.Attorney != nil {
		summaryRows = append(summaryRows, [2]string{"Attorney", *rec.Attorney})
	}
	if rec.LastAction != nil {
		summaryRows = append(summaryRows, [2]string{"Last action", fmt.Sprintf("%s (%s)", rec.LastAction.Title, rec.LastAction.Date)})
	}
	if rec.LinkedCPNU {
		summaryRows = append(summaryRows, [2]string{"Radicado CPNU", rec.RadicadoCPNU})
	}

	for i, row := range summaryRows {
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", i+3), row[0])
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", i+3), row[1])
	}
	f.SetColWidth(sheetSummary, "A", "B", 35)

	const sheetDeadlines = "Deadlines"
	f.NewSheet(sheetDeadlines)
	deadlineHeaders := []string{"Title", "Due Date", "Owner", "Completed"}
	for i, header := range deadlineHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetDeadlines, cell, header)
	}
	f.SetCellStyle(sheetDeadlines, "A1", "D1", headerStyle)
	for i, dl := range rec.Deadlines {
		row := i + 2
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("A%d", row), dl.Title)
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("B%d", row), dl.DueDate)
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("C%d", row), dl.Owner)
		f.SetCellValue(sheetDeadlines, fmt.Sprintf("D%d", row), dl.Completed)
	}
	f.SetColWidth(sheetDeadlines, "A", "D", 25)

	const sheetActuaciones = "Actuaciones"
	f.NewSheet(sheetActuaciones)
	actHeaders := []string{"Fecha", "Actuación", "Anotación"}
	for i, header := range actHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetActuaciones, cell, header)
	}
	f.SetCellStyle(sheetActuaciones, "A1", "C1", headerStyle)
	for i, act := range rec.CPNUActuaciones {
		row := i + 2
		f.SetCellValue(sheetActuaciones, fmt.Sprintf("A%d", row), act.FechaActuacion)
		f.SetCellValue(sheetActuaciones, fmt.Sprintf("B%d", row), act.Actuacion)
		f.SetCellValue(sheetActuaciones, fmt.Sprintf("C%d", row), act.Anotacion)
	}
	f.SetColWidth(sheetActuaciones, "A", "C", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// BuildCaseSummaryHTML renders the printable case summary used for PDF
// generation
func BuildCaseSummaryHTML(rec *models.CaseRecord) string {
	var b strings.Builder

	esc := html.EscapeString

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
body { font-family: Georgia, serif; margin: 0; color: #1a1a1a; }
h1 { font-size: 20px; border-bottom: 2px solid #1a1a1a; padding-bottom: 8px; }
h2 { font-size: 14px; margin-top: 24px; text-transform: uppercase; letter-spacing: 1px; }
table { width: 100%; border-collapse: collapse; font-size: 12px; }
td, th { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
.meta td:first-child { font-weight: bold; width: 30%; }
</style></head><body>`)

	fmt.Fprintf(&b, "<h1>Case %s</h1>", esc(strings.ToUpper(rec.CaseID)))

	b.WriteString(`<table class="meta">`)
	writeRow := func(label, value string) {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", esc(label), esc(value))
	}
	writeRow("Plaintiff", rec.Plaintiff)
	writeRow("Defendant", rec.Defendant)
	writeRow("Court", rec.Court)
	writeRow("Case type", rec.CaseType)
	writeRow("Status", rec.Status)
	if rec.Attorney != nil {
		writeRow("Attorney", *rec.Attorney)
	}
	if rec.LinkedCPNU {
		writeRow("Radicado CPNU", rec.RadicadoCPNU)
	}
	b.WriteString("</table>")

	if len(rec.Deadlines) > 0 {
		b.WriteString("<h2>Deadlines</h2><table><tr><th>Title</th><th>Due date</th><th>Owner</th></tr>")
		for _, dl := range rec.Deadlines {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>", esc(dl.Title), esc(dl.DueDate), esc(dl.Owner))
		}
		b.WriteString("</table>")
	}

	if len(rec.RecentActivity) > 0 {
		b.WriteString("<h2>Recent activity</h2><table><tr><th>Time</th><th>Activity</th></tr>")
		for _, entry := range rec.RecentActivity {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", esc(entry.Time), esc(entry.Message))
		}
		b.WriteString("</table>")
	}

	b.WriteString("</body></html>")
	return b.String()
}
