package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"lexsync_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func exportFixture() *models.CaseRecord {
	attorney := "Dra. Gómez"
	return &models.CaseRecord{
		CaseID:    "1001",
		Plaintiff: "Acme S.A.",
		Defendant: "Juan Pérez",
		Court:     "Juzgado 1 Civil",
		CaseType:  "Ejecutivo",
		Attorney:  &attorney,
		Status:    "active",
		Deadlines: []models.Deadline{
			{Title: "File response", DueDate: "2025-11-01", Owner: "Dra. Gómez"},
		},
		LinkedCPNU:   true,
		RadicadoCPNU: "11001310300020240012300",
		CPNUActuaciones: []models.Actuacion{
			{IDRegActuacion: "501", Actuacion: "Auto admisorio", FechaActuacion: "2025-09-01"},
		},
	}
}

func TestBuildCaseWorkbook(t *testing.T) {
	buf, err := BuildCaseWorkbook(exportFixture())
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Deadlines", "Actuaciones"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Case 1001", title)

	deadline, err := f.GetCellValue("Deadlines", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "File response", deadline)

	actuacion, err := f.GetCellValue("Actuaciones", "B2")
	assert.NoError(t, err)
	assert.Equal(t, "Auto admisorio", actuacion)
}

func TestExportWorkbookStoresArtifact(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())
	exporter := NewCaseExporter(storage)

	result, err := exporter.ExportWorkbook(context.Background(), "u1", exportFixture())
	assert.NoError(t, err)
	assert.Contains(t, result.Key, "users/u1/cases/1001/exports/")

	reader, _, err := storage.Get(context.Background(), result.Key)
	assert.NoError(t, err)
	reader.Close()
}

func TestExportPDFStoresArtifact(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())
	exporter := NewCaseExporter(storage)

	var renderedHTML string
	exporter.renderPDF = func(htmlContent string, options PDFOptions) ([]byte, error) {
		renderedHTML = htmlContent
		assert.Equal(t, "letter", options.PageSize)
		return []byte("%PDF-1.4 stub"), nil
	}

	result, err := exporter.ExportPDF(context.Background(), "u1", exportFixture())
	assert.NoError(t, err)
	assert.Contains(t, result.Key, "users/u1/cases/1001/exports/")
	assert.True(t, strings.HasSuffix(result.Key, ".pdf"))
	assert.Contains(t, renderedHTML, "Case 1001")

	reader, _, err := storage.Get(context.Background(), result.Key)
	assert.NoError(t, err)
	data, err := io.ReadAll(reader)
	reader.Close()
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 stub", string(data))
}

func TestExportPDFRenderFailure(t *testing.T) {
	exporter := NewCaseExporter(NewLocalStorage(t.TempDir()))
	exporter.renderPDF = func(string, PDFOptions) ([]byte, error) {
		return nil, errors.New("chrome unavailable")
	}

	_, err := exporter.ExportPDF(context.Background(), "u1", exportFixture())
	assert.Error(t, err)
}

func TestBuildCaseSummaryHTML(t *testing.T) {
	html := BuildCaseSummaryHTML(exportFixture())

	assert.Contains(t, html, "Acme S.A.")
	assert.Contains(t, html, "Juan Pérez")
	assert.Contains(t, html, "11001310300020240012300")
}

func TestBuildCaseSummaryHTMLEscapes(t *testing.T) {
	rec := &models.CaseRecord{
		CaseID:    "1001",
		Plaintiff: `<script>alert("x")</script>`,
		Status:    "active",
	}

	html := BuildCaseSummaryHTML(rec)
	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
}
