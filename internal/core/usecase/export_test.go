package usecase

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/documind/docrouter/internal/core/domain"
)

func exportFixture(t *testing.T) *docStoreFake {
	t.Helper()
	store := &docStoreFake{}

	if _, err := store.Append(domain.ClassifiedDocument{
		FileName:  "citacion.pdf",
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Theme:     domain.ThemeCitation,
		Summary:   "Citación judicial ordinaria",
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := store.Append(domain.ClassifiedDocument{
		FileName:  "multa.pdf",
		CreatedAt: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
		Theme:     domain.ThemeSanction,
		Summary:   `Resumen "urgente", revisar`,
		Fields: []domain.ExtractedField{
			{Label: "Importe", Value: "200€", Confidence: 0.95},
			{Label: "Matrícula", Value: "1234-ABC", Confidence: 0.9},
		},
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return store
}

func TestExportCSVLayout(t *testing.T) {
	uc := NewExportUseCase(exportFixture(t))

	var buf bytes.Buffer
	if err := uc.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	want := "ID,Timestamp,FileName,Theme,Summary,Fields\n" +
		"doc-2,2026-08-30T11:00:00Z,multa.pdf,Acuerdo de Sanción,\"Resumen \"\"urgente\"\", revisar\",Importe:200€ | Matrícula:1234-ABC\n" +
		"doc-1,2026-08-30T10:00:00Z,citacion.pdf,Citación / Notificación,Citación judicial ordinaria,\n"
	if buf.String() != want {
		t.Fatalf("csv output mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestExportCSVEmptyStoreHeaderOnly(t *testing.T) {
	uc := NewExportUseCase(&docStoreFake{})

	var buf bytes.Buffer
	if err := uc.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if buf.String() != "ID,Timestamp,FileName,Theme,Summary,Fields\n" {
		t.Fatalf("expected header-only csv, got %q", buf.String())
	}
}

func TestExportXLSXRoundTrip(t *testing.T) {
	uc := NewExportUseCase(exportFixture(t))

	var buf bytes.Buffer
	if err := uc.ExportXLSX(&buf); err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][5] != "Fields" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "doc-2" || rows[1][3] != "Acuerdo de Sanción" {
		t.Fatalf("newest record not first: %v", rows[1])
	}
	if rows[1][5] != "Importe:200€ | Matrícula:1234-ABC" {
		t.Fatalf("fields cell mismatch: %q", rows[1][5])
	}
	if rows[2][0] != "doc-1" || rows[2][2] != "citacion.pdf" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}
