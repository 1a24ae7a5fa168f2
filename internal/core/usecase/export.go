package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/core/ports"
)

var exportColumns = []string{"ID", "Timestamp", "FileName", "Theme", "Summary", "Fields"}

// ExportUseCase writes projections of the document store. The CSV layout
// is a fixed external contract: the Fields column serializes each
// extracted field as label:value, joined by " | ", with standard CSV
// quoting on top.
type ExportUseCase struct {
	docs ports.DocumentStore
}

func NewExportUseCase(docs ports.DocumentStore) *ExportUseCase {
	return &ExportUseCase{docs: docs}
}

func (uc *ExportUseCase) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, doc := range uc.docs.List() {
		if err := writer.Write(exportRow(doc)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (uc *ExportUseCase) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &exportColumns); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, doc := range uc.docs.List() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx cell name: %w", err)
		}
		row := exportRow(doc)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row: %w", err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func exportRow(doc domain.ClassifiedDocument) []string {
	return []string{
		doc.ID,
		doc.CreatedAt.UTC().Format(time.RFC3339),
		doc.FileName,
		string(doc.Theme),
		doc.Summary,
		formatFields(doc.Fields),
	}
}

func formatFields(fields []domain.ExtractedField) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field.Label+":"+field.Value)
	}
	return strings.Join(parts, " | ")
}
