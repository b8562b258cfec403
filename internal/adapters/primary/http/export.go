package http

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/task-analytics/internal/adapters/primary/validation"
	"github.com/lorrc/task-analytics/internal/core/domain"
	apperrors "github.com/lorrc/task-analytics/internal/core/errors"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportFormats = []string{FormatCSV, FormatXLSX}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleExport writes one section's table as a download.
func (h *AnalyticsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	report := chi.URLParam(r, "report")
	section := chi.URLParam(r, "section")

	values := r.URL.Query()
	format, err := validation.ParseExportFormat(values, exportFormats)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req := h.parseRequest(r, values)
	req.Filters = h.readFilters(r, values)
	req.Section = section

	view, resolved, err := h.build(r.Context(), report, req, newHrefs(report, req))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if resolved == "" {
		h.errorHandler.Handle(w, r, apperrors.NewNotFoundError(apperrors.ErrUnknownSection, "Section not found"))
		return
	}
	table, ok := view.Table(section)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewNotFoundError(apperrors.ErrNotExportable, "Section has no table to export"))
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.%s", report, section, domain.FormatDay(time.Now()), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	switch format {
	case FormatXLSX:
		w.Header().Set("Content-Type", xlsxContentType)
		err = WriteXLSX(w, section, table)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = WriteCSV(w, table)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export", "format", format, "error", err)
	}
}

// exportRecords flattens a table into header, body and totals records.
func exportRecords(t viewmodel.Table) [][]viewmodel.Cell {
	records := make([][]viewmodel.Cell, 0, len(t.Rows)+2)

	header := make([]viewmodel.Cell, 0, len(t.Headers))
	for _, h := range t.Headers {
		header = append(header, viewmodel.Cell{Text: h.Text})
	}
	records = append(records, header)
	records = append(records, t.Rows...)
	if len(t.Totals) > 0 {
		records = append(records, t.Totals)
	}
	return records
}

// WriteCSV writes the table as RFC 4180 CSV.
func WriteCSV(w io.Writer, t viewmodel.Table) error {
	cw := csv.NewWriter(w)
	for _, record := range exportRecords(t) {
		fields := make([]string, 0, len(record))
		for _, cell := range record {
			fields = append(fields, cell.ExportText())
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table as a single-sheet workbook. Numeric cells are
// written as numbers.
func WriteXLSX(w io.Writer, sheet string, t viewmodel.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, record := range exportRecords(t) {
		row := make([]any, 0, len(record))
		for _, cell := range record {
			row = append(row, xlsxValue(cell))
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, axis, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
		return err
	}

	return f.Write(w)
}

func xlsxValue(c viewmodel.Cell) any {
	text := c.ExportText()
	if c.Attributes[viewmodel.AttrNumeric] == "true" {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v
		}
	}
	return text
}

// sheetName trims name to the 31 characters a worksheet name allows.
func sheetName(name string) string {
	if name == "" {
		return "Export"
	}
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
