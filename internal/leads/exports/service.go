// Package exports writes the lead list as CSV or an XLSX workbook.
package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"mlm_sales_backend/internal/leads/management"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/scoring"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName  = "Leads"
	dateLayout = "2006-01-02"
)

var headers = []string{
	"ID", "Name", "Email", "Phone", "Company", "Source", "Status",
	"AI Score", "Tier", "Estimated Value", "Contract Value",
	"Date Added", "Last Contacted", "Activities", "Notes",
}

// Repository defines the data access interface needed by the export service.
type Repository interface {
	repository.LeadReader
}

// Service renders lead exports.
type Service struct {
	repo Repository
}

// New creates a new export service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename builds the download name for an export taken at t.
func Filename(format string, t time.Time) string {
	return fmt.Sprintf("leads-%s.%s", t.Format(dateLayout), format)
}

// Write renders every lead, best-scored first, to w.
func (s *Service) Write(ctx context.Context, format string, w io.Writer) error {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	management.SortByScore(leads)
	return WriteLeads(format, leads, w)
}

// WriteLeads renders the given leads in format.
func WriteLeads(format string, leads []repository.Lead, w io.Writer) error {
	switch format {
	case FormatCSV:
		return writeCSV(leads, w)
	case FormatXLSX:
		return writeExcel(leads, w)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func row(l repository.Lead) []interface{} {
	var contract interface{} = ""
	if l.ContractValue != nil {
		contract = *l.ContractValue
	}
	return []interface{}{
		l.ID, l.Name, l.Email, l.Phone, l.Company, l.Source, l.Status,
		l.AIScore, scoring.Tier(l.AIScore), l.EstimatedValue, contract,
		l.DateAdded.Format(dateLayout), l.LastContacted.Format(dateLayout),
		len(l.ContactHistory), len(l.Notes),
	}
}

func writeCSV(leads []repository.Lead, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, l := range leads {
		values := row(l)
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatCell(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func writeExcel(leads []repository.Lead, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, l := range leads {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row(l)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheetName, "A", lastCol, 16); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	return f.Write(w)
}
