package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/platform/store"

	"github.com/xuri/excelize/v2"
)

func seed() *repository.Memory {
	added := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	value := 12000.0
	return repository.NewMemory(store.Latency{}, []repository.Lead{
		{ID: 1, Name: "Low", Status: "New Leads", AIScore: 20, DateAdded: added, LastContacted: added},
		{ID: 2, Name: "High", Status: "Negotiation", AIScore: 85, ContractValue: &value, DateAdded: added, LastContacted: added},
	})
}

func TestWriteCSVOrdersByScore(t *testing.T) {
	var buf bytes.Buffer
	if err := New(seed()).Write(context.Background(), FormatCSV, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if records[1][1] != "High" || records[1][10] != "12000" || records[1][11] != "2026-01-05" {
		t.Fatalf("unexpected first row %v", records[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := New(seed()).Write(context.Background(), FormatXLSX, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	name, err := f.GetCellValue(sheetName, "B2")
	if err != nil || name != "High" {
		t.Fatalf("expected High in B2, got %q (%v)", name, err)
	}
	header, _ := f.GetCellValue(sheetName, "H1")
	if header != "AI Score" {
		t.Fatalf("unexpected header %q", header)
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	if err := WriteLeads("pdf", nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
