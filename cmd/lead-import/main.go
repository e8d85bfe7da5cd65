package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/leads/exports"
	"mlm_sales_backend/internal/leads/imports"
	"mlm_sales_backend/internal/leads/management"
	"mlm_sales_backend/internal/leads/ports"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/scoring"
	"mlm_sales_backend/platform/config"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/phone"
	"mlm_sales_backend/platform/store"
)

// errInvalidFile marks a file that parsed but failed validation.
var errInvalidFile = errors.New("csv file has errors")

type report struct {
	File      string       `json:"file"`
	TotalRows int          `json:"totalRows"`
	Valid     bool         `json:"valid"`
	Imported  int          `json:"imported"`
	Errors    []string     `json:"errors"`
	Leads     []reportLead `json:"leads"`
}

type reportLead struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
	Source  string `json:"source"`
	AIScore int    `json:"aiScore"`
	Tier    string `json:"tier"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	log := logger.New(cfg.Env)

	err = run(context.Background(), os.Args[1:], os.Stdout, cfg.GetPhoneDefaultRegion(), log)
	if errors.Is(err, errInvalidFile) {
		os.Exit(1)
	}
	if err != nil {
		log.Error("lead import failed", "error", err)
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, region string, log *logger.Logger) error {
	fs := flag.NewFlagSet("lead-import", flag.ContinueOnError)
	in := fs.String("in", "", "CSV file to import")
	format := fs.String("format", "json", "output format: json or xlsx")
	out := fs.String("out", "", "output path for xlsx (required with -format xlsx)")
	mapping := fs.String("map", "", "explicit column mapping, e.g. name=Full Name,email=E-mail")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	if *format != "json" && *format != exports.FormatXLSX {
		return fmt.Errorf("unsupported format %q", *format)
	}
	if *format == exports.FormatXLSX && *out == "" {
		return errors.New("-out is required with -format xlsx")
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	columns, err := parseMapping(*mapping)
	if err != nil {
		return err
	}

	repo := repository.NewMemory(store.Latency{}, nil)
	bus := events.NewInMemoryBus(log)
	defer bus.Wait()
	svc := imports.New(repo, scoring.New(ports.NoAppointments{}, log), phone.NewNormalizer(region), bus, log, imports.DefaultConfig())

	preview, err := svc.Preview(ctx, bytes.NewReader(raw), columns)
	if err != nil {
		return err
	}
	rep := report{File: *in, TotalRows: preview.TotalRows, Valid: preview.Valid, Errors: preview.Errors, Leads: []reportLead{}}

	if preview.Valid {
		result, err := svc.Import(ctx, bytes.NewReader(raw), columns)
		if err != nil {
			return err
		}
		rep.Imported = result.Imported
	}

	leads, err := repo.List(ctx)
	if err != nil {
		return err
	}
	management.SortByScore(leads)
	for _, l := range leads {
		rep.Leads = append(rep.Leads, reportLead{
			Name:    l.Name,
			Email:   l.Email,
			Phone:   l.Phone,
			Status:  l.Status,
			Source:  l.Source,
			AIScore: l.AIScore,
			Tier:    scoring.Tier(l.AIScore),
		})
	}

	if *format == exports.FormatXLSX && rep.Valid {
		if err := writeWorkbook(*out, leads); err != nil {
			return err
		}
		log.Info("workbook written", "path", *out, "leads", len(leads))
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return err
	}
	if !rep.Valid {
		return errInvalidFile
	}
	return nil
}

func writeWorkbook(path string, leads []repository.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exports.WriteLeads(exports.FormatXLSX, leads, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// parseMapping reads "field=Header" pairs separated by commas.
func parseMapping(value string) (map[string]string, error) {
	out := make(map[string]string)
	if strings.TrimSpace(value) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(value, ",") {
		field, header, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("invalid mapping %q", pair)
		}
		out[strings.ToLower(strings.TrimSpace(field))] = strings.TrimSpace(header)
	}
	return out, nil
}
