package leads_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"mlm_sales_backend/internal/events"
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/internal/leads"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/phone"
	"mlm_sales_backend/platform/store"
	"mlm_sales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T, seed ...repository.Lead) (*gin.Engine, *events.InMemoryBus) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := events.NewInMemoryBus(logger.Discard())
	val := validator.New()
	module, err := leads.NewModule(leads.Deps{
		Repo:      repository.NewMemory(store.Latency{}, seed),
		Phones:    phone.NewNormalizer("US"),
		EventBus:  bus,
		Validator: val,
		Logger:    logger.Discard(),
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	engine := gin.New()
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1"), Validator: val})
	return engine, bus
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchLead(t *testing.T) {
	engine, bus := newRouter(t)
	defer bus.Wait()

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/leads", map[string]any{
		"name":   "Grace Hopper",
		"email":  "grace@navy.mil",
		"source": "Referral",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created transport.LeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.Status != "New Leads" {
		t.Fatalf("unexpected lead %+v", created)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/leads/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	engine, _ := newRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/leads", map[string]any{"email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation failed" || body.Details["name"] == "" || body.Details["email"] == "" {
		t.Fatalf("unexpected error body %+v", body)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/leads", map[string]any{"name": "X", "status": "Pending"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown stage, got %d", rec.Code)
	}
}

func TestLeadRoutesReturnNotFoundAndBadID(t *testing.T) {
	engine, _ := newRouter(t)

	if rec := doJSON(t, engine, http.MethodGet, "/api/v1/leads/99", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, engine, http.MethodGet, "/api/v1/leads/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestActivityMovesPipeline(t *testing.T) {
	engine, bus := newRouter(t, repository.Lead{ID: 3, Name: "Ada", Status: "Initial Contact"})
	defer bus.Wait()

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/leads/3/activities", map[string]any{
		"type":        "presentation",
		"action":      "scheduled",
		"outcome":     "positive",
		"description": "Booked the opportunity call",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var result transport.ActivityResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.StatusChanged || result.Lead.Status != "Presentation Scheduled" || result.PreviousStage != "Initial Contact" {
		t.Fatalf("unexpected result %+v", result)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/leads/3/activities", map[string]any{
		"type": "carrier-pigeon", "action": "sent", "outcome": "positive", "description": "coo",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestImportPreviewAndCommit(t *testing.T) {
	engine, bus := newRouter(t)
	defer bus.Wait()

	csv := "Full Name,Email Address,Phone\nAda Lovelace,ada@example.com,2015550123\nAlan Turing,alan@example.com,\n"
	for _, path := range []string{"/api/v1/leads/import/preview", "/api/v1/leads/import"} {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "leads.csv")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = part.Write([]byte(csv))
		_ = w.Close()

		req := httptest.NewRequest(http.MethodPost, path, &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code >= 300 {
			t.Fatalf("%s: expected success, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/leads", nil)
	var list transport.LeadListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("expected 2 imported leads, got %d", list.Total)
	}
}

func TestExportFormats(t *testing.T) {
	engine, _ := newRouter(t, repository.Lead{ID: 1, Name: "Ada", Email: "ada@example.com"})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/leads/export?format=xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", got)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/leads/export?format=pdf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestReassignedAppointmentRescoresBothLeads(t *testing.T) {
	engine, bus := newRouter(t,
		repository.Lead{ID: 1, Name: "Old Owner", Status: "New Leads"},
		repository.Lead{ID: 2, Name: "New Owner", Status: "New Leads"},
	)

	bus.Publish(context.Background(), events.AppointmentReassigned{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: 9,
		OldLeadID:     1,
		NewLeadID:     2,
	})
	bus.Wait()

	for _, path := range []string{"/api/v1/leads/1", "/api/v1/leads/2"} {
		rec := doJSON(t, engine, http.MethodGet, path, nil)
		var lead transport.LeadResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if lead.AIScore == 0 || len(lead.ScoreFactors) == 0 {
			t.Fatalf("expected %s to be rescored, got %+v", path, lead)
		}
	}
}
