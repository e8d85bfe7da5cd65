package reminders

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	val := validator.New()
	module := NewModule(fixtureLeads(), apptList{{ID: 1, LeadID: 6, ScheduledAt: daysAgo(1)}}, val, logger.Discard())
	module.Service.now = func() time.Time { return now }

	engine := gin.New()
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1"), Validator: val})
	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestReminderRoutes(t *testing.T) {
	engine := newRouter()

	rec := serve(engine, http.MethodGet, "/api/v1/reminders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) == 0 || list[0].LeadID != 2 {
		t.Fatalf("unexpected reminders %+v", list)
	}

	if rec := serve(engine, http.MethodPost, "/api/v1/reminders/2/snooze", `{"days":5}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on snooze, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/reminders/1/snooze", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on default snooze, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/reminders/4/snooze", `{"days":500}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for long snooze, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/reminders/4/complete", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on complete, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/reminders/42/complete", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/reminders/x/complete", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = serve(engine, http.MethodGet, "/api/v1/reminders", "")
	list = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0].LeadID != 5 {
		t.Fatalf("expected only lead 5 left, got %+v", list)
	}

	rec = serve(engine, http.MethodGet, "/api/v1/reminders/priorities", "")
	var styles []PriorityStyle
	_ = json.Unmarshal(rec.Body.Bytes(), &styles)
	if len(styles) != 4 || styles[0].Priority != PriorityUrgent {
		t.Fatalf("unexpected styles %+v", styles)
	}
}
