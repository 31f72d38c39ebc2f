package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnTengye/contractmock/config"
	"github.com/AnTengye/contractmock/model"
	"github.com/AnTengye/contractmock/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const seededID = "d290f1ee-6c54-4b01-90e6-d701748f0851"

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *service.ContractStore) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	store := service.NewContractStore(service.WithStrictStatus(cfg.Store.StrictStatus))
	store.Seed()
	return New(cfg, Deps{Store: store, NewID: service.NewUUIDGenerator()}), store
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRootRoute(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, "GET", "/", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Expected plain text, got %s", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestCreateScenario(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, "POST", "/contracts",
		`{"customerId":"cust_1","policyType":"Auto","startDate":"2024-01-01","premiumAmount":100}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}

	var created model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if created.Status != model.StatusPendingApproval {
		t.Errorf("Expected pending_approval, got %s", created.Status)
	}
	if created.ContractID == "" || created.ContractID == seededID {
		t.Errorf("Expected fresh contractId, got %q", created.ContractID)
	}
}

func TestMissingFieldsScenario(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, "POST", "/contracts", `{"customerId":"cust_1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"message":"Missing required fields"}` {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestNotFoundScenario(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, "GET", "/contracts/unknown-id", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"message":"Contract not found"}` {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestCancelSeededScenario(t *testing.T) {
	router, store := newTestRouter(t, nil)

	w := serve(router, "DELETE", "/contracts/"+seededID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}

	w = serve(router, "GET", "/contracts/"+seededID, "")
	var got model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Errorf("Expected cancelled, got %s", got.Status)
	}

	w = serve(router, "GET", "/contracts", "")
	var list []model.Contract
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to parse list: %v", err)
	}
	if len(list) != store.Count() || list[0].ContractID != seededID {
		t.Errorf("Expected cancelled contract still listed first, got %+v", list)
	}
}

func TestUpdateNotFoundKeepsSize(t *testing.T) {
	router, store := newTestRouter(t, nil)

	w := serve(router, "PUT", "/contracts/unknown-id", `{"status":"active"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if store.Count() != 2 {
		t.Errorf("Expected 2 contracts, got %d", store.Count())
	}
}

func TestStrictStatusConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.StrictStatus = true
	router, _ := newTestRouter(t, cfg)

	w := serve(router, "PUT", "/contracts/"+seededID, `{"status":"archived"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	w = serve(router, "PUT", "/contracts/"+seededID, `{"status":"expired"}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestUnmatchedRoute(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/policies"},
		{"PATCH", "/contracts/" + seededID},
		{"POST", "/contracts/" + seededID},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(router, tt.method, tt.path, "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Expected status 404, got %d", w.Code)
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/contracts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", got)
	}

	req = httptest.NewRequest("OPTIONS", "/contracts/"+seededID, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected preflight status 204, got %d", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	if w := serve(router, "GET", "/health", ""); w.Code != http.StatusOK {
		t.Errorf("Expected health 200, got %d", w.Code)
	}

	serve(router, "GET", "/contracts/unknown-id", "")

	w := serve(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected metrics 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "contractmock_http_requests_total") {
		t.Error("Expected http request counter in exposition")
	}
	if !strings.Contains(body, `contractmock_contract_operations_total{operation="get",result="not_found"}`) {
		t.Error("Expected contract operation counter in exposition")
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.Default()
	disabled := false
	cfg.Metrics.Enabled = &disabled
	router, _ := newTestRouter(t, cfg)

	if w := serve(router, "GET", "/metrics", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with metrics disabled, got %d", w.Code)
	}
}

func TestRateLimitConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 0.01
	cfg.RateLimit.Burst = 2
	router, _ := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		if w := serve(router, "GET", "/contracts", ""); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := serve(router, "GET", "/contracts", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", w.Code)
	}
}
