package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"route-profit-service/internal/adapters/geocode"
	"route-profit-service/internal/adapters/repositories"
	"route-profit-service/internal/adapters/spreadsheet"
	"route-profit-service/internal/api/dto"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"strconv"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	g := geocode.NewMockGeocoder([]geocode.MockPlace{
		{City: "São Paulo", Coords: domain.Coordinates{Lat: -23.55, Lon: -46.63}},
		{City: "Rio de Janeiro", Coords: domain.Coordinates{Lat: -22.90, Lon: -43.17}},
		{City: "Belo Horizonte", Coords: domain.Coordinates{Lat: -19.92, Lon: -43.94}},
		{City: "Campinas", Coords: domain.Coordinates{Lat: -22.9056, Lon: -47.0608}},
	})

	repo := repositories.NewSqliteHistoryRepository(db, 0)
	return NewRouter(repo, g, services.ResolveOptions{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func calculate(t *testing.T, h http.Handler, driver string) dto.HistoryEntryResponse {
	t.Helper()

	body := `{"driver":"` + driver + `","origin":"São Paulo","destinations":[{"city":"Rio de Janeiro","packages":50,"value_per_package":25.5}],"route_cost":400}`
	rec := do(t, h, http.MethodPost, "/routes/calculate", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("calculate: status %d body=%s", rec.Code, rec.Body.String())
	}

	var res dto.HistoryEntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestHealthSetsRequestID(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id: got %q, want abc-123", got)
	}
}

func TestCalculateAndHistoryLifecycle(t *testing.T) {
	h := newTestRouter(t)

	entry := calculate(t, h, "Ana")
	if entry.ID == 0 || entry.TotalRevenue != 1275 || entry.Profit != 875 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.FuelAnalysis.Recommendation != "diesel" || entry.FuelAnalysis.Region != "São Paulo" {
		t.Fatalf("unexpected fuel analysis: %+v", entry.FuelAnalysis)
	}
	if len(entry.DistanceBreakdown) != 1 || entry.Metrics.MarginClass != "excellent" {
		t.Fatalf("unexpected breakdown or metrics: %+v", entry)
	}

	calculate(t, h, "Bruno")

	rec := do(t, h, http.MethodGet, "/history?q=ana", "")
	var list dto.ListHistoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalItems != 1 || list.Items[0].Driver != "Ana" {
		t.Fatalf("filtered list: %+v", list)
	}

	id := strconv.FormatInt(entry.ID, 10)
	if rec := do(t, h, http.MethodGet, "/history/"+id, ""); rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/history/"+id+"/report.pdf", "")
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("report: status %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, "/history/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/history/"+id, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: status %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/history/"+id, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete again: status %d, want 404", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, "/history", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear: status %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/history", "")
	list = dto.ListHistoryResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalItems != 0 {
		t.Fatalf("history not cleared: %+v", list)
	}
}

func TestCalculateErrors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"validation", `{"driver":"Ana","origin":"","destinations":[],"route_cost":-1}`, http.StatusBadRequest},
		{"unknown city", `{"driver":"Ana","origin":"São Paulo","destinations":[{"city":"Atlantis","packages":1,"value_per_package":1}],"route_cost":0}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"driver":"Ana","truck":1}`, http.StatusBadRequest},
		{"two objects", `{"driver":"Ana"}{"driver":"Bia"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/routes/calculate", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status: got %d, want %d body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	rec := do(t, h, http.MethodPost, "/routes/calculate", `{"origin":"","destinations":[],"route_cost":-1}`)
	var verr dto.ValidationErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&verr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(verr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %+v", verr.Problems)
	}

	rec = do(t, h, http.MethodGet, "/history", "")
	var list dto.ListHistoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalItems != 0 {
		t.Fatalf("failed calculations must not be recorded, got %d", list.TotalItems)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t)

	if rec := do(t, h, http.MethodGet, "/routes/calculate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rec.Code)
	}
}

func upload(t *testing.T, h http.Handler, path string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "rotas.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestImportTemplate(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/routes/template", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("template: status %d", rec.Code)
	}
	template := rec.Body.Bytes()

	rec = upload(t, h, "/routes/import", template)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: status %d body=%s", rec.Code, rec.Body.String())
	}
	var res dto.ImportResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Routes) != 3 || len(res.Errors) != 0 || len(res.Calculated) != 0 {
		t.Fatalf("unexpected import result: %+v", res)
	}

	// Only the first example route uses cities the test geocoder knows.
	rec = upload(t, h, "/routes/import?calculate=true", template)
	res = dto.ImportResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Calculated) != 1 || len(res.Failures) != 2 {
		t.Fatalf("calculated=%d failures=%d", len(res.Calculated), len(res.Failures))
	}
	if res.Calculated[0].TotalPackages != 50 {
		t.Fatalf("imported packages: got %d, want 50", res.Calculated[0].TotalPackages)
	}

	if rec := upload(t, h, "/routes/import", []byte("not a workbook")); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad upload: status %d, want 400", rec.Code)
	}
}

func TestExportsAndAnalytics(t *testing.T) {
	h := newTestRouter(t)
	a := calculate(t, h, "Ana")
	b := calculate(t, h, "Bruno")

	rec := do(t, h, http.MethodGet, "/exports/history.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx export: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("xlsx content type: %q", ct)
	}
	if _, err := spreadsheet.ImportRoutes(bytes.NewReader(rec.Body.Bytes())); err == nil {
		t.Fatal("history export is not an import sheet")
	}

	rec = do(t, h, http.MethodGet, "/reports/history.pdf", "")
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("history pdf: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/dashboard", "")
	var d dto.DashboardResponse
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if d.TotalRoutes != 2 || len(d.RouteTypes) != 1 || d.RouteTypes[0].Count != 2 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}

	body := `{"ids":[` + strconv.FormatInt(a.ID, 10) + `,` + strconv.FormatInt(b.ID, 10) + `]}`
	rec = do(t, h, http.MethodPost, "/comparisons", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare: status %d body=%s", rec.Code, rec.Body.String())
	}
	var c dto.ComparisonResponse
	if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	if len(c.Routes) != 2 {
		t.Fatalf("compared routes: got %d, want 2", len(c.Routes))
	}

	if rec := do(t, h, http.MethodPost, "/comparisons", `{"ids":[1,2,3,4,5,6]}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("too many ids: status %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/comparisons", `{"ids":[]}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("no ids: status %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/comparisons", `{"ids":[42]}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status %d, want 404", rec.Code)
	}
}
