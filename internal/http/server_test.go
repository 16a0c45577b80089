package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/dataset"
)

func tx(user, period, category string, amount float64) core.Transaction {
	return core.Transaction{
		ID:            "1",
		Date:          "05/01/2026",
		User:          core.Identity(user),
		Merchant:      "YPF Ruta 3",
		Amount:        amount,
		PaymentMethod: "Tarjeta",
		Status:        core.StatusConfirmed,
		Category:      category,
		Period:        period,
	}
}

func seededServer(t *testing.T) (*Server, *dataset.Store) {
	t.Helper()
	store := dataset.NewStore()
	store.Replace(
		[]core.Transaction{
			tx("Ana", "202601", core.FuelCategory, 30000),
			tx("Ana", "202512", "Comidas", 1500),
			tx("Bruno", "202601", "Peajes", 800),
		},
		[]core.MileageRecord{
			{Identity: "Ana", Period: "202601", Plate: "AB123CD", VehicleType: "Camioneta", Kilometers: 150},
		},
	)
	srv := NewServer(":0", store, nil, time.Minute)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, store
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealthAndReadiness(t *testing.T) {
	store := dataset.NewStore()
	srv := NewServer(":0", store, nil, time.Minute)
	defer srv.Shutdown(context.Background())

	if rr := get(t, srv, "/healthz"); rr.Code != http.StatusOK {
		t.Fatalf("/healthz status = %d", rr.Code)
	}
	if rr := get(t, srv, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("/readyz before data status = %d, want 503", rr.Code)
	}

	store.Replace([]core.Transaction{tx("Ana", "202601", "Otros", 1)}, nil)
	if rr := get(t, srv, "/readyz"); rr.Code != http.StatusOK {
		t.Fatalf("/readyz after data status = %d", rr.Code)
	}
}

func TestPeriodsEndpoint(t *testing.T) {
	srv, _ := seededServer(t)

	rr := get(t, srv, "/api/periods")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[struct {
		Periods []string `json:"periodos"`
		Default string   `json:"porDefecto"`
	}](t, rr)
	if len(got.Periods) != 2 || got.Periods[0] != "202601" || got.Periods[1] != "202512" {
		t.Errorf("periodos = %v, want [202601 202512]", got.Periods)
	}
	if got.Default != "202601" {
		t.Errorf("porDefecto = %q, want 202601", got.Default)
	}
}

func TestFiltersEndpoint(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[struct {
		Users      []string `json:"usuarios"`
		Categories []string `json:"categorias"`
		Methods    []string `json:"metodos"`
	}](t, get(t, srv, "/api/filters"))

	if len(got.Users) != 2 {
		t.Errorf("usuarios = %v, want 2 entries", got.Users)
	}
	if len(got.Categories) != 3 {
		t.Errorf("categorias = %v, want 3 entries", got.Categories)
	}
	if len(got.Methods) != 1 || got.Methods[0] != "Tarjeta" {
		t.Errorf("metodos = %v, want [Tarjeta]", got.Methods)
	}
}

func TestSummaryDefaultsToNewestPeriod(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[struct {
		Total float64 `json:"total"`
		Count int     `json:"transacciones"`
	}](t, get(t, srv, "/api/summary"))

	// 202601 only: Ana 30000 + Bruno 800.
	if got.Total != 30800 {
		t.Errorf("total = %v, want 30800", got.Total)
	}
	if got.Count != 2 {
		t.Errorf("transacciones = %d, want 2", got.Count)
	}
}

func TestSummaryExplicitEmptyPeriodCoversEverything(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[struct {
		Total float64 `json:"total"`
	}](t, get(t, srv, "/api/summary?periodo="))

	if got.Total != 32300 {
		t.Errorf("total = %v, want 32300 across all periods", got.Total)
	}
}

func TestSummaryHonorsUserFilter(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[struct {
		Total float64 `json:"total"`
	}](t, get(t, srv, "/api/summary?periodo=202601&usuario=Bruno"))

	if got.Total != 800 {
		t.Errorf("total = %v, want 800", got.Total)
	}
}

func TestCompositionEndpoint(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[[]struct {
		Category string  `json:"categoria"`
		Total    float64 `json:"total"`
		Percent  float64 `json:"porcentaje"`
	}](t, get(t, srv, "/api/composition?periodo=202601"))

	if len(got) != 2 {
		t.Fatalf("composition rows = %d, want 2", len(got))
	}
	if got[0].Category != core.FuelCategory || got[0].Total != 30000 {
		t.Errorf("top slice = %+v, want Combustible 30000", got[0])
	}
}

func TestFuelEndpointJoinsMileage(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[[]struct {
		User      string  `json:"usuario"`
		Spend     float64 `json:"gasto"`
		Kms       float64 `json:"kms"`
		CostPerKm float64 `json:"eficiencia"`
		Plate     string  `json:"patente"`
	}](t, get(t, srv, "/api/fuel?periodo=202601"))

	if len(got) != 1 {
		t.Fatalf("fuel rows = %d, want 1", len(got))
	}
	if got[0].User != "Ana" || got[0].CostPerKm != 200 || got[0].Plate != "AB123CD" {
		t.Errorf("fuel row = %+v, want Ana at 200 per km", got[0])
	}
}

func TestTransactionsSortedByAmount(t *testing.T) {
	srv, _ := seededServer(t)

	got := decode[[]struct {
		User   string  `json:"usuario"`
		Amount float64 `json:"importe"`
	}](t, get(t, srv, "/api/transactions?periodo=202601"))

	if len(got) != 2 {
		t.Fatalf("transactions = %d, want 2", len(got))
	}
	if got[0].Amount < got[1].Amount {
		t.Errorf("transactions not sorted by amount desc: %+v", got)
	}
}

func TestCachedResponsesTrackDatasetVersion(t *testing.T) {
	srv, store := seededServer(t)

	before := decode[struct {
		Total float64 `json:"total"`
	}](t, get(t, srv, "/api/summary?periodo=202601"))
	if before.Total != 30800 {
		t.Fatalf("total = %v, want 30800", before.Total)
	}

	// New dataset version must bypass the cached entry.
	store.Replace([]core.Transaction{tx("Ana", "202601", "Otros", 500)}, nil)
	after := decode[struct {
		Total float64 `json:"total"`
	}](t, get(t, srv, "/api/summary?periodo=202601"))
	if after.Total != 500 {
		t.Errorf("total after replace = %v, want 500", after.Total)
	}
}

type fakeRefresher struct {
	snap dataset.Snapshot
	err  error
}

func (f fakeRefresher) Refresh(context.Context) (dataset.Snapshot, error) {
	return f.snap, f.err
}

func TestRefreshEndpoint(t *testing.T) {
	store := dataset.NewStore()
	snap := store.Replace([]core.Transaction{tx("Ana", "202601", "Otros", 10)}, nil)
	srv := NewServer(":0", store, fakeRefresher{snap: snap}, time.Minute)
	defer srv.Shutdown(context.Background())

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /api/refresh status = %d", rr.Code)
	}
	got := decode[struct {
		Version int64 `json:"version"`
		Count   int   `json:"transacciones"`
	}](t, rr)
	if got.Version != snap.Version || got.Count != 1 {
		t.Errorf("refresh response = %+v, want version %d with 1 transaction", got, snap.Version)
	}

	// GET is not allowed on the refresh trigger.
	if rr := get(t, srv, "/api/refresh"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/refresh status = %d, want 405", rr.Code)
	}
}

func TestRefreshEndpointFailure(t *testing.T) {
	store := dataset.NewStore()
	srv := NewServer(":0", store, fakeRefresher{err: errors.New("upstream down")}, time.Minute)
	defer srv.Shutdown(context.Background())

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
}

func TestAggregateEndpointsRejectPost(t *testing.T) {
	srv, _ := seededServer(t)

	for _, path := range []string{"/api/periods", "/api/summary", "/api/alerts"} {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want 405", path, rr.Code)
		}
	}
}
