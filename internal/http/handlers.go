package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/report"
)

// produceFunc computes one endpoint's payload against a fixed engine.
type produceFunc func(e *report.Engine, r *http.Request) any

// cached wraps a payload producer with GET enforcement, response
// memoization and JSON serialization. Cache keys include the dataset
// version, so stale entries die naturally when a refresh lands.
func (s *Server) cached(produce produceFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		engine := report.New(s.store.Snapshot())
		key := fmt.Sprintf("%s?%s@%d", r.URL.Path, r.URL.RawQuery, engine.Version())

		if body, ok := s.responseCache.Get(key); ok {
			writeJSONBytes(w, body)
			return
		}

		body, err := json.Marshal(produce(engine, r))
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to serialize response", "url", r.URL.Path, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		s.responseCache.Set(key, body)
		writeJSONBytes(w, body)
	}
}

func writeJSONBytes(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// parseFilter maps query parameters onto a report.Filter. The "periodo"
// parameter defaults to the newest available period when absent; an
// explicitly empty value means "all periods".
func parseFilter(e *report.Engine, r *http.Request) report.Filter {
	q := r.URL.Query()

	f := report.Filter{
		User:          strings.TrimSpace(q.Get("usuario")),
		Search:        strings.TrimSpace(q.Get("buscar")),
		Category:      strings.TrimSpace(q.Get("categoria")),
		PaymentMethod: strings.TrimSpace(q.Get("metodo")),
		Mode:          report.Mode(q.Get("modo")),
	}

	if values, present := q["periodo"]; present {
		if len(values) > 0 {
			f.Period = strings.TrimSpace(values[0])
		}
	} else {
		f.Period = e.DefaultPeriod()
	}

	if v := q.Get("ventana"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Window = n
		}
	}
	if v := q.Get("lookback"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Lookback = n
		}
	}

	return f.Normalize()
}

type periodsResponse struct {
	Periods []string `json:"periodos"`
	Default string   `json:"porDefecto"`
}

func (s *Server) handlePeriods(e *report.Engine, _ *http.Request) any {
	periods := e.AvailablePeriods()
	if periods == nil {
		periods = []string{}
	}
	return periodsResponse{Periods: periods, Default: e.DefaultPeriod()}
}

type filtersResponse struct {
	Users          []string `json:"usuarios"`
	Categories     []string `json:"categorias"`
	PaymentMethods []string `json:"metodos"`
}

func (s *Server) handleFilters(e *report.Engine, _ *http.Request) any {
	return filtersResponse{
		Users:          orEmpty(e.Users()),
		Categories:     orEmpty(e.Categories()),
		PaymentMethods: orEmpty(e.PaymentMethods()),
	}
}

func (s *Server) handleSummary(e *report.Engine, r *http.Request) any {
	return e.Summary(parseFilter(e, r))
}

func (s *Server) handleComposition(e *report.Engine, r *http.Request) any {
	return e.CategoryComposition(parseFilter(e, r))
}

func (s *Server) handleRanking(e *report.Engine, r *http.Request) any {
	return e.UserRanking(parseFilter(e, r))
}

func (s *Server) handleChart(e *report.Engine, r *http.Request) any {
	return e.ChartSeries(parseFilter(e, r))
}

func (s *Server) handleAlerts(e *report.Engine, r *http.Request) any {
	return e.DeviationAlerts(parseFilter(e, r))
}

func (s *Server) handleFuel(e *report.Engine, r *http.Request) any {
	return e.FuelEfficiency(parseFilter(e, r))
}

func (s *Server) handleTransactions(e *report.Engine, r *http.Request) any {
	return e.Transactions(parseFilter(e, r))
}

type refreshResponse struct {
	Version      int64 `json:"version"`
	Transactions int   `json:"transacciones"`
	Mileage      int   `json:"kilometrajes"`
}

// handleRefresh re-fetches the dataset on demand. The response cache is
// flushed even though version-keyed entries would expire on their own, so
// memory is not held for a dataset nobody can query anymore.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.refresher == nil {
		http.Error(w, "refresh not configured", http.StatusServiceUnavailable)
		return
	}

	snap, err := s.refresher.Refresh(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Manual refresh failed", "error", err)
		http.Error(w, "refresh failed", http.StatusBadGateway)
		return
	}

	s.responseCache.Flush()

	body, err := json.Marshal(refreshResponse{
		Version:      snap.Version,
		Transactions: len(snap.Transactions),
		Mileage:      len(snap.Mileage),
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSONBytes(w, body)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
