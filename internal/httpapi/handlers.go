package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/breakeven"
	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/compare"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

type countrySummary struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Region   string          `json:"region"`
	TopRate  decimal.Decimal `json:"top_rate"`
	Brackets int             `json:"brackets"`
}

func summarize(p domain.CountryTaxProfile) countrySummary {
	return countrySummary{
		Code:     p.Code,
		Name:     p.Name,
		Currency: p.Currency,
		Region:   p.Region,
		TopRate:  p.TopRate(),
		Brackets: len(p.Brackets),
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    s.now().Sub(s.startedAt).String(),
		"countries": s.dataset.Len(),
		"cache":     s.engine.Stats(),
	})
}

func (s *Server) listCountries(w http.ResponseWriter, r *http.Request) {
	profiles := s.dataset.List()
	if region := r.URL.Query().Get("region"); region != "" {
		profiles = s.dataset.ListRegion(region)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"countries": lo.Map(profiles, func(p domain.CountryTaxProfile, _ int) countrySummary { return summarize(p) }),
		"regions":   s.dataset.Regions(),
	})
}

func (s *Server) getCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	p, ok := s.dataset.Get(code)
	if !ok {
		WriteError(r.Context(), w, NewError("unknown_country", "no tax profile for "+strings.ToUpper(code), http.StatusNotFound))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	income, err := domain.ParseIncome(q.Get("income"))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_income", err.Error(), http.StatusBadRequest))
		return
	}
	country := q.Get("country")
	if strings.TrimSpace(country) == "" {
		WriteError(r.Context(), w, NewError("missing_country", "country is required", http.StatusBadRequest))
		return
	}

	result := s.engine.CalculateTax(income, country)

	target := q.Get("currency")
	if target == "" {
		target = s.displayCurrency
	}
	if target != "" {
		converted, err := s.rates.ConvertResult(result, target)
		if err != nil {
			WriteError(r.Context(), w, NewError("unknown_currency", err.Error(), http.StatusBadRequest))
			return
		}
		result = converted
	}
	writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Requests []calculation.Request `json:"requests"`
	Workers  int                   `json:"workers"`
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		WriteError(r.Context(), w, NewError("invalid_body", "request body must be JSON: "+err.Error(), http.StatusBadRequest))
		return
	}
	if len(body.Requests) == 0 {
		WriteError(r.Context(), w, NewError("invalid_body", "requests must not be empty", http.StatusBadRequest))
		return
	}
	if len(body.Requests) > maxBatchSize {
		WriteError(r.Context(), w, NewError("batch_too_large", "at most 1000 requests per batch", http.StatusBadRequest))
		return
	}

	results, err := calculation.CalculateBatch(r.Context(), s.engine, body.Requests, body.Workers)
	if err != nil {
		WriteError(r.Context(), w, NewError("cancelled", err.Error(), http.StatusServiceUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) compareCountries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	income, err := domain.ParseIncome(q.Get("income"))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_income", err.Error(), http.StatusBadRequest))
		return
	}

	var with []string
	if raw := q.Get("with"); raw != "" {
		with = strings.Split(raw, ",")
	}
	set, err := s.compare.Compare(r.Context(), compare.CompareOptions{
		Income:      income,
		BaseCountry: q.Get("base"),
		Countries:   with,
		Region:      q.Get("region"),
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, set)
	case errors.Is(err, domain.ErrUnknownCountry):
		WriteError(r.Context(), w, NewError("unknown_country", err.Error(), http.StatusNotFound))
	case errors.Is(err, domain.ErrUnknownCurrency):
		WriteError(r.Context(), w, NewError("unknown_currency", err.Error(), http.StatusUnprocessableEntity))
	default:
		WriteError(r.Context(), w, NewError("internal", err.Error(), http.StatusInternalServerError))
	}
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := breakeven.ParseTarget(q.Get("target"))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_target", err.Error(), http.StatusBadRequest))
		return
	}
	value, err := decimal.NewFromString(strings.TrimSpace(q.Get("value")))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_value", "value must be a number", http.StatusBadRequest))
		return
	}
	if err := domain.CheckAmount(value); err != nil {
		WriteError(r.Context(), w, NewError("invalid_value", err.Error(), http.StatusBadRequest))
		return
	}

	var result any
	if country := q.Get("country"); country != "" {
		result, err = s.solver.Solve(r.Context(), breakeven.SolveRequest{Country: country, Target: target, Value: value})
	} else {
		var with []string
		if raw := q.Get("with"); raw != "" {
			with = strings.Split(raw, ",")
		}
		result, err = s.solver.SolveAcross(r.Context(), breakeven.MultiRequest{
			BaseCurrency: q.Get("currency"),
			Target:       target,
			Value:        value,
			Countries:    with,
		})
	}

	var be *breakeven.BreakEvenError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, domain.ErrUnknownCountry):
		WriteError(r.Context(), w, NewError("unknown_country", err.Error(), http.StatusNotFound))
	case errors.Is(err, domain.ErrUnknownCurrency):
		WriteError(r.Context(), w, NewError("unknown_currency", err.Error(), http.StatusUnprocessableEntity))
	case errors.As(err, &be):
		WriteError(r.Context(), w, NewError("unsolvable", err.Error(), http.StatusUnprocessableEntity))
	default:
		WriteError(r.Context(), w, NewError("internal", err.Error(), http.StatusInternalServerError))
	}
}
