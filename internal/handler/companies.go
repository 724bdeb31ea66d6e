package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// CompanyReader lists the company aggregate
type CompanyReader interface {
	List(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error)
	ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error)
}

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	companies CompanyReader
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companies CompanyReader) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// List handles GET /v1/companies.
// Query: featured=true, sort=positions, active=true, limit=N
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.CompanyFilter{
		Limit: queryInt(r, "limit", model.DefaultCompanyLimit),
	}
	filter.Featured, _ = queryBool(r, "featured")
	filter.Active, _ = queryBool(r, "active")
	switch strings.ToLower(r.URL.Query().Get("sort")) {
	case "positions", "open_positions", "jobs":
		filter.SortByPositions = true
	}

	companies, err := h.companies.List(r.Context(), filter)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list companies"))
		return
	}

	WriteData(w, http.StatusOK, companies, nil)
}

// Reconcile handles POST /v1/admin/companies/reconcile
func (h *CompanyHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	summary, err := h.companies.ReconcileAll(r.Context())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "reconcile companies"))
		return
	}

	WriteData(w, http.StatusOK, summary, nil)
}
