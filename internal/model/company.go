package model

import "time"

// Company is the materialized open-position aggregate for one company name.
// Logo, Location and Industry are advisory display hints copied from the
// most recently published job; OpenPositions may drift until reconciled.
type Company struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"company_name"`
	Logo          string    `json:"logo,omitempty"`
	Location      string    `json:"location,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	OpenPositions int       `json:"open_positions"`
	Featured      bool      `json:"featured"`
	Description   string    `json:"description,omitempty"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

// Company listing limits
const (
	DefaultCompanyLimit = 20
	MaxCompanyLimit     = 100
)

// CompanyFilter narrows a company listing
type CompanyFilter struct {
	// Featured restricts to featured companies when true
	Featured bool
	// SortByPositions orders by open positions first
	SortByPositions bool
	// Active computes counts live from non-expired jobs
	Active bool
	Limit  int
}

// Normalize clamps the limit to 1..MaxCompanyLimit
func (f *CompanyFilter) Normalize() {
	if f.Limit < 1 {
		f.Limit = DefaultCompanyLimit
	}
	if f.Limit > MaxCompanyLimit {
		f.Limit = MaxCompanyLimit
	}
}

// ReconcileSummary reports the outcome of a full company reconciliation
type ReconcileSummary struct {
	CompaniesProcessed int       `json:"companies_processed"`
	Created            int       `json:"created"`
	Updated            int       `json:"updated"`
	StaleZeroed        int       `json:"stale_zeroed"`
	StaleDeleted       int       `json:"stale_deleted"`
	StalePolicy        string    `json:"stale_policy"`
	CompletedAt        time.Time `json:"completed_at"`
}

// CompanyJobCount is the live number of open jobs for one company name
type CompanyJobCount struct {
	Company     string `json:"company"`
	CompanyLogo string `json:"company_logo,omitempty"`
	Category    string `json:"category,omitempty"`
	Count       int    `json:"count"`
}
