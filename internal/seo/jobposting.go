// Package seo renders schema.org metadata for job postings.
package seo

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// Defaults applied when a posting leaves the field empty
const (
	DefaultCurrency       = "PKR"
	DefaultUnit           = "MONTH"
	DefaultEmploymentType = "FULL_TIME"
	DefaultValidFor       = 30 * 24 * time.Hour
)

// Site describes the publishing site
type Site struct {
	Name string
	URL  string
	Logo string
}

type jobPosting struct {
	Context            string        `json:"@context"`
	Type               string        `json:"@type"`
	Title              string        `json:"title,omitempty"`
	Description        string        `json:"description,omitempty"`
	Identifier         *identifier   `json:"identifier,omitempty"`
	DatePosted         string        `json:"datePosted,omitempty"`
	ValidThrough       string        `json:"validThrough,omitempty"`
	EmploymentType     string        `json:"employmentType,omitempty"`
	HiringOrganization *organization `json:"hiringOrganization,omitempty"`
	JobLocation        *place        `json:"jobLocation,omitempty"`
	URL                string        `json:"url,omitempty"`
	BaseSalary         *monetary     `json:"baseSalary,omitempty"`
}

type identifier struct {
	Type  string `json:"@type"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

type organization struct {
	Type   string `json:"@type"`
	Name   string `json:"name,omitempty"`
	SameAs string `json:"sameAs,omitempty"`
	Logo   string `json:"logo,omitempty"`
}

type place struct {
	Type    string         `json:"@type"`
	Address *postalAddress `json:"address,omitempty"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

type monetary struct {
	Type     string       `json:"@type"`
	Currency string       `json:"currency"`
	Value    quantitative `json:"value"`
}

type quantitative struct {
	Type     string  `json:"@type"`
	MinValue float64 `json:"minValue"`
	MaxValue float64 `json:"maxValue"`
	UnitText string  `json:"unitText"`
}

var scriptTag = regexp.MustCompile(`(?is)<script[\s\S]*?>[\s\S]*?</script>`)

// sanitize strips script blocks and surrounding whitespace
func sanitize(s string) string {
	return strings.TrimSpace(scriptTag.ReplaceAllString(s, ""))
}

// BuildJobPosting renders job as a schema.org JobPosting JSON-LD document.
// Empty values are omitted. When only one salary bound is present it is
// used for both minValue and maxValue.
func BuildJobPosting(job *model.Job, site Site) (string, error) {
	if job == nil {
		return "", fmt.Errorf("seo: nil job")
	}

	doc := jobPosting{
		Context:        "https://schema.org",
		Type:           "JobPosting",
		Title:          sanitize(job.Title),
		Description:    sanitize(firstNonEmpty(job.LongDescription, job.ShortDescription)),
		EmploymentType: firstNonEmpty(job.JobType, DefaultEmploymentType),
		URL:            fmt.Sprintf("%s/jobs/%s", strings.TrimRight(site.URL, "/"), jobKey(job.ID)),
		HiringOrganization: &organization{
			Type:   "Organization",
			Name:   firstNonEmpty(job.Company, site.Name),
			SameAs: firstNonEmpty(job.Website, site.URL),
			Logo:   firstNonEmpty(job.CompanyLogo, site.Logo),
		},
	}

	if name := firstNonEmpty(site.Name, job.Company); name != "" || job.ID != "" {
		doc.Identifier = &identifier{Type: "PropertyValue", Name: name, Value: job.ID}
	}

	posted := job.CreatedOn
	if job.PostingDate != nil {
		posted = *job.PostingDate
	}
	if !posted.IsZero() {
		doc.DatePosted = posted.UTC().Format(time.RFC3339)
	}
	switch {
	case !job.EndDate.IsZero():
		doc.ValidThrough = job.EndDate.UTC().Format(time.RFC3339)
	case !posted.IsZero():
		doc.ValidThrough = posted.Add(DefaultValidFor).UTC().Format(time.RFC3339)
	}

	doc.JobLocation = buildLocation(job)

	if job.HasSalary() {
		lo, hi := collapseBounds(job.SalaryMin, job.SalaryMax)
		doc.BaseSalary = &monetary{
			Type:     "MonetaryAmount",
			Currency: strings.ToUpper(firstNonEmpty(job.Currency, DefaultCurrency)),
			Value: quantitative{
				Type:     "QuantitativeValue",
				MinValue: lo,
				MaxValue: hi,
				UnitText: strings.ToUpper(firstNonEmpty(job.SalaryPer, DefaultUnit)),
			},
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("seo: encode job posting: %w", err)
	}
	return string(out), nil
}

func buildLocation(job *model.Job) *place {
	addr := &postalAddress{Type: "PostalAddress"}
	if job.Remote {
		addr.AddressLocality = firstNonEmpty(job.City, "Remote")
		addr.AddressCountry = firstNonEmpty(job.Country, "PK")
	} else {
		addr.StreetAddress = job.Address
		addr.AddressLocality = job.City
		addr.AddressRegion = job.State
		addr.AddressCountry = job.Country
	}
	if *addr == (postalAddress{Type: "PostalAddress"}) {
		return nil
	}
	return &place{Type: "Place", Address: addr}
}

// collapseBounds fills a missing salary bound from the present one
func collapseBounds(lo, hi *float64) (float64, float64) {
	switch {
	case lo != nil && hi != nil:
		return *lo, *hi
	case lo != nil:
		return *lo, *lo
	case hi != nil:
		return *hi, *hi
	}
	return 0, 0
}

func jobKey(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
