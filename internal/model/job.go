package model

import (
	"strings"
	"time"
)

// JobStatus is the lifecycle state of a job posting
type JobStatus string

const (
	JobStatusActive  JobStatus = "Active"
	JobStatusDraft   JobStatus = "Draft"
	JobStatusExpired JobStatus = "Expired"
)

// IsValid reports whether s is a known status
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusActive, JobStatusDraft, JobStatusExpired:
		return true
	}
	return false
}

// Job defaults
const (
	DefaultCurrency  = "USD"
	DefaultSalaryPer = "Year"
)

// Job list pagination limits
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	RecentJobsLimit  = 10
)

// Job is an authoritative job posting. Company is a denormalized name, not a
// reference to the company aggregate.
type Job struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	CompanyLogo       string     `json:"company_logo,omitempty"`
	Category          string     `json:"category,omitempty"`
	JobType           string     `json:"job_type,omitempty"`
	WorkMode          string     `json:"work_mode,omitempty"`
	Remote            bool       `json:"remote"`
	Country           string     `json:"country,omitempty"`
	City              string     `json:"city,omitempty"`
	State             string     `json:"state,omitempty"`
	Address           string     `json:"address,omitempty"`
	ShortDescription  string     `json:"short_description,omitempty"`
	LongDescription   string     `json:"long_description,omitempty"`
	Experience        string     `json:"experience,omitempty"`
	Education         string     `json:"education,omitempty"`
	EmploymentLevel   string     `json:"employment_level,omitempty"`
	Benefits          string     `json:"benefits,omitempty"`
	Apply             string     `json:"apply,omitempty"`
	Website           string     `json:"website,omitempty"`
	SalaryMin         *float64   `json:"salary_min,omitempty"`
	SalaryMax         *float64   `json:"salary_max,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	SalaryPer         string     `json:"salary_per,omitempty"`
	Skills            []string   `json:"skills,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	Featured          bool       `json:"featured"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	PostingDate       *time.Time `json:"posting_date,omitempty"`
	EndDate           time.Time  `json:"end_date"`
	PostedBy          string     `json:"posted_by,omitempty"`
	Status            JobStatus  `json:"status"`
	ApplicationsCount int        `json:"applications_count"`
	SchemaJSONLD      string     `json:"schema_json_ld,omitempty"`
	CreatedOn         time.Time  `json:"created_on"`
	UpdatedOn         time.Time  `json:"updated_on"`
}

// HasSalary reports whether either salary bound is present
func (j *Job) HasSalary() bool {
	return j.SalaryMin != nil || j.SalaryMax != nil
}

// IsPastEndDate reports whether the posting's end date has passed at now
func (j *Job) IsPastEndDate(now time.Time) bool {
	return !j.EndDate.IsZero() && !j.EndDate.After(now)
}

// IsExpired reports whether the job is expired, either by status or because
// its end date has passed.
func (j *Job) IsExpired(now time.Time) bool {
	return j.Status == JobStatusExpired || j.IsPastEndDate(now)
}

// CompanyMeta is the cached display metadata a job contributes to its
// company aggregate.
type CompanyMeta struct {
	Name     string
	Logo     string
	Industry string
	Location string
}

// CreateJobRequest is the payload for publishing a job posting
type CreateJobRequest struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	CompanyLogo      string   `json:"company_logo,omitempty"`
	Category         string   `json:"category,omitempty"`
	JobType          string   `json:"job_type,omitempty"`
	WorkMode         string   `json:"work_mode,omitempty"`
	Remote           bool     `json:"remote,omitempty"`
	Country          string   `json:"country,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	Address          string   `json:"address,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	LongDescription  string   `json:"long_description,omitempty"`
	Experience       string   `json:"experience,omitempty"`
	Education        string   `json:"education,omitempty"`
	EmploymentLevel  string   `json:"employment_level,omitempty"`
	Benefits         string   `json:"benefits,omitempty"`
	Apply            string   `json:"apply,omitempty"`
	Website          string   `json:"website,omitempty"`
	SalaryMin        *float64 `json:"salary_min,omitempty"`
	SalaryMax        *float64 `json:"salary_max,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	SalaryPer        string   `json:"salary_per,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Featured         bool     `json:"featured,omitempty"`
	Deadline         string   `json:"deadline,omitempty"`
	PostingDate      string   `json:"posting_date,omitempty"`
	EndDate          string   `json:"end_date"`
	Status           string   `json:"status,omitempty"`
}

// Validate checks the request against now. The end date must be strictly in
// the future.
func (r *CreateJobRequest) Validate(now time.Time) []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Title) == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(r.Company) == "" {
		errors = append(errors, FieldError{Field: "company", Message: "company is required"})
	}

	if r.EndDate == "" {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date is required"})
	} else if end, err := ParseDate(r.EndDate); err != nil {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be RFC 3339 or YYYY-MM-DD"})
	} else if !end.After(now) {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be in the future"})
	}

	if r.Deadline != "" {
		if _, err := ParseDate(r.Deadline); err != nil {
			errors = append(errors, FieldError{Field: "deadline", Message: "deadline must be RFC 3339 or YYYY-MM-DD"})
		}
	}
	if r.PostingDate != "" {
		if _, err := ParseDate(r.PostingDate); err != nil {
			errors = append(errors, FieldError{Field: "posting_date", Message: "posting_date must be RFC 3339 or YYYY-MM-DD"})
		}
	}

	if r.Status != "" && !JobStatus(r.Status).IsValid() {
		errors = append(errors, FieldError{Field: "status", Message: "status must be Active, Draft, or Expired"})
	}

	errors = append(errors, validateSalary(r.SalaryMin, r.SalaryMax)...)

	return errors
}

// ToJob builds the record to persist. Validate must have passed.
func (r *CreateJobRequest) ToJob(now time.Time) *Job {
	job := &Job{
		Title:            strings.TrimSpace(r.Title),
		Company:          strings.TrimSpace(r.Company),
		CompanyLogo:      r.CompanyLogo,
		Category:         r.Category,
		JobType:          r.JobType,
		WorkMode:         r.WorkMode,
		Remote:           r.Remote,
		Country:          r.Country,
		City:             r.City,
		State:            r.State,
		Address:          r.Address,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		Experience:       r.Experience,
		Education:        r.Education,
		EmploymentLevel:  r.EmploymentLevel,
		Benefits:         r.Benefits,
		Apply:            r.Apply,
		Website:          r.Website,
		SalaryMin:        r.SalaryMin,
		SalaryMax:        r.SalaryMax,
		Currency:         r.Currency,
		SalaryPer:        r.SalaryPer,
		Skills:           cleanList(r.Skills),
		Tags:             cleanList(r.Tags),
		Featured:         r.Featured,
		Status:           JobStatus(r.Status),
	}

	if job.Currency == "" {
		job.Currency = DefaultCurrency
	}
	if job.SalaryPer == "" {
		job.SalaryPer = DefaultSalaryPer
	}
	if job.Status == "" {
		job.Status = JobStatusActive
	}

	job.EndDate, _ = ParseDate(r.EndDate)
	if r.Deadline != "" {
		if d, err := ParseDate(r.Deadline); err == nil {
			job.Deadline = &d
		}
	}
	posting := now
	if r.PostingDate != "" {
		if d, err := ParseDate(r.PostingDate); err == nil {
			posting = d
		}
	}
	job.PostingDate = &posting

	return job
}

// UpdateJobRequest is a partial update of a job posting
type UpdateJobRequest struct {
	Title            *string   `json:"title,omitempty"`
	CompanyLogo      *string   `json:"company_logo,omitempty"`
	Category         *string   `json:"category,omitempty"`
	JobType          *string   `json:"job_type,omitempty"`
	WorkMode         *string   `json:"work_mode,omitempty"`
	Remote           *bool     `json:"remote,omitempty"`
	Country          *string   `json:"country,omitempty"`
	City             *string   `json:"city,omitempty"`
	State            *string   `json:"state,omitempty"`
	Address          *string   `json:"address,omitempty"`
	ShortDescription *string   `json:"short_description,omitempty"`
	LongDescription  *string   `json:"long_description,omitempty"`
	Apply            *string   `json:"apply,omitempty"`
	Website          *string   `json:"website,omitempty"`
	SalaryMin        *float64  `json:"salary_min,omitempty"`
	SalaryMax        *float64  `json:"salary_max,omitempty"`
	Currency         *string   `json:"currency,omitempty"`
	SalaryPer        *string   `json:"salary_per,omitempty"`
	Skills           *[]string `json:"skills,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	Featured         *bool     `json:"featured,omitempty"`
	EndDate          *string   `json:"end_date,omitempty"`
	Status           *string   `json:"status,omitempty"`
}

// Validate checks the provided fields against now
func (r *UpdateJobRequest) Validate(now time.Time) []FieldError {
	var errors []FieldError

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title cannot be empty"})
	}
	if r.EndDate != nil {
		if end, err := ParseDate(*r.EndDate); err != nil {
			errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be RFC 3339 or YYYY-MM-DD"})
		} else if !end.After(now) {
			errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be in the future"})
		}
	}
	if r.Status != nil && !JobStatus(*r.Status).IsValid() {
		errors = append(errors, FieldError{Field: "status", Message: "status must be Active, Draft, or Expired"})
	}
	errors = append(errors, validateSalary(r.SalaryMin, r.SalaryMax)...)

	return errors
}

// ApplyTo copies the provided fields onto job
func (r *UpdateJobRequest) ApplyTo(job *Job) {
	setString(&job.Title, r.Title)
	setString(&job.CompanyLogo, r.CompanyLogo)
	setString(&job.Category, r.Category)
	setString(&job.JobType, r.JobType)
	setString(&job.WorkMode, r.WorkMode)
	setString(&job.Country, r.Country)
	setString(&job.City, r.City)
	setString(&job.State, r.State)
	setString(&job.Address, r.Address)
	setString(&job.ShortDescription, r.ShortDescription)
	setString(&job.LongDescription, r.LongDescription)
	setString(&job.Apply, r.Apply)
	setString(&job.Website, r.Website)
	setString(&job.Currency, r.Currency)
	setString(&job.SalaryPer, r.SalaryPer)
	if r.Remote != nil {
		job.Remote = *r.Remote
	}
	if r.Featured != nil {
		job.Featured = *r.Featured
	}
	if r.SalaryMin != nil {
		job.SalaryMin = r.SalaryMin
	}
	if r.SalaryMax != nil {
		job.SalaryMax = r.SalaryMax
	}
	if r.Skills != nil {
		job.Skills = cleanList(*r.Skills)
	}
	if r.Tags != nil {
		job.Tags = cleanList(*r.Tags)
	}
	if r.EndDate != nil {
		if end, err := ParseDate(*r.EndDate); err == nil {
			job.EndDate = end
		}
	}
	if r.Status != nil {
		job.Status = JobStatus(*r.Status)
	}
}

// JobFilter narrows a job listing
type JobFilter struct {
	Featured *bool
	Page     int
	Limit    int
}

// Normalize clamps page to >= 1 and limit to 1..MaxPageLimit
func (f *JobFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

// JobPage is one page of active jobs
type JobPage struct {
	Jobs       []*Job `json:"jobs"`
	TotalJobs  int    `json:"total_jobs"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
}

// CategoryCount is the number of records in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// JobStats summarizes postings by status
type JobStats struct {
	Total   int    `json:"total"`
	Active  int    `json:"active"`
	Draft   int    `json:"draft"`
	Expired int    `json:"expired"`
	Recent  []*Job `json:"recent"`
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight)
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func validateSalary(lo, hi *float64) []FieldError {
	var errors []FieldError
	if lo != nil && *lo < 0 {
		errors = append(errors, FieldError{Field: "salary_min", Message: "salary_min cannot be negative"})
	}
	if hi != nil && *hi < 0 {
		errors = append(errors, FieldError{Field: "salary_max", Message: "salary_max cannot be negative"})
	}
	if lo != nil && hi != nil && *lo > *hi {
		errors = append(errors, FieldError{Field: "salary_max", Message: "salary_max must be at least salary_min"})
	}
	return errors
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// cleanList trims entries and drops empty ones
func cleanList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
