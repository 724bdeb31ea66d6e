package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// activeJobCondition matches postings that are published and not past their end date
const activeJobCondition = `status = 'Active' AND end_date > time::now()`

// JobRepository handles job posting data access
type JobRepository struct {
	db database.Database
}

// NewJobRepository creates a new job repository
func NewJobRepository(db database.Database) *JobRepository {
	return &JobRepository{db: db}
}

// Create persists a new job posting and fills in its id and timestamps
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	query := `
		CREATE job CONTENT {
			title: $title,
			company: $company,
			company_logo: $company_logo,
			category: $category,
			job_type: $job_type,
			work_mode: $work_mode,
			remote: $remote,
			country: $country,
			city: $city,
			state: $state,
			address: $address,
			short_description: $short_description,
			long_description: $long_description,
			experience: $experience,
			education: $education,
			employment_level: $employment_level,
			benefits: $benefits,
			apply: $apply,
			website: $website,
			salary_min: $salary_min,
			salary_max: $salary_max,
			currency: $currency,
			salary_per: $salary_per,
			skills: $skills,
			tags: $tags,
			featured: $featured,
			deadline: IF $deadline THEN <datetime>$deadline ELSE NONE END,
			posting_date: IF $posting_date THEN <datetime>$posting_date ELSE NONE END,
			end_date: <datetime>$end_date,
			posted_by: $posted_by,
			status: $status,
			applications_count: 0,
			schema_json_ld: $schema_json_ld,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := jobVars(job)
	vars["posted_by"] = job.PostedBy

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return errors.New("create job: no result returned")
	}
	created, err := decodeRecord[model.Job](rows[0])
	if err != nil {
		return err
	}

	job.ID = created.ID
	job.ApplicationsCount = 0
	job.CreatedOn = created.CreatedOn
	job.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a job posting by ID. It returns nil when none exists.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": recordID("job", id)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return decodeRecord[model.Job](result)
}

// List returns one page of active postings, newest first
func (r *JobRepository) List(ctx context.Context, filter model.JobFilter) (*model.JobPage, error) {
	filter.Normalize()

	where := activeJobCondition
	vars := map[string]interface{}{
		"limit": filter.Limit,
		"start": (filter.Page - 1) * filter.Limit,
	}
	if filter.Featured != nil {
		where += ` AND featured = $featured`
		vars["featured"] = *filter.Featured
	}

	query := fmt.Sprintf(`
		SELECT count() AS count FROM job WHERE %[1]s GROUP ALL;
		SELECT * FROM job WHERE %[1]s ORDER BY created_on DESC LIMIT $limit START $start;
	`, where)

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	total := 0
	if rows := statementRows(results, 0); len(rows) > 0 {
		total = extractCount(rows[0])
	}
	jobs, err := decodeRecords[model.Job](statementRows(results, 1))
	if err != nil {
		return nil, err
	}

	return &model.JobPage{
		Jobs:       jobs,
		TotalJobs:  total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
		Page:       filter.Page,
	}, nil
}

// Update overwrites the mutable fields of a posting and returns the stored record
func (r *JobRepository) Update(ctx context.Context, job *model.Job) (*model.Job, error) {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			company_logo = $company_logo,
			category = $category,
			job_type = $job_type,
			work_mode = $work_mode,
			remote = $remote,
			country = $country,
			city = $city,
			state = $state,
			address = $address,
			short_description = $short_description,
			long_description = $long_description,
			experience = $experience,
			education = $education,
			employment_level = $employment_level,
			benefits = $benefits,
			apply = $apply,
			website = $website,
			salary_min = $salary_min,
			salary_max = $salary_max,
			currency = $currency,
			salary_per = $salary_per,
			skills = $skills,
			tags = $tags,
			featured = $featured,
			deadline = IF $deadline THEN <datetime>$deadline ELSE NONE END,
			posting_date = IF $posting_date THEN <datetime>$posting_date ELSE NONE END,
			end_date = <datetime>$end_date,
			status = $status,
			schema_json_ld = $schema_json_ld,
			updated_on = time::now()
		RETURN AFTER
	`

	vars := jobVars(job)
	vars["id"] = recordID("job", job.ID)

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("update job: %w", err)
	}

	return decodeRecord[model.Job](result)
}

// Delete removes a posting together with its applications
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	jobID := recordID("job", id)
	return database.WithTransaction(ctx, r.db, func(tx database.Transaction) error {
		if err := tx.Execute(ctx, `DELETE application WHERE job_id = $job_id`, map[string]interface{}{"job_id": jobID}); err != nil {
			return err
		}
		return tx.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": jobID})
	})
}

// MarkExpired flips an active posting to Expired
func (r *JobRepository) MarkExpired(ctx context.Context, id string) error {
	query := `UPDATE type::record($id) SET status = 'Expired', updated_on = time::now() WHERE status = 'Active'`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": recordID("job", id)})
}

// ListForReconcile returns the company and metadata fields of every posting,
// oldest first, regardless of status.
func (r *JobRepository) ListForReconcile(ctx context.Context) ([]*model.Job, error) {
	query := `
		SELECT id, company, company_logo, category, remote, city, state, country, created_on
		FROM job ORDER BY created_on ASC
	`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("list jobs for reconcile: %w", err)
	}

	return decodeRecords[model.Job](statementRows(results, 0))
}

// CountActiveByCompany groups active postings by company name
func (r *JobRepository) CountActiveByCompany(ctx context.Context) ([]model.CompanyJobCount, error) {
	query := `
		SELECT company, array::first(array::group(company_logo)) AS company_logo,
			array::first(array::group(category)) AS category, count() AS count
		FROM job WHERE ` + activeJobCondition + ` GROUP BY company
	`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("count active jobs by company: %w", err)
	}

	rows := statementRows(results, 0)
	counts := make([]model.CompanyJobCount, 0, len(rows))
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		name := getString(data, "company")
		if name == "" {
			continue
		}
		counts = append(counts, model.CompanyJobCount{
			Company:     name,
			CompanyLogo: getString(data, "company_logo"),
			Category:    getString(data, "category"),
			Count:       getInt(data, "count"),
		})
	}
	return counts, nil
}

// Categories counts active postings per category, largest first
func (r *JobRepository) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	query := `
		SELECT category, count() AS count FROM job
		WHERE ` + activeJobCondition + ` AND category != NONE AND category != ''
		GROUP BY category
	`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("job categories: %w", err)
	}

	return parseCategoryCounts(statementRows(results, 0)), nil
}

// Stats counts postings by effective status and returns the most recent ones
func (r *JobRepository) Stats(ctx context.Context) (*model.JobStats, error) {
	query := `
		SELECT count() AS count FROM job GROUP ALL;
		SELECT count() AS count FROM job WHERE ` + activeJobCondition + ` GROUP ALL;
		SELECT count() AS count FROM job WHERE status = 'Draft' GROUP ALL;
		SELECT count() AS count FROM job WHERE status = 'Expired' OR (status = 'Active' AND end_date <= time::now()) GROUP ALL;
		SELECT * FROM job ORDER BY created_on DESC LIMIT $limit;
	`

	results, err := r.db.Query(ctx, query, map[string]interface{}{"limit": model.RecentJobsLimit})
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}

	countAt := func(idx int) int {
		if rows := statementRows(results, idx); len(rows) > 0 {
			return extractCount(rows[0])
		}
		return 0
	}

	recent, err := decodeRecords[model.Job](statementRows(results, 4))
	if err != nil {
		return nil, err
	}

	return &model.JobStats{
		Total:   countAt(0),
		Active:  countAt(1),
		Draft:   countAt(2),
		Expired: countAt(3),
		Recent:  recent,
	}, nil
}

// jobVars binds the content fields shared by Create and Update
func jobVars(job *model.Job) map[string]interface{} {
	return map[string]interface{}{
		"title":             job.Title,
		"company":           job.Company,
		"company_logo":      job.CompanyLogo,
		"category":          job.Category,
		"job_type":          job.JobType,
		"work_mode":         job.WorkMode,
		"remote":            job.Remote,
		"country":           job.Country,
		"city":              job.City,
		"state":             job.State,
		"address":           job.Address,
		"short_description": job.ShortDescription,
		"long_description":  job.LongDescription,
		"experience":        job.Experience,
		"education":         job.Education,
		"employment_level":  job.EmploymentLevel,
		"benefits":          job.Benefits,
		"apply":             job.Apply,
		"website":           job.Website,
		"salary_min":        job.SalaryMin,
		"salary_max":        job.SalaryMax,
		"currency":          job.Currency,
		"salary_per":        job.SalaryPer,
		"skills":            stringList(job.Skills),
		"tags":              stringList(job.Tags),
		"featured":          job.Featured,
		"deadline":          timeOrNil(job.Deadline),
		"posting_date":      timeOrNil(job.PostingDate),
		"end_date":          formatTime(job.EndDate),
		"status":            string(job.Status),
		"schema_json_ld":    job.SchemaJSONLD,
	}
}

// stringList never binds a nil slice so stored arrays stay arrays
func stringList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// parseCategoryCounts reads `category, count` rows sorted by count then name
func parseCategoryCounts(rows []interface{}) []model.CategoryCount {
	counts := make([]model.CategoryCount, 0, len(rows))
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		counts = append(counts, model.CategoryCount{
			Category: getString(data, "category"),
			Count:    getInt(data, "count"),
		})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	return counts
}
