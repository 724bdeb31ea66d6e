package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// CompanyRepository handles the company aggregate. Records are keyed by
// company name through type::record('company', $name), so two writers for
// the same name always address the same record.
type CompanyRepository struct {
	db database.Database
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db database.Database) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// IncrementFromJob adds one open position to the named company, creating
// the record when missing, and overwrites its display metadata. The
// increment happens inside a single UPSERT.
func (r *CompanyRepository) IncrementFromJob(ctx context.Context, meta model.CompanyMeta) (*model.Company, error) {
	query := `
		UPSERT type::record('company', $name) SET
			company_name = $name,
			logo = $logo,
			industry = $industry,
			location = $location,
			open_positions = (open_positions ?? 0) + 1,
			featured = featured ?? false,
			created_on = created_on ?? time::now(),
			updated_on = time::now()
		RETURN AFTER
	`

	result, err := r.db.QueryOne(ctx, query, metaVars(meta))
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: company %q", database.ErrDuplicate, meta.Name)
		}
		return nil, fmt.Errorf("increment company: %w", err)
	}

	return decodeRecord[model.Company](result)
}

// SetFromReconcile sets the open position count of the named company to
// count and overwrites its metadata. It reports whether the record was
// created by this call.
func (r *CompanyRepository) SetFromReconcile(ctx context.Context, meta model.CompanyMeta, count int) (bool, error) {
	query := `
		UPSERT type::record('company', $name) SET
			company_name = $name,
			logo = $logo,
			industry = $industry,
			location = $location,
			open_positions = $count,
			featured = featured ?? false,
			created_on = created_on ?? time::now(),
			updated_on = time::now()
		RETURN BEFORE
	`

	vars := metaVars(meta)
	vars["count"] = count

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, fmt.Errorf("reconcile company %q: %w", meta.Name, err)
	}

	// RETURN BEFORE yields NONE for a record that did not exist yet
	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return true, nil
	}
	_, existed := rows[0].(map[string]interface{})
	return !existed, nil
}

// GetByName retrieves a company by name. It returns nil when none exists.
func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*model.Company, error) {
	query := `SELECT * FROM type::record('company', $name)`

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"name": name})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return decodeRecord[model.Company](result)
}

// ListNames returns every stored company name
func (r *CompanyRepository) ListNames(ctx context.Context) ([]string, error) {
	results, err := r.db.Query(ctx, `SELECT company_name FROM company`, nil)
	if err != nil {
		return nil, fmt.Errorf("list company names: %w", err)
	}

	rows := statementRows(results, 0)
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			if name := getString(data, "company_name"); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// ZeroCounts sets open_positions to 0 for the named companies and returns
// how many records changed.
func (r *CompanyRepository) ZeroCounts(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	query := `
		UPDATE company SET open_positions = 0, updated_on = time::now()
		WHERE company_name IN $names AND open_positions != 0
		RETURN AFTER
	`

	results, err := r.db.Query(ctx, query, map[string]interface{}{"names": names})
	if err != nil {
		return 0, fmt.Errorf("zero company counts: %w", err)
	}
	return len(statementRows(results, 0)), nil
}

// DeleteByNames removes the named companies and returns how many existed
func (r *CompanyRepository) DeleteByNames(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	query := `DELETE company WHERE company_name IN $names RETURN BEFORE`

	results, err := r.db.Query(ctx, query, map[string]interface{}{"names": names})
	if err != nil {
		return 0, fmt.Errorf("delete companies: %w", err)
	}
	return len(statementRows(results, 0)), nil
}

// List returns stored companies. Featured restricts to featured records;
// ordering is by open positions when requested, otherwise newest first.
func (r *CompanyRepository) List(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error) {
	filter.Normalize()

	where := ""
	if filter.Featured {
		where = "WHERE featured = true"
	}
	order := "ORDER BY created_on DESC"
	if filter.SortByPositions {
		order = "ORDER BY open_positions DESC, created_on DESC"
	}

	query := fmt.Sprintf(`SELECT * FROM company %s %s LIMIT $limit`, where, order)

	results, err := r.db.Query(ctx, query, map[string]interface{}{"limit": filter.Limit})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	return decodeRecords[model.Company](statementRows(results, 0))
}

// GetByNames loads the stored records for names, keyed by company name
func (r *CompanyRepository) GetByNames(ctx context.Context, names []string) (map[string]*model.Company, error) {
	out := make(map[string]*model.Company, len(names))
	if len(names) == 0 {
		return out, nil
	}

	results, err := r.db.Query(ctx, `SELECT * FROM company WHERE company_name IN $names`, map[string]interface{}{"names": names})
	if err != nil {
		return nil, fmt.Errorf("get companies by name: %w", err)
	}

	companies, err := decodeRecords[model.Company](statementRows(results, 0))
	if err != nil {
		return nil, err
	}
	for _, c := range companies {
		out[c.CompanyName] = c
	}
	return out, nil
}

func metaVars(meta model.CompanyMeta) map[string]interface{} {
	return map[string]interface{}{
		"name":     meta.Name,
		"logo":     meta.Logo,
		"industry": meta.Industry,
		"location": meta.Location,
	}
}
