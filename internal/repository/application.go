package repository

import (
	"context"
	"fmt"

	"github.com/Alvi123787/Job-site-backend/internal/database"
)

// ApplicationRepository records job applications
type ApplicationRepository struct {
	db database.Database
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db database.Database) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Apply records that userID applied to jobID and increments the job's
// application counter in the same transaction. A second application by the
// same user fails with database.ErrDuplicate and leaves the counter alone.
func (r *ApplicationRepository) Apply(ctx context.Context, jobID, userID string) error {
	jobID = recordID("job", jobID)

	batch := database.NewAtomicBatch()
	batch.Add(`
		CREATE application CONTENT {
			job_id: $job_id,
			user_id: $user_id,
			created_on: time::now()
		}
	`, map[string]interface{}{"job_id": jobID, "user_id": userID})
	batch.Add(`
		UPDATE type::record($job_id) SET
			applications_count = (applications_count ?? 0) + 1,
			updated_on = time::now()
	`, map[string]interface{}{"job_id": jobID})

	if err := batch.Execute(ctx, r.db); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: already applied", database.ErrDuplicate)
		}
		return fmt.Errorf("apply: %w", err)
	}
	return nil
}

// Exists reports whether userID has applied to jobID
func (r *ApplicationRepository) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	query := `SELECT count() AS count FROM application WHERE job_id = $job_id AND user_id = $user_id GROUP ALL`
	vars := map[string]interface{}{
		"job_id":  recordID("job", jobID),
		"user_id": userID,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, fmt.Errorf("application exists: %w", err)
	}

	rows := statementRows(results, 0)
	return len(rows) > 0 && extractCount(rows[0]) > 0, nil
}
