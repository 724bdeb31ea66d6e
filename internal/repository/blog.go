package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// BlogRepository handles blog post data access
type BlogRepository struct {
	db database.Database
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db database.Database) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create persists a new blog post
func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	query := `
		CREATE blog CONTENT {
			title: $title,
			author: $author,
			category: $category,
			short_description: $short_description,
			content: $content,
			image: IF $image IS NOT NULL THEN $image ELSE NONE END,
			tags: $tags,
			published_at: <datetime>$published_at,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"title":             blog.Title,
		"author":            blog.Author,
		"category":          blog.Category,
		"short_description": blog.ShortDescription,
		"content":           blog.Content,
		"image":             nilIfEmpty(blog.Image),
		"tags":              stringList(blog.Tags),
		"published_at":      formatTime(blog.PublishedAt),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("create blog: %w", err)
	}

	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return errors.New("create blog: no result returned")
	}
	created, err := decodeRecord[model.Blog](rows[0])
	if err != nil {
		return err
	}

	blog.ID = created.ID
	blog.CreatedOn = created.CreatedOn
	blog.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a blog post by ID. It returns nil when none exists.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": recordID("blog", id)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return decodeRecord[model.Blog](result)
}

// List returns the newest blog posts first
func (r *BlogRepository) List(ctx context.Context, limit int) ([]*model.Blog, error) {
	query := `SELECT * FROM blog ORDER BY published_at DESC LIMIT $limit`

	results, err := r.db.Query(ctx, query, map[string]interface{}{"limit": clampLimit(limit)})
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	return decodeRecords[model.Blog](statementRows(results, 0))
}

// ListByCategory returns the newest posts of one category first
func (r *BlogRepository) ListByCategory(ctx context.Context, category string, limit int) ([]*model.Blog, error) {
	query := `SELECT * FROM blog WHERE category = $category ORDER BY published_at DESC LIMIT $limit`
	vars := map[string]interface{}{
		"category": category,
		"limit":    clampLimit(limit),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("list blogs by category: %w", err)
	}

	return decodeRecords[model.Blog](statementRows(results, 0))
}

// Categories counts posts per category, largest first
func (r *BlogRepository) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	query := `
		SELECT category, count() AS count FROM blog
		WHERE category != NONE AND category != ''
		GROUP BY category
	`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("blog categories: %w", err)
	}

	return parseCategoryCounts(statementRows(results, 0)), nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return model.DefaultPageLimit
	}
	if limit > model.MaxPageLimit {
		return model.MaxPageLimit
	}
	return limit
}
