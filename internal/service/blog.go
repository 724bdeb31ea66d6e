package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// BlogStore is the blog post store used outside of publication
type BlogStore interface {
	GetByID(ctx context.Context, id string) (*model.Blog, error)
	List(ctx context.Context, limit int) ([]*model.Blog, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]*model.Blog, error)
	Categories(ctx context.Context) ([]model.CategoryCount, error)
}

// BlogService handles reads of published blog posts
type BlogService struct {
	blogs BlogStore
}

// NewBlogService creates a new blog service
func NewBlogService(blogs BlogStore) *BlogService {
	return &BlogService{blogs: blogs}
}

func (s *BlogService) Get(ctx context.Context, id string) (*model.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

func (s *BlogService) List(ctx context.Context, limit int) ([]*model.Blog, error) {
	return s.blogs.List(ctx, limit)
}

func (s *BlogService) ListByCategory(ctx context.Context, category string, limit int) ([]*model.Blog, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return []*model.Blog{}, nil
	}
	return s.blogs.ListByCategory(ctx, category, limit)
}

func (s *BlogService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	return s.blogs.Categories(ctx)
}
