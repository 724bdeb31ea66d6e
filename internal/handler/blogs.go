package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// BlogPublisher publishes blog posts with their side effects
type BlogPublisher interface {
	PublishBlog(ctx context.Context, req *model.CreateBlogRequest) (*model.Blog, error)
}

// BlogReader is the blog service surface used by BlogHandler
type BlogReader interface {
	Get(ctx context.Context, id string) (*model.Blog, error)
	List(ctx context.Context, limit int) ([]*model.Blog, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]*model.Blog, error)
	Categories(ctx context.Context) ([]model.CategoryCount, error)
}

// BlogHandler handles blog post endpoints
type BlogHandler struct {
	publisher BlogPublisher
	blogs     BlogReader
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(publisher BlogPublisher, blogs BlogReader) *BlogHandler {
	return &BlogHandler{
		publisher: publisher,
		blogs:     blogs,
	}
}

// Create handles POST /v1/blogs
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBlogRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	blog, err := h.publisher.PublishBlog(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "publish blog"))
		return
	}

	WriteData(w, http.StatusCreated, blog, blogLinks(blog.ID))
}

// List handles GET /v1/blogs
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context(), queryInt(r, "limit", model.DefaultPageLimit))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, blogs, nil)
}

// ListByCategory handles GET /v1/blogs/category/{category}
func (h *BlogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.ListByCategory(r.Context(), r.PathValue("category"), queryInt(r, "limit", model.DefaultPageLimit))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, blogs, nil)
}

// Categories handles GET /v1/blogs/categories
func (h *BlogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.blogs.Categories(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, categories, nil)
}

// Get handles GET /v1/blogs/{id}
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("blog ID required"))
		return
	}

	blog, err := h.blogs.Get(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, blog, blogLinks(blog.ID))
}

func blogLinks(id string) map[string]string {
	return map[string]string{"self": "/v1/blogs/" + strings.TrimPrefix(id, "blog:")}
}
