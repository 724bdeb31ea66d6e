package model

import (
	"strings"
	"time"
)

// Blog is an authoritative blog post
type Blog struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	Category         string    `json:"category"`
	ShortDescription string    `json:"short_description,omitempty"`
	Content          string    `json:"content"`
	Image            string    `json:"image,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	PublishedAt      time.Time `json:"published_at"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}

// CreateBlogRequest is the payload for publishing a blog post. Tags may be
// sent either as a list or as a single comma separated string.
type CreateBlogRequest struct {
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	Category         string   `json:"category"`
	ShortDescription string   `json:"short_description,omitempty"`
	Content          string   `json:"content"`
	Image            string   `json:"image,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	TagList          string   `json:"tag_list,omitempty"`
	PublishedAt      string   `json:"published_at,omitempty"`
}

// Validate checks the required blog fields
func (r *CreateBlogRequest) Validate() []FieldError {
	var errors []FieldError

	required := []struct {
		field string
		value string
	}{
		{"title", r.Title},
		{"author", r.Author},
		{"category", r.Category},
		{"content", r.Content},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errors = append(errors, FieldError{Field: f.field, Message: f.field + " is required"})
		}
	}

	if r.PublishedAt != "" {
		if _, err := ParseDate(r.PublishedAt); err != nil {
			errors = append(errors, FieldError{Field: "published_at", Message: "published_at must be RFC 3339 or YYYY-MM-DD"})
		}
	}

	return errors
}

// ToBlog builds the record to persist. PublishedAt defaults to now.
func (r *CreateBlogRequest) ToBlog(now time.Time) *Blog {
	blog := &Blog{
		Title:            strings.TrimSpace(r.Title),
		Author:           strings.TrimSpace(r.Author),
		Category:         strings.TrimSpace(r.Category),
		ShortDescription: r.ShortDescription,
		Content:          r.Content,
		Image:            r.Image,
		Tags:             cleanList(append(append([]string{}, r.Tags...), strings.Split(r.TagList, ",")...)),
		PublishedAt:      now,
	}
	if r.PublishedAt != "" {
		if t, err := ParseDate(r.PublishedAt); err == nil {
			blog.PublishedAt = t
		}
	}
	return blog
}
