package handler

import (
	"net/http"

	"github.com/Alvi123787/Job-site-backend/internal/middleware"
)

// Routes groups the handlers and per-route middleware of the API
type Routes struct {
	Health        *HealthHandler
	Jobs          *JobHandler
	Blogs         *BlogHandler
	Companies     *CompanyHandler
	Subscriptions *SubscriptionHandler

	// Auth validates bearer tokens
	Auth middleware.Middleware
	// Limit throttles apply and subscription writes; nil disables it
	Limit middleware.Middleware
}

// Register adds every route to mux
func (rt Routes) Register(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler {
		return rt.Auth(middleware.RequireAdmin(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return rt.Auth(h)
	}
	limited := func(h http.Handler) http.Handler {
		if rt.Limit == nil {
			return h
		}
		return rt.Limit(h)
	}

	// Health check endpoint
	if rt.Health != nil {
		mux.HandleFunc("GET /health", rt.Health.Health)
	}

	// Job endpoints
	mux.Handle("POST /v1/jobs", admin(rt.Jobs.Create))
	mux.HandleFunc("GET /v1/jobs", rt.Jobs.List)
	mux.HandleFunc("GET /v1/jobs/categories", rt.Jobs.Categories)
	mux.Handle("GET /v1/jobs/stats", admin(rt.Jobs.Stats))
	mux.HandleFunc("GET /v1/jobs/{id}", rt.Jobs.Get)
	mux.Handle("PUT /v1/jobs/{id}", admin(rt.Jobs.Update))
	mux.Handle("DELETE /v1/jobs/{id}", admin(rt.Jobs.Delete))
	mux.Handle("POST /v1/jobs/{id}/apply", rt.Auth(limited(http.HandlerFunc(rt.Jobs.Apply))))
	mux.Handle("GET /v1/jobs/{id}/apply/status", authed(rt.Jobs.ApplyStatus))

	// Blog endpoints
	mux.Handle("POST /v1/blogs", admin(rt.Blogs.Create))
	mux.HandleFunc("GET /v1/blogs", rt.Blogs.List)
	mux.HandleFunc("GET /v1/blogs/categories", rt.Blogs.Categories)
	mux.HandleFunc("GET /v1/blogs/category/{category}", rt.Blogs.ListByCategory)
	mux.HandleFunc("GET /v1/blogs/{id}", rt.Blogs.Get)

	// Company endpoints
	mux.HandleFunc("GET /v1/companies", rt.Companies.List)
	mux.Handle("POST /v1/admin/companies/reconcile", admin(rt.Companies.Reconcile))

	// Subscription endpoints
	mux.Handle("POST /v1/subscriptions", limited(http.HandlerFunc(rt.Subscriptions.Subscribe)))
	mux.Handle("POST /v1/subscriptions/unsubscribe", limited(http.HandlerFunc(rt.Subscriptions.Unsubscribe)))
}
