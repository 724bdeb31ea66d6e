package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alvi123787/Job-site-backend/internal/middleware"
	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/pkg/jwt"
)

// ============================================================================
// Mock services
// ============================================================================

type mockPublisher struct {
	publishJobFunc  func(ctx context.Context, req *model.CreateJobRequest, postedBy string) (*model.Job, error)
	publishBlogFunc func(ctx context.Context, req *model.CreateBlogRequest) (*model.Blog, error)
}

func (m *mockPublisher) PublishJob(ctx context.Context, req *model.CreateJobRequest, postedBy string) (*model.Job, error) {
	if m.publishJobFunc != nil {
		return m.publishJobFunc(ctx, req, postedBy)
	}
	return &model.Job{}, nil
}

func (m *mockPublisher) PublishBlog(ctx context.Context, req *model.CreateBlogRequest) (*model.Blog, error) {
	if m.publishBlogFunc != nil {
		return m.publishBlogFunc(ctx, req)
	}
	return &model.Blog{}, nil
}

type mockJobReader struct {
	getFunc         func(ctx context.Context, id string) (*model.Job, error)
	listFunc        func(ctx context.Context, filter model.JobFilter) (*model.JobPage, error)
	updateFunc      func(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error)
	deleteFunc      func(ctx context.Context, id string) error
	applyFunc       func(ctx context.Context, jobID, userID string) (*model.ApplyResult, error)
	applyStatusFunc func(ctx context.Context, jobID, userID string) (*model.ApplyStatus, error)
	categoriesFunc  func(ctx context.Context) ([]model.CategoryCount, error)
	statsFunc       func(ctx context.Context) (*model.JobStats, error)
}

func (m *mockJobReader) Get(ctx context.Context, id string) (*model.Job, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &model.Job{ID: id}, nil
}

func (m *mockJobReader) List(ctx context.Context, filter model.JobFilter) (*model.JobPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return &model.JobPage{Page: 1}, nil
}

func (m *mockJobReader) Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req)
	}
	return &model.Job{ID: id}, nil
}

func (m *mockJobReader) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockJobReader) Apply(ctx context.Context, jobID, userID string) (*model.ApplyResult, error) {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, jobID, userID)
	}
	return &model.ApplyResult{Applied: true, New: true}, nil
}

func (m *mockJobReader) ApplyStatus(ctx context.Context, jobID, userID string) (*model.ApplyStatus, error) {
	if m.applyStatusFunc != nil {
		return m.applyStatusFunc(ctx, jobID, userID)
	}
	return &model.ApplyStatus{}, nil
}

func (m *mockJobReader) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobReader) Stats(ctx context.Context) (*model.JobStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.JobStats{}, nil
}

type mockBlogReader struct {
	getFunc            func(ctx context.Context, id string) (*model.Blog, error)
	listFunc           func(ctx context.Context, limit int) ([]*model.Blog, error)
	listByCategoryFunc func(ctx context.Context, category string, limit int) ([]*model.Blog, error)
}

func (m *mockBlogReader) Get(ctx context.Context, id string) (*model.Blog, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &model.Blog{ID: id}, nil
}

func (m *mockBlogReader) List(ctx context.Context, limit int) ([]*model.Blog, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return []*model.Blog{}, nil
}

func (m *mockBlogReader) ListByCategory(ctx context.Context, category string, limit int) ([]*model.Blog, error) {
	if m.listByCategoryFunc != nil {
		return m.listByCategoryFunc(ctx, category, limit)
	}
	return []*model.Blog{}, nil
}

func (m *mockBlogReader) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	return []model.CategoryCount{}, nil
}

type mockCompanyReader struct {
	listFunc      func(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error)
	reconcileFunc func(ctx context.Context) (*model.ReconcileSummary, error)
}

func (m *mockCompanyReader) List(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*model.Company{}, nil
}

func (m *mockCompanyReader) ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error) {
	if m.reconcileFunc != nil {
		return m.reconcileFunc(ctx)
	}
	return &model.ReconcileSummary{}, nil
}

type mockSubscriber struct {
	subscribeFunc   func(ctx context.Context, req *model.SubscribeRequest) (*model.SubscribeResult, error)
	unsubscribeFunc func(ctx context.Context, req *model.UnsubscribeRequest) (*model.Subscription, error)
}

func (m *mockSubscriber) Subscribe(ctx context.Context, req *model.SubscribeRequest) (*model.SubscribeResult, error) {
	if m.subscribeFunc != nil {
		return m.subscribeFunc(ctx, req)
	}
	return &model.SubscribeResult{}, nil
}

func (m *mockSubscriber) Unsubscribe(ctx context.Context, req *model.UnsubscribeRequest) (*model.Subscription, error) {
	if m.unsubscribeFunc != nil {
		return m.unsubscribeFunc(ctx, req)
	}
	return &model.Subscription{}, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUserContext(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.ClaimsKey, &jwt.Claims{UserID: userID})
	return req.WithContext(ctx)
}

// serve routes req through a mux so PathValue is populated
func serve(pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return &problem
}

func parseDataResponse(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to parse data response: %v", err)
	}
	return resp.Data
}
