package service

import (
	"context"
	"sort"
	"sync"

	"github.com/Alvi123787/Job-site-backend/internal/broker"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockJobRepo struct {
	createFunc               func(ctx context.Context, job *model.Job) error
	getByIDFunc              func(ctx context.Context, id string) (*model.Job, error)
	listFunc                 func(ctx context.Context, filter model.JobFilter) (*model.JobPage, error)
	updateFunc               func(ctx context.Context, job *model.Job) (*model.Job, error)
	deleteFunc               func(ctx context.Context, id string) error
	markExpiredFunc          func(ctx context.Context, id string) error
	categoriesFunc           func(ctx context.Context) ([]model.CategoryCount, error)
	statsFunc                func(ctx context.Context) (*model.JobStats, error)
	listForReconcileFunc     func(ctx context.Context) ([]*model.Job, error)
	countActiveByCompanyFunc func(ctx context.Context) ([]model.CompanyJobCount, error)
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, job)
	}
	return nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockJobRepo) List(ctx context.Context, filter model.JobFilter) (*model.JobPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return &model.JobPage{}, nil
}

func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) (*model.Job, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, job)
	}
	return job, nil
}

func (m *mockJobRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockJobRepo) MarkExpired(ctx context.Context, id string) error {
	if m.markExpiredFunc != nil {
		return m.markExpiredFunc(ctx, id)
	}
	return nil
}

func (m *mockJobRepo) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobRepo) Stats(ctx context.Context) (*model.JobStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.JobStats{}, nil
}

func (m *mockJobRepo) ListForReconcile(ctx context.Context) ([]*model.Job, error) {
	if m.listForReconcileFunc != nil {
		return m.listForReconcileFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobRepo) CountActiveByCompany(ctx context.Context) ([]model.CompanyJobCount, error) {
	if m.countActiveByCompanyFunc != nil {
		return m.countActiveByCompanyFunc(ctx)
	}
	return nil, nil
}

type mockBlogRepo struct {
	createFunc         func(ctx context.Context, blog *model.Blog) error
	getByIDFunc        func(ctx context.Context, id string) (*model.Blog, error)
	listFunc           func(ctx context.Context, limit int) ([]*model.Blog, error)
	listByCategoryFunc func(ctx context.Context, category string, limit int) ([]*model.Blog, error)
	categoriesFunc     func(ctx context.Context) ([]model.CategoryCount, error)
}

func (m *mockBlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, blog)
	}
	return nil
}

func (m *mockBlogRepo) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBlogRepo) List(ctx context.Context, limit int) ([]*model.Blog, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockBlogRepo) ListByCategory(ctx context.Context, category string, limit int) ([]*model.Blog, error) {
	if m.listByCategoryFunc != nil {
		return m.listByCategoryFunc(ctx, category, limit)
	}
	return nil, nil
}

func (m *mockBlogRepo) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return nil, nil
}

type mockApplicationRepo struct {
	applyFunc  func(ctx context.Context, jobID, userID string) error
	existsFunc func(ctx context.Context, jobID, userID string) (bool, error)
}

func (m *mockApplicationRepo) Apply(ctx context.Context, jobID, userID string) error {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, jobID, userID)
	}
	return nil
}

func (m *mockApplicationRepo) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, jobID, userID)
	}
	return false, nil
}

type mockSubscriptionRepo struct {
	getByEmailFunc    func(ctx context.Context, email string) (*model.Subscription, error)
	createFunc        func(ctx context.Context, sub *model.Subscription) error
	addChannelFunc    func(ctx context.Context, email string, channel model.Channel, country string) (*model.Subscription, error)
	removeChannelFunc func(ctx context.Context, email string, channel model.Channel) (*model.Subscription, error)
	deactivateFunc    func(ctx context.Context, email string) (*model.Subscription, error)
	listAudienceFunc  func(ctx context.Context, channel model.Channel, includeLegacy bool) ([]*model.Subscription, error)
}

func (m *mockSubscriptionRepo) GetByEmail(ctx context.Context, email string) (*model.Subscription, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepo) AddChannel(ctx context.Context, email string, channel model.Channel, country string) (*model.Subscription, error) {
	if m.addChannelFunc != nil {
		return m.addChannelFunc(ctx, email, channel, country)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) RemoveChannel(ctx context.Context, email string, channel model.Channel) (*model.Subscription, error) {
	if m.removeChannelFunc != nil {
		return m.removeChannelFunc(ctx, email, channel)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) Deactivate(ctx context.Context, email string) (*model.Subscription, error) {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) ListAudience(ctx context.Context, channel model.Channel, includeLegacy bool) ([]*model.Subscription, error) {
	if m.listAudienceFunc != nil {
		return m.listAudienceFunc(ctx, channel, includeLegacy)
	}
	return nil, nil
}

// ============================================================================
// In-memory company aggregate
// ============================================================================

// memCompanyRepo keeps the aggregate in a map so tests can check its
// contents after concurrent updates
type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*model.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: make(map[string]*model.Company)}
}

func (m *memCompanyRepo) IncrementFromJob(ctx context.Context, meta model.CompanyMeta) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[meta.Name]
	if !ok {
		c = &model.Company{ID: "company:" + meta.Name, CompanyName: meta.Name}
		m.companies[meta.Name] = c
	}
	c.Logo, c.Industry, c.Location = meta.Logo, meta.Industry, meta.Location
	c.OpenPositions++
	copied := *c
	return &copied, nil
}

func (m *memCompanyRepo) SetFromReconcile(ctx context.Context, meta model.CompanyMeta, count int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[meta.Name]
	if !ok {
		c = &model.Company{ID: "company:" + meta.Name, CompanyName: meta.Name}
		m.companies[meta.Name] = c
	}
	c.Logo, c.Industry, c.Location = meta.Logo, meta.Industry, meta.Location
	c.OpenPositions = count
	return !ok, nil
}

func (m *memCompanyRepo) ListNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.companies))
	for name := range m.companies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memCompanyRepo) ZeroCounts(ctx context.Context, names []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, name := range names {
		if c, ok := m.companies[name]; ok {
			c.OpenPositions = 0
			n++
		}
	}
	return n, nil
}

func (m *memCompanyRepo) DeleteByNames(ctx context.Context, names []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, name := range names {
		if _, ok := m.companies[name]; ok {
			delete(m.companies, name)
			n++
		}
	}
	return n, nil
}

func (m *memCompanyRepo) List(ctx context.Context, filter model.CompanyFilter) ([]*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Company, 0, len(m.companies))
	for _, c := range m.companies {
		if filter.Featured && !c.Featured {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.SortByPositions && out[i].OpenPositions != out[j].OpenPositions {
			return out[i].OpenPositions > out[j].OpenPositions
		}
		return out[i].CompanyName < out[j].CompanyName
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memCompanyRepo) GetByNames(ctx context.Context, names []string) (map[string]*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*model.Company)
	for _, name := range names {
		if c, ok := m.companies[name]; ok {
			copied := *c
			out[name] = &copied
		}
	}
	return out, nil
}

func (m *memCompanyRepo) get(name string) *model.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.companies[name]; ok {
		copied := *c
		return &copied
	}
	return nil
}

// ============================================================================
// Collaborators
// ============================================================================

type mockSender struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, msg Message) error
	sent     []Message
}

func (m *mockSender) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func (m *mockSender) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.To)
	}
	sort.Strings(out)
	return out
}

type mockPublisher struct {
	mu          sync.Mutex
	publishFunc func(ctx context.Context, event broker.Event) error
	events      []broker.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event broker.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.publishFunc != nil {
		return m.publishFunc(ctx, event)
	}
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockCompanyUpdater struct {
	incrementalUpdateFunc func(ctx context.Context, job *model.Job) error
	calls                 int
}

func (m *mockCompanyUpdater) IncrementalUpdate(ctx context.Context, job *model.Job) error {
	m.calls++
	if m.incrementalUpdateFunc != nil {
		return m.incrementalUpdateFunc(ctx, job)
	}
	return nil
}

// recordingRunner keeps spawned tasks so tests decide when they run
type recordingRunner struct {
	mu    sync.Mutex
	names []string
	tasks []func(ctx context.Context)
}

func (r *recordingRunner) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.tasks = append(r.tasks, fn)
}

func (r *recordingRunner) runAll(ctx context.Context) {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()
	for _, fn := range tasks {
		fn(ctx)
	}
}

func floatPtr(v float64) *float64 { return &v }
