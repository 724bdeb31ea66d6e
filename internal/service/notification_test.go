package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvi123787/Job-site-backend/internal/model"
)

func subscribers(emails ...string) []*model.Subscription {
	out := make([]*model.Subscription, 0, len(emails))
	for _, e := range emails {
		out = append(out, &model.Subscription{Email: e, Types: []model.Channel{model.ChannelJob}})
	}
	return out
}

func TestSelectAudience_LegacyOnlyForJobs(t *testing.T) {
	var gotLegacy []bool
	repo := &mockSubscriptionRepo{
		listAudienceFunc: func(ctx context.Context, channel model.Channel, includeLegacy bool) ([]*model.Subscription, error) {
			gotLegacy = append(gotLegacy, includeLegacy)
			return nil, nil
		},
	}
	svc := NewNotificationService(NotificationServiceConfig{Audience: repo, Sender: &mockSender{}})

	_, err := svc.SelectAudience(context.Background(), model.ChannelJob)
	require.NoError(t, err)
	_, err = svc.SelectAudience(context.Background(), model.ChannelBlog)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, gotLegacy)
}

func TestDispatch_AllSettled(t *testing.T) {
	sender := &mockSender{sendFunc: func(ctx context.Context, msg Message) error {
		if strings.HasPrefix(msg.To, "bad") {
			return errors.New("mailbox unavailable")
		}
		return nil
	}}
	svc := NewNotificationService(NotificationServiceConfig{Sender: sender})

	audience := subscribers("a@x.io", "bad1@x.io", "b@x.io", "bad2@x.io", "c@x.io")
	report := svc.Dispatch(context.Background(), audience, Rendering{Subject: "s", Text: "t"})

	assert.Equal(t, 5, report.Attempted)
	assert.Equal(t, 2, report.Failed)
	assert.NotEmpty(t, report.BatchID)
	assert.Len(t, report.Results, 5)
	assert.Equal(t, []string{"a@x.io", "b@x.io", "bad1@x.io", "bad2@x.io", "c@x.io"}, sender.recipients())

	for _, res := range report.Results {
		assert.Equal(t, strings.HasPrefix(res.Recipient, "bad"), res.Err != nil, res.Recipient)
	}
}

func TestDispatch_SendsConcurrently(t *testing.T) {
	var inFlight, peak int32
	sender := &mockSender{sendFunc: func(ctx context.Context, msg Message) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	}}
	svc := NewNotificationService(NotificationServiceConfig{Sender: sender})

	emails := make([]string, 10)
	for i := range emails {
		emails[i] = fmt.Sprintf("u%d@x.io", i)
	}
	report := svc.Dispatch(context.Background(), subscribers(emails...), Rendering{Subject: "s"})

	assert.Equal(t, 0, report.Failed)
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestDispatch_SendTimeoutAndPanicAreFailures(t *testing.T) {
	sender := &mockSender{sendFunc: func(ctx context.Context, msg Message) error {
		switch msg.To {
		case "slow@x.io":
			<-ctx.Done()
			return ctx.Err()
		case "panic@x.io":
			panic("smtp exploded")
		}
		return nil
	}}
	svc := NewNotificationService(NotificationServiceConfig{Sender: sender, SendTimeout: 10 * time.Millisecond})

	report := svc.Dispatch(context.Background(), subscribers("slow@x.io", "panic@x.io", "ok@x.io"), Rendering{})

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Failed)
}

func TestDispatch_SkipsBlankAddresses(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotificationService(NotificationServiceConfig{Sender: sender})

	report := svc.Dispatch(context.Background(), append(subscribers("a@x.io", "  "), nil), Rendering{})

	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, []string{"a@x.io"}, sender.recipients())
}

func TestNotify_EmptyAudience(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotificationService(NotificationServiceConfig{Audience: &mockSubscriptionRepo{}, Sender: sender})

	report, err := svc.Notify(context.Background(), model.ChannelBlog, Rendering{})
	require.NoError(t, err)
	assert.Zero(t, report.Attempted)
	assert.Empty(t, sender.recipients())
}

func TestNotify_AudienceError(t *testing.T) {
	repo := &mockSubscriptionRepo{
		listAudienceFunc: func(ctx context.Context, channel model.Channel, includeLegacy bool) ([]*model.Subscription, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewNotificationService(NotificationServiceConfig{Audience: repo, Sender: &mockSender{}})

	_, err := svc.Notify(context.Background(), model.ChannelJob, Rendering{})
	assert.Error(t, err)
}

func TestRenderJob(t *testing.T) {
	job := &model.Job{
		ID:        "job:abc123",
		Title:     "Go Engineer",
		Company:   "Acme <Labs>",
		Country:   "Pakistan",
		City:      "Lahore",
		JobType:   "Full-time",
		SalaryMin: floatPtr(1000),
		SalaryMax: floatPtr(2500.5),
		Currency:  "USD",
		SalaryPer: "Month",
	}
	svc := NewNotificationService(NotificationServiceConfig{FrontendBase: "https://jobs.example/"})

	r, err := svc.RenderJob(job)
	require.NoError(t, err)

	assert.Equal(t, "New Job Posted: Go Engineer at Acme <Labs>", r.Subject)
	assert.True(t, strings.HasPrefix(r.Text, "A new job has been posted in Pakistan.\n\n"))
	assert.Contains(t, r.Text, "Location: Lahore, Pakistan\n")
	assert.Contains(t, r.Text, "Job Type: Full-time\n")
	assert.Contains(t, r.Text, "Salary: USD 1000 - 2500.5 / Month\n")
	assert.Contains(t, r.Text, "https://jobs.example/jobs/abc123")

	assert.Contains(t, r.HTML, "New Job Alert")
	assert.Contains(t, r.HTML, "Acme &lt;Labs&gt;")
	assert.NotContains(t, r.HTML, "<Labs>")
	assert.Contains(t, r.HTML, "View Details")
	assert.Contains(t, r.HTML, "subscribed to Job Alerts")
}

func TestRenderJob_OmitsMissingFields(t *testing.T) {
	r, err := RenderJob(&model.Job{Title: "Intern", Company: "Acme", Remote: true}, "https://x/jobs/1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.Text, "A new job has been posted.\n\n"))
	assert.Contains(t, r.Text, "Location: Remote\n")
	assert.NotContains(t, r.Text, "Salary:")
	assert.NotContains(t, r.Text, "Job Type:")
	assert.NotContains(t, r.HTML, "Salary:")
}

func TestRenderBlog(t *testing.T) {
	blog := &model.Blog{
		ID:               "blog:xyz",
		Title:            "Writing Go",
		ShortDescription: " Tips ",
		Image:            "https://img/x.png",
	}
	svc := NewNotificationService(NotificationServiceConfig{FrontendBase: "https://jobs.example"})

	r, err := svc.RenderBlog(blog)
	require.NoError(t, err)

	assert.Equal(t, "New Blog Posted: Writing Go", r.Subject)
	assert.Equal(t, "Writing Go\n\nTips\n\nRead: https://jobs.example/blog/xyz", r.Text)
	assert.Contains(t, r.HTML, `src="https://img/x.png"`)
	assert.Contains(t, r.HTML, "Read Full Blog")
	assert.Contains(t, r.HTML, "subscribed to Blog Alerts")
}

func TestSalaryLabel(t *testing.T) {
	tests := []struct {
		name string
		job  model.Job
		want string
	}{
		{"none", model.Job{Currency: "USD"}, ""},
		{"range", model.Job{SalaryMin: floatPtr(10), SalaryMax: floatPtr(20), Currency: "PKR", SalaryPer: "Month"}, "PKR 10 - 20 / Month"},
		{"min only", model.Job{SalaryMin: floatPtr(50000), Currency: "USD", SalaryPer: "Year"}, "USD 50000 / Year"},
		{"max only", model.Job{SalaryMax: floatPtr(7.5)}, "7.5"},
		{"equal bounds stay a range", model.Job{SalaryMin: floatPtr(5), SalaryMax: floatPtr(5), Currency: "EUR"}, "EUR 5 - 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SalaryLabel(&tt.job))
		})
	}
}

func TestWelcome(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotificationService(NotificationServiceConfig{Sender: sender})

	require.NoError(t, svc.Welcome(context.Background(), "a@x.io", model.ChannelBlog))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Welcome to Blog Alerts!", sender.sent[0].Subject)

	assert.ErrorIs(t, svc.Welcome(context.Background(), " ", model.ChannelJob), ErrNoRecipient)
}
