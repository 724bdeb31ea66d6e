package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/telemetry"
)

// Message is one outbound notification
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single message. No ordering or delivery guarantee is
// assumed; a returned error marks that recipient as failed.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// AudienceDirectory selects subscribers for a channel
type AudienceDirectory interface {
	ListAudience(ctx context.Context, channel model.Channel, includeLegacy bool) ([]*model.Subscription, error)
}

// Rendering is the subject and bodies shared by every recipient of an event
type Rendering struct {
	Subject string
	Text    string
	HTML    string
}

// SendResult is the outcome of one recipient's send
type SendResult struct {
	Recipient string
	Err       error
}

// DispatchReport summarizes one fan-out
type DispatchReport struct {
	BatchID   string
	Attempted int
	Failed    int
	Results   []SendResult
}

// NotificationService selects an audience, renders content and fans
// messages out to every recipient concurrently.
type NotificationService struct {
	audience     AudienceDirectory
	sender       Sender
	frontendBase string
	sendTimeout  time.Duration
}

// NotificationServiceConfig holds configuration for the notification service
type NotificationServiceConfig struct {
	Audience     AudienceDirectory
	Sender       Sender
	FrontendBase string
	SendTimeout  time.Duration
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg NotificationServiceConfig) *NotificationService {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &NotificationService{
		audience:     cfg.Audience,
		sender:       cfg.Sender,
		frontendBase: strings.TrimRight(cfg.FrontendBase, "/"),
		sendTimeout:  timeout,
	}
}

// SelectAudience returns the active subscribers of channel. Records that
// predate channels count as job subscribers and never as blog subscribers.
func (s *NotificationService) SelectAudience(ctx context.Context, channel model.Channel) ([]*model.Subscription, error) {
	return s.audience.ListAudience(ctx, channel, channel == model.ChannelJob)
}

// Dispatch sends r to every member of audience at once and waits for all
// of them. A failed send is recorded and never retried, and never stops
// the other sends.
func (s *NotificationService) Dispatch(ctx context.Context, audience []*model.Subscription, r Rendering) DispatchReport {
	ctx, span := telemetry.Tracer().Start(ctx, "notifications.dispatch")
	defer span.End()

	recipients := make([]string, 0, len(audience))
	for _, sub := range audience {
		if sub != nil && strings.TrimSpace(sub.Email) != "" {
			recipients = append(recipients, sub.Email)
		}
	}

	report := DispatchReport{
		BatchID:   uuid.New().String(),
		Attempted: len(recipients),
		Results:   make([]SendResult, len(recipients)),
	}

	var wg sync.WaitGroup
	for i, to := range recipients {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			report.Results[i] = SendResult{Recipient: to, Err: s.sendOne(ctx, to, r)}
		}(i, to)
	}
	wg.Wait()

	for _, res := range report.Results {
		if res.Err != nil {
			report.Failed++
			slog.Debug("notification send failed",
				slog.String("batch_id", report.BatchID),
				slog.String("recipient", res.Recipient),
				slog.String("error", res.Err.Error()),
			)
		}
	}

	span.SetAttributes(
		attribute.String("batch_id", report.BatchID),
		attribute.Int("attempted", report.Attempted),
		attribute.Int("failed", report.Failed),
	)

	if report.Failed > 0 {
		slog.Warn("notification sends failed",
			slog.String("batch_id", report.BatchID),
			slog.String("subject", r.Subject),
			slog.Int("attempted", report.Attempted),
			slog.Int("failed", report.Failed),
		)
	} else {
		slog.Info("notifications dispatched",
			slog.String("batch_id", report.BatchID),
			slog.String("subject", r.Subject),
			slog.Int("attempted", report.Attempted),
		)
	}

	return report
}

// sendOne delivers to a single recipient within the send timeout
func (s *NotificationService) sendOne(ctx context.Context, to string, r Rendering) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sender panicked: %v", rec)
		}
	}()

	return s.sender.Send(ctx, Message{To: to, Subject: r.Subject, Text: r.Text, HTML: r.HTML})
}

// Notify selects the channel's audience and dispatches r to it
func (s *NotificationService) Notify(ctx context.Context, channel model.Channel, r Rendering) (DispatchReport, error) {
	audience, err := s.SelectAudience(ctx, channel)
	if err != nil {
		return DispatchReport{}, fmt.Errorf("select %s audience: %w", channel, err)
	}
	if len(audience) == 0 {
		slog.Debug("no subscribers for channel", slog.String("channel", string(channel)))
		return DispatchReport{}, nil
	}
	return s.Dispatch(ctx, audience, r), nil
}

// Welcome sends the subscription confirmation for channel to email
func (s *NotificationService) Welcome(ctx context.Context, email string, channel model.Channel) error {
	if strings.TrimSpace(email) == "" {
		return ErrNoRecipient
	}
	r, err := RenderWelcome(channel)
	if err != nil {
		return err
	}
	return s.sendOne(ctx, email, r)
}

// JobURL is the public link to a job
func (s *NotificationService) JobURL(job *model.Job) string {
	return fmt.Sprintf("%s/jobs/%s", s.frontendBase, recordKey(job.ID))
}

// BlogURL is the public link to a blog post
func (s *NotificationService) BlogURL(blog *model.Blog) string {
	return fmt.Sprintf("%s/blog/%s", s.frontendBase, recordKey(blog.ID))
}

// RenderJob renders the job alert for job
func (s *NotificationService) RenderJob(job *model.Job) (Rendering, error) {
	return RenderJob(job, s.JobURL(job))
}

// RenderBlog renders the blog alert for blog
func (s *NotificationService) RenderBlog(blog *model.Blog) (Rendering, error) {
	return RenderBlog(blog, s.BlogURL(blog))
}

// ============================================================================
// Rendering
// ============================================================================

var jobAlertHTML = template.Must(template.New("job").Parse(`<div style="font-family:Arial,sans-serif;line-height:1.6;color:#0f172a">
  <h2 style="margin:0 0 12px">New Job Alert</h2>
  <p style="margin:0 0 8px"><strong>{{.Title}}</strong></p>
  <p style="margin:0 0 8px"><strong>Company:</strong> {{.Company}}</p>
  {{- if .Location}}
  <p style="margin:0 0 8px"><strong>Location:</strong> {{.Location}}</p>
  {{- end}}
  {{- if .JobType}}
  <p style="margin:0 0 8px"><strong>Type:</strong> {{.JobType}}</p>
  {{- end}}
  {{- if .Salary}}
  <p style="margin:0 0 12px"><strong>Salary:</strong> {{.Salary}}</p>
  {{- end}}
  <a href="{{.URL}}" style="display:inline-block;padding:10px 16px;background:#2563eb;color:#fff;text-decoration:none;border-radius:6px" target="_blank" rel="noopener noreferrer">View Details</a>
  <p style="margin-top:16px;font-size:12px;color:#64748b">You're receiving this because you subscribed to Job Alerts.</p>
</div>`))

var blogAlertHTML = template.Must(template.New("blog").Parse(`<div style="font-family:Arial,sans-serif;line-height:1.6;color:#0f172a">
  <h2 style="margin:0 0 12px">{{.Title}}</h2>
  {{- if .Author}}
  <p style="margin:0 0 8px;color:#475569">By {{.Author}}</p>
  {{- end}}
  {{- if .ShortDescription}}
  <p style="margin:0 0 12px">{{.ShortDescription}}</p>
  {{- end}}
  {{- if .Image}}
  <img src="{{.Image}}" alt="{{.Title}}" width="100%" style="border-radius:8px;margin:10px 0" />
  {{- end}}
  <a href="{{.URL}}" style="display:inline-block;padding:10px 16px;background:#2563eb;color:#fff;text-decoration:none;border-radius:6px" target="_blank" rel="noopener noreferrer">Read Full Blog</a>
  <p style="margin-top:16px;font-size:12px;color:#64748b">You're receiving this because you subscribed to Blog Alerts.</p>
</div>`))

var welcomeHTML = template.Must(template.New("welcome").Parse(`<div style="font-family:Arial,sans-serif;line-height:1.6;color:#0f172a">
  <h2 style="margin:0 0 12px">You're subscribed</h2>
  <p>Thanks for subscribing to our {{.Label}}. We'll email you when {{.What}}.</p>
  <p style="margin-top:16px">You can unsubscribe anytime.</p>
</div>`))

type jobView struct {
	Title    string
	Company  string
	Location string
	JobType  string
	Salary   string
	URL      string
}

// RenderJob builds the job alert. It reads nothing but its arguments.
func RenderJob(job *model.Job, url string) (Rendering, error) {
	view := jobView{
		Title:    job.Title,
		Company:  job.Company,
		Location: DeriveLocation(job),
		JobType:  job.JobType,
		Salary:   SalaryLabel(job),
		URL:      url,
	}

	var text strings.Builder
	text.WriteString("A new job has been posted")
	if job.Country != "" {
		text.WriteString(" in " + job.Country)
	}
	text.WriteString(".\n\n")
	fmt.Fprintf(&text, "Title: %s\n", view.Title)
	fmt.Fprintf(&text, "Company: %s\n", view.Company)
	if view.Location != "" {
		fmt.Fprintf(&text, "Location: %s\n", view.Location)
	}
	if view.JobType != "" {
		fmt.Fprintf(&text, "Job Type: %s\n", view.JobType)
	}
	if view.Salary != "" {
		fmt.Fprintf(&text, "Salary: %s\n", view.Salary)
	}
	fmt.Fprintf(&text, "\nView details: %s\n", url)

	var html bytes.Buffer
	if err := jobAlertHTML.Execute(&html, view); err != nil {
		return Rendering{}, fmt.Errorf("render job alert: %w", err)
	}

	return Rendering{
		Subject: fmt.Sprintf("New Job Posted: %s at %s", job.Title, job.Company),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

type blogView struct {
	Title            string
	Author           string
	ShortDescription string
	Image            string
	URL              string
}

// RenderBlog builds the blog alert. It reads nothing but its arguments.
func RenderBlog(blog *model.Blog, url string) (Rendering, error) {
	view := blogView{
		Title:            blog.Title,
		Author:           blog.Author,
		ShortDescription: strings.TrimSpace(blog.ShortDescription),
		Image:            strings.TrimSpace(blog.Image),
		URL:              url,
	}

	var html bytes.Buffer
	if err := blogAlertHTML.Execute(&html, view); err != nil {
		return Rendering{}, fmt.Errorf("render blog alert: %w", err)
	}

	return Rendering{
		Subject: fmt.Sprintf("New Blog Posted: %s", blog.Title),
		Text:    fmt.Sprintf("%s\n\n%s\n\nRead: %s", blog.Title, view.ShortDescription, url),
		HTML:    html.String(),
	}, nil
}

// RenderWelcome builds the subscription confirmation for channel
func RenderWelcome(channel model.Channel) (Rendering, error) {
	label, what := "Job Alerts", "new jobs are posted"
	if channel == model.ChannelBlog {
		label, what = "Blog Alerts", "new posts are published"
	}

	var html bytes.Buffer
	if err := welcomeHTML.Execute(&html, struct{ Label, What string }{label, what}); err != nil {
		return Rendering{}, fmt.Errorf("render welcome: %w", err)
	}

	return Rendering{
		Subject: fmt.Sprintf("Welcome to %s!", label),
		Text:    fmt.Sprintf("Thanks for subscribing to our %s. We'll email you when %s.\n\nYou can unsubscribe anytime.", label, what),
		HTML:    html.String(),
	}, nil
}

// SalaryLabel formats a job's salary range as "CUR min - max / per". When
// only one bound is set the range collapses to that single amount; two set
// bounds always print as a range, even when equal. It returns "" when
// neither bound is set.
func SalaryLabel(job *model.Job) string {
	if !job.HasSalary() {
		return ""
	}

	var amount string
	switch lo, hi := job.SalaryMin, job.SalaryMax; {
	case lo != nil && hi != nil:
		amount = formatAmount(*lo) + " - " + formatAmount(*hi)
	case lo != nil:
		amount = formatAmount(*lo)
	default:
		amount = formatAmount(*hi)
	}

	label := amount
	if job.Currency != "" {
		label = job.Currency + " " + label
	}
	if job.SalaryPer != "" {
		label += " / " + job.SalaryPer
	}
	return label
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recordKey strips the table prefix from a record id
func recordKey(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}
