package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// SubscriptionStore is the subscriber directory
type SubscriptionStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	AddChannel(ctx context.Context, email string, channel model.Channel, country string) (*model.Subscription, error)
	RemoveChannel(ctx context.Context, email string, channel model.Channel) (*model.Subscription, error)
	Deactivate(ctx context.Context, email string) (*model.Subscription, error)
}

// Welcomer sends the subscription confirmation
type Welcomer interface {
	Welcome(ctx context.Context, email string, channel model.Channel) error
}

// SubscriptionService manages channel memberships of email subscribers
type SubscriptionService struct {
	subscriptions SubscriptionStore
	welcomer      Welcomer
	runner        TaskRunner
}

// SubscriptionServiceConfig holds configuration for the subscription service
type SubscriptionServiceConfig struct {
	Subscriptions SubscriptionStore
	Welcomer      Welcomer
	Runner        TaskRunner
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(cfg SubscriptionServiceConfig) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: cfg.Subscriptions,
		welcomer:      cfg.Welcomer,
		runner:        cfg.Runner,
	}
}

// Subscribe adds the channel named by req.Type (job by default) to the
// subscriber's set, creating or reactivating the record as needed. An
// active subscriber that already lists the channel gets ErrAlreadySubscribed.
func (s *SubscriptionService) Subscribe(ctx context.Context, req *model.SubscribeRequest) (*model.SubscribeResult, error) {
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(req.Email)
	country := strings.TrimSpace(req.Country)
	channel := model.ParseChannel(req.Type)

	existing, err := s.subscriptions.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	// Legacy records carry job membership only implicitly, so subscribing
	// them to job again materializes the channel set instead of conflicting.
	if existing != nil && existing.IsActive() && !existing.IsLegacy() && existing.HasChannel(channel) {
		return nil, ErrAlreadySubscribed
	}

	var sub *model.Subscription
	created := false
	if existing == nil {
		sub = &model.Subscription{Email: email, Country: country, Types: []model.Channel{channel}}
		err = s.subscriptions.Create(ctx, sub)
		switch {
		case err == nil:
			created = true
		case errors.Is(err, database.ErrDuplicate):
			// A concurrent subscribe created the record first.
			sub, err = s.subscriptions.AddChannel(ctx, email, channel, country)
		}
	} else {
		sub, err = s.subscriptions.AddChannel(ctx, email, channel, country)
	}
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	s.welcome(ctx, email, channel)

	return &model.SubscribeResult{
		Email:   sub.Email,
		Country: sub.Country,
		Types:   sub.Channels(),
		Created: created,
	}, nil
}

// welcome sends the confirmation in the background; failures are logged
func (s *SubscriptionService) welcome(ctx context.Context, email string, channel model.Channel) {
	if s.welcomer == nil || s.runner == nil {
		return
	}
	s.runner.Go(ctx, "subscription.welcome", func(ctx context.Context) {
		if err := s.welcomer.Welcome(ctx, email, channel); err != nil {
			slog.WarnContext(ctx, "welcome mail not sent",
				slog.String("channel", string(channel)),
				slog.String("error", err.Error()),
			)
		}
	})
}

// Unsubscribe removes one channel when req.Type is set, marking the record
// unsubscribed once no channel remains, or unsubscribes from everything.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, req *model.UnsubscribeRequest) (*model.Subscription, error) {
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(req.Email)

	var (
		sub *model.Subscription
		err error
	)
	if strings.TrimSpace(req.Type) != "" {
		sub, err = s.subscriptions.RemoveChannel(ctx, email, model.ParseChannel(req.Type))
	} else {
		sub, err = s.subscriptions.Deactivate(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

// SubscribedMessage is the confirmation line shown for channel
func SubscribedMessage(channel model.Channel) string {
	if channel == model.ChannelBlog {
		return "Subscribed to Blog Alerts!"
	}
	return "Subscribed to Job Alerts!"
}
