package model

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// Channel is a notification category a subscriber opts into
type Channel string

const (
	ChannelJob  Channel = "job"
	ChannelBlog Channel = "blog"
)

// ParseChannel maps a requested channel onto a known one. Unknown or empty
// values fall back to the job channel.
func ParseChannel(s string) Channel {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelBlog:
		return ChannelBlog
	default:
		return ChannelJob
	}
}

// Subscription is a subscriber's channel memberships, keyed by normalized
// email. Types is nil for records created before channels existed; such
// records implicitly belong to the job channel and to no other.
type Subscription struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Country      string    `json:"country,omitempty"`
	Types        []Channel `json:"types,omitempty"`
	Unsubscribed bool      `json:"unsubscribed"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// IsLegacy reports whether the record has no recorded channel set
func (s *Subscription) IsLegacy() bool {
	return s.Types == nil
}

// Channels returns the effective channel set, applying the legacy rule
func (s *Subscription) Channels() []Channel {
	if s.IsLegacy() {
		return []Channel{ChannelJob}
	}
	return s.Types
}

// HasChannel reports effective membership of ch
func (s *Subscription) HasChannel(ch Channel) bool {
	return slices.Contains(s.Channels(), ch)
}

// IsActive reports whether the subscriber still receives mail
func (s *Subscription) IsActive() bool {
	return !s.Unsubscribed
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubscribeRequest adds a channel to a subscription
type SubscribeRequest struct {
	Email   string `json:"email"`
	Country string `json:"country,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Validate checks the email after normalization
func (r *SubscribeRequest) Validate() []FieldError {
	return validateEmail(r.Email)
}

// UnsubscribeRequest removes one channel, or every channel when Type is empty
type UnsubscribeRequest struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

// Validate checks the email after normalization
func (r *UnsubscribeRequest) Validate() []FieldError {
	return validateEmail(r.Email)
}

// SubscribeResult is returned by a successful subscribe
type SubscribeResult struct {
	Email   string    `json:"email"`
	Country string    `json:"country,omitempty"`
	Types   []Channel `json:"types"`
	Created bool      `json:"created"`
}

func validateEmail(email string) []FieldError {
	email = NormalizeEmail(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}
	if !emailPattern.MatchString(email) {
		return []FieldError{{Field: "email", Message: "email is not a valid address"}}
	}
	return nil
}
