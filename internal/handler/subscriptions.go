package handler

import (
	"context"
	"net/http"

	"github.com/Alvi123787/Job-site-backend/internal/model"
	"github.com/Alvi123787/Job-site-backend/internal/service"
)

// Subscriber manages email alert subscriptions
type Subscriber interface {
	Subscribe(ctx context.Context, req *model.SubscribeRequest) (*model.SubscribeResult, error)
	Unsubscribe(ctx context.Context, req *model.UnsubscribeRequest) (*model.Subscription, error)
}

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	subscriptions Subscriber
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptions Subscriber) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// SubscribeResponse is the body of a successful subscribe
type SubscribeResponse struct {
	Message      string                 `json:"message"`
	Subscription *model.SubscribeResult `json:"subscription"`
}

// UnsubscribeResponse is the body of a successful unsubscribe
type UnsubscribeResponse struct {
	Message      string              `json:"message"`
	Subscription *model.Subscription `json:"subscription"`
}

// Subscribe handles POST /v1/subscriptions
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req model.SubscribeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.subscriptions.Subscribe(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "subscribe"))
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	WriteData(w, status, SubscribeResponse{
		Message:      service.SubscribedMessage(model.ParseChannel(req.Type)),
		Subscription: result,
	}, nil)
}

// Unsubscribe handles POST /v1/subscriptions/unsubscribe
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req model.UnsubscribeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	sub, err := h.subscriptions.Unsubscribe(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "unsubscribe"))
		return
	}

	WriteData(w, http.StatusOK, UnsubscribeResponse{
		Message:      "Unsubscribed successfully",
		Subscription: sub,
	}, nil)
}
