package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/Alvi123787/Job-site-backend/internal/model"
)

// SubscriptionRepository is the audience directory. Records without a types
// field predate channels and count as members of the job channel only.
type SubscriptionRepository struct {
	db database.Database
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db database.Database) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByEmail retrieves a subscription by normalized email. It returns nil
// when none exists.
func (r *SubscriptionRepository) GetByEmail(ctx context.Context, email string) (*model.Subscription, error) {
	query := `SELECT * FROM subscription WHERE email = $email LIMIT 1`

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"email": email})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return decodeRecord[model.Subscription](result)
}

// Create inserts a new active subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	query := `
		CREATE subscription CONTENT {
			email: $email,
			country: IF $country IS NOT NULL THEN $country ELSE NONE END,
			types: $types,
			unsubscribed: false,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":   sub.Email,
		"country": nilIfEmpty(sub.Country),
		"types":   channelList(sub.Types),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: subscription for %s", database.ErrDuplicate, sub.Email)
		}
		return fmt.Errorf("create subscription: %w", err)
	}

	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return errors.New("create subscription: no result returned")
	}
	created, err := decodeRecord[model.Subscription](rows[0])
	if err != nil {
		return err
	}

	sub.ID = created.ID
	sub.Unsubscribed = false
	sub.CreatedOn = created.CreatedOn
	sub.UpdatedOn = created.UpdatedOn
	return nil
}

// AddChannel unions channel into the subscriber's set and reactivates the
// record. A legacy record is seeded with its implicit job membership first.
// The country is replaced only when a non-empty one is given.
func (r *SubscriptionRepository) AddChannel(ctx context.Context, email string, channel model.Channel, country string) (*model.Subscription, error) {
	query := `
		UPDATE subscription SET
			types = array::union(types ?? $legacy, [$channel]),
			unsubscribed = false,
			country = IF $country IS NOT NULL THEN $country ELSE country END,
			updated_on = time::now()
		WHERE email = $email
		RETURN AFTER
	`

	vars := map[string]interface{}{
		"email":   email,
		"channel": string(channel),
		"country": nilIfEmpty(country),
		"legacy":  []string{string(model.ChannelJob)},
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("add channel: %w", err)
	}

	return decodeRecord[model.Subscription](result)
}

// RemoveChannel drops channel from the subscriber's set and marks the
// record unsubscribed when no channel remains.
func (r *SubscriptionRepository) RemoveChannel(ctx context.Context, email string, channel model.Channel) (*model.Subscription, error) {
	query := `
		UPDATE subscription SET
			types = array::complement(types ?? $legacy, [$channel]),
			updated_on = time::now()
		WHERE email = $email;
		UPDATE subscription SET unsubscribed = true
		WHERE email = $email AND array::len(types) = 0;
		SELECT * FROM subscription WHERE email = $email LIMIT 1;
	`

	vars := map[string]interface{}{
		"email":   email,
		"channel": string(channel),
		"legacy":  []string{string(model.ChannelJob)},
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("remove channel: %w", err)
	}

	rows := statementRows(results, 2)
	if len(rows) == 0 {
		return nil, nil
	}
	return decodeRecord[model.Subscription](rows[0])
}

// Deactivate marks the subscriber unsubscribed from every channel. The
// channel set is kept so a later subscribe restores it.
func (r *SubscriptionRepository) Deactivate(ctx context.Context, email string) (*model.Subscription, error) {
	query := `
		UPDATE subscription SET unsubscribed = true, updated_on = time::now()
		WHERE email = $email
		RETURN AFTER
	`

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"email": email})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("deactivate subscription: %w", err)
	}

	return decodeRecord[model.Subscription](result)
}

// ListAudience returns the active subscribers of channel. When
// includeLegacy is set, records without a types field are included too.
func (r *SubscriptionRepository) ListAudience(ctx context.Context, channel model.Channel, includeLegacy bool) ([]*model.Subscription, error) {
	query := `
		SELECT * FROM subscription
		WHERE unsubscribed != true
			AND (types CONTAINS $channel OR ($include_legacy AND types = NONE))
	`

	vars := map[string]interface{}{
		"channel":        string(channel),
		"include_legacy": includeLegacy,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("list audience: %w", err)
	}

	return decodeRecords[model.Subscription](statementRows(results, 0))
}

func channelList(channels []model.Channel) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, string(ch))
	}
	return out
}
