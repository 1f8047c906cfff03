package alerts

import (
	"context"
	"errors"
	"time"
)

// Condition tells which price crossing triggers an alert.
type Condition string

const (
	ConditionAbove Condition = "above"
	ConditionBelow Condition = "below"
)

// Status is the lifecycle state of an alert.
type Status string

const (
	StatusActive    Status = "active"
	StatusTriggered Status = "triggered"
)

// Alert is a price alert registered by a user.
type Alert struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	PriceLevel  float64   `json:"price_level"`
	Condition   Condition `json:"condition"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	TriggeredAt time.Time `json:"triggered_at,omitempty"`
}

// ErrNotFound is returned when an alert id does not exist.
var ErrNotFound = errors.New("alert not found")

// Store persists alerts. The memory implementation backs development and
// tests; the postgres implementation is used when a DATABASE_URL is set.
type Store interface {
	Create(ctx context.Context, alert Alert) (Alert, error)
	List(ctx context.Context, status Status) ([]Alert, error)
	Delete(ctx context.Context, id int64) error
	MarkTriggered(ctx context.Context, id int64, at time.Time) error
}
