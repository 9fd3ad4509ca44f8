package queue

import (
	"context"
	"encoding/json"
	"time"
)

type JobType string

const (
	JobTypeSettlement JobType = "settlement"
)

type Job struct {
	ID        string
	Type      JobType
	Payload   json.RawMessage
	Attempts  int
	CreatedAt time.Time
}

type JobHandler func(ctx context.Context, job *Job) error

type Queue interface {
	Enqueue(ctx context.Context, jobType JobType, payload interface{}) error
	Dequeue(ctx context.Context, jobType JobType, timeout time.Duration) (*Job, error)
	Process(ctx context.Context, jobType JobType, handler JobHandler, timeout time.Duration) error
	Retry(ctx context.Context, job *Job) error
}

// SettlementJobPayload describes an inbound bank transfer waiting to be
// credited. SettleAt is the moment the money is considered to have
// arrived; the worker requeues jobs it picks up early.
type SettlementJobPayload struct {
	TraceID   string    `json:"trace_id"`
	UserID    string    `json:"user_id"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	SettleAt  time.Time `json:"settle_at"`
}
