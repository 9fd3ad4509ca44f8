package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue is a process-local queue used when no Redis is
// configured, mostly in tests and quick local runs.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs map[JobType]chan *Job
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{jobs: make(map[JobType]chan *Job)}
}

func (q *MemoryQueue) channel(jobType JobType) chan *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.jobs[jobType]
	if !ok {
		ch = make(chan *Job, 1024)
		q.jobs[jobType] = ch
	}
	return ch
}

func (q *MemoryQueue) Enqueue(ctx context.Context, jobType JobType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	job := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}

	select {
	case q.channel(jobType) <- job:
		return nil
	default:
		return fmt.Errorf("queue full for job type %s", jobType)
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, jobType JobType, timeout time.Duration) (*Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case job := <-q.channel(jobType):
		return job, nil
	case <-timer.C:
		return nil, nil
	}
}

func (q *MemoryQueue) Process(ctx context.Context, jobType JobType, handler JobHandler, timeout time.Duration) error {
	job, err := q.Dequeue(ctx, jobType, timeout)
	if err != nil {
		return err
	}
	if job == nil {
		return nil
	}

	if err := handler(ctx, job); err != nil {
		job.Attempts++
		if job.Attempts < maxRetries {
			return q.Retry(ctx, job)
		}
		return fmt.Errorf("job failed after %d attempts: %w", maxRetries, err)
	}

	return nil
}

func (q *MemoryQueue) Retry(ctx context.Context, job *Job) error {
	select {
	case q.channel(job.Type) <- job:
		return nil
	default:
		return fmt.Errorf("queue full for job type %s", job.Type)
	}
}
